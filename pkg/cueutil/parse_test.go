// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Widget: {
	name: string & !=""
	size: int & >0
	tags?: [...string]
}
`

type widget struct {
	Name string   `json:"name"`
	Size int      `json:"size"`
	Tags []string `json:"tags,omitempty"`
}

func TestParseAndDecode_Valid(t *testing.T) {
	t.Parallel()

	data := []byte(`
name: "gear"
size: 3
tags: ["metal"]
`)

	res, err := ParseAndDecode[widget]([]byte(testSchema), data, "#Widget", WithFilename("widget.cue"))
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if res.Value.Name != "gear" || res.Value.Size != 3 {
		t.Errorf("decoded widget = %+v", *res.Value)
	}
	if len(res.Value.Tags) != 1 || res.Value.Tags[0] != "metal" {
		t.Errorf("decoded tags = %v", res.Value.Tags)
	}
}

func TestParseAndDecode_SchemaViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantSub string
	}{
		{
			name:    "wrong type",
			data:    `{name: "gear", size: "big"}`,
			wantSub: "size",
		},
		{
			name:    "constraint violation",
			data:    `{name: "", size: 1}`,
			wantSub: "name",
		},
		{
			name:    "missing required field",
			data:    `{name: "gear"}`,
			wantSub: "size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseAndDecode[widget]([]byte(testSchema), []byte(tt.data), "#Widget", WithFilename("widget.cue"))
			if err == nil {
				t.Fatal("ParseAndDecode() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantSub)
			}
			if !strings.Contains(err.Error(), "widget.cue") {
				t.Errorf("error %q does not carry the filename", err.Error())
			}
		})
	}
}

func TestParseAndDecode_FileSizeLimit(t *testing.T) {
	t.Parallel()

	data := []byte(`name: "gear", size: 1`)
	_, err := ParseAndDecode[widget]([]byte(testSchema), data, "#Widget", WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("ParseAndDecode() with tiny limit = %v, want size error", err)
	}
}

func TestParseAndDecode_UnknownSchemaPath(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[widget]([]byte(testSchema), []byte(`{}`), "#Nope")
	if err == nil || !strings.Contains(err.Error(), "#Nope") {
		t.Errorf("ParseAndDecode() with bad schema path = %v, want internal error naming the path", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{name: "empty", path: nil, want: ""},
		{name: "single", path: []string{"service"}, want: "service"},
		{name: "nested", path: []string{"service", "identity", "uid"}, want: "service.identity.uid"},
		{name: "array index", path: []string{"dependencies", "2", "name"}, want: "dependencies[2].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
