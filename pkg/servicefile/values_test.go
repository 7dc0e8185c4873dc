// SPDX-License-Identifier: MPL-2.0

package servicefile

import (
	"errors"
	"testing"
)

func TestWSGIEntrypoint_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   WSGIEntrypoint
		wantErr bool
	}{
		{name: "simple", value: "service:app", wantErr: false},
		{name: "dotted module", value: "billing.wsgi:application", wantErr: false},
		{name: "underscore identifiers", value: "_svc.mod_2:_app", wantErr: false},
		{name: "no separator", value: "serviceapp", wantErr: true},
		{name: "empty module", value: ":app", wantErr: true},
		{name: "empty callable", value: "service:", wantErr: true},
		{name: "digit-leading module", value: "1service:app", wantErr: true},
		{name: "dotted callable", value: "service:app.run", wantErr: true},
		{name: "hyphen in module", value: "my-service:app", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.value.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidEntrypoint) {
				t.Errorf("error %v does not wrap ErrInvalidEntrypoint", err)
			}
		})
	}
}

func TestWSGIEntrypoint_Parts(t *testing.T) {
	t.Parallel()

	e := WSGIEntrypoint("service.routes:app")
	if e.Module() != "service.routes" {
		t.Errorf("Module() = %q", e.Module())
	}
	if e.Callable() != "app" {
		t.Errorf("Callable() = %q", e.Callable())
	}

	malformed := WSGIEntrypoint("serviceapp")
	if malformed.Module() != "" || malformed.Callable() != "" {
		t.Error("malformed entrypoint should yield empty parts")
	}
}

func TestRuntimeUID_Validate(t *testing.T) {
	t.Parallel()

	if err := RuntimeUID(1000).Validate(); err != nil {
		t.Errorf("Validate(1000) = %v", err)
	}
	if err := RuntimeUID(0).Validate(); !errors.Is(err, ErrInvalidUID) {
		t.Errorf("Validate(0) = %v, want ErrInvalidUID", err)
	}
	if err := RuntimeUID(70000).Validate(); !errors.Is(err, ErrInvalidUID) {
		t.Errorf("Validate(70000) = %v, want ErrInvalidUID", err)
	}
}

func TestUsername_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   Username
		wantErr bool
	}{
		{value: "appuser", wantErr: false},
		{value: "_svc", wantErr: false},
		{value: "web-1", wantErr: false},
		{value: "", wantErr: true},
		{value: "1abc", wantErr: true},
		{value: "-abc", wantErr: true},
		{value: "Has.Caps", wantErr: true},
		{value: Username("waytoolongusername_waytoolongusername"), wantErr: true},
	}

	for _, tt := range tests {
		if err := tt.value.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Username(%q).Validate() = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestRuntimeIdentity_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultIdentity().Validate(); err != nil {
		t.Errorf("DefaultIdentity().Validate() = %v", err)
	}

	bad := RuntimeIdentity{UID: 0, Username: "1bad"}
	err := bad.Validate()
	if !errors.Is(err, ErrInvalidUID) || !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("Validate() = %v, want joined UID and username errors", err)
	}
}

func TestLogLevel_Validate(t *testing.T) {
	t.Parallel()

	for _, l := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelCritical} {
		if err := l.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v", l, err)
		}
	}
	if err := LogLevel("trace").Validate(); !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("Validate(trace) = %v, want ErrInvalidLogLevel", err)
	}
	if err := LogLevel("").Validate(); !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("Validate(\"\") = %v, want ErrInvalidLogLevel", err)
	}
}

func TestImageRef_Validate(t *testing.T) {
	t.Parallel()

	if err := ImageRef("python:3.9-slim").Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	for _, bad := range []ImageRef{"", "  ", "python :3.9"} {
		if err := bad.Validate(); !errors.Is(err, ErrInvalidImageRef) {
			t.Errorf("Validate(%q) = %v, want ErrInvalidImageRef", bad, err)
		}
	}
}

func TestServiceName_Validate(t *testing.T) {
	t.Parallel()

	for _, ok := range []ServiceName{"accounts", "a", "web-api-2"} {
		if err := ok.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v", ok, err)
		}
	}
	for _, bad := range []ServiceName{"", "-web", "Web", "web_api"} {
		if err := bad.Validate(); !errors.Is(err, ErrInvalidServiceName) {
			t.Errorf("Validate(%q) = %v, want ErrInvalidServiceName", bad, err)
		}
	}
}
