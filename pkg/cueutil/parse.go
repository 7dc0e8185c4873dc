// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds how large a CUE input file may be. Inputs are
// user-supplied, so the size is checked before compilation.
const DefaultMaxFileSize int64 = 1 << 20 // 1 MiB

type (
	// Option configures a ParseAndDecode call.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}

	// ParseResult holds the outcome of a successful parse.
	ParseResult[T any] struct {
		// Value is the decoded Go struct.
		Value *T

		// Unified is the schema-unified CUE value, available for callers
		// that need additional lookups beyond the decoded struct.
		Unified cue.Value
	}
)

func defaultOptions() options {
	return options{maxFileSize: DefaultMaxFileSize, concrete: true}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides the input size limit.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete controls whether validation requires concrete values.
// Concrete validation is the default; disable it for files where fields
// are optional and defaults come from elsewhere.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// ParseAndDecode validates user-provided CUE data against an embedded
// schema and decodes it into T.
//
// schemaPath names the root definition inside the schema, e.g.
// "#Servicefile" or "#Config". Errors carry the filename and a JSON path
// to the invalid field.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{Value: &result, Unified: unified}, nil
}

// CheckFileSize returns an error when data exceeds maxSize. Exposed for
// callers that check sizes before handing bytes to ParseAndDecode.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
