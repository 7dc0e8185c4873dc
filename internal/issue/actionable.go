// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is an error enriched with context for user-facing
	// messages: what operation failed, which resource was involved, and
	// how the user might fix it.
	//
	// Construct via the ErrorContext builder:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load servicefile").
	//		WithResource("./servicefile.cue").
	//		WithSuggestion("Run 'wharf config init' to scaffold one").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase describing what was attempted
		// (e.g. "bake image", "launch container").
		Operation string

		// Resource names the file, image, or entity involved (optional).
		Resource string

		// Suggestions are hints for resolving the failure (optional).
		Suggestions []string

		// Cause is the underlying error (optional).
		Cause error
	}

	// ErrorContext is a fluent builder for ActionableError values.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext returns an empty ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation wraps err with operation context. Returns nil when
// err is nil so it can be used directly in return statements.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// Error implements the error interface with the concise, non-verbose form.
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for display. Non-verbose output is the Error()
// string plus bulleted suggestions; verbose output appends the full
// error chain.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	for _, s := range e.Suggestions {
		msg.WriteString("\n  • ")
		msg.WriteString(s)
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return msg.String()
}

// WithOperation sets the operation being performed (a verb phrase).
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource (file, image, entity) involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a hint for resolving the failure. May be called
// multiple times.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// Wrap records the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates the ActionableError. Returns nil when no operation is set;
// the operation is the one required field.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build returning the error interface, convenient in
// return statements. Returns nil when no operation is set.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
