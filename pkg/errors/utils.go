package errors

import (
	"fmt"
	"strings"
)

// GetCode returns the code string of an *Error, or "" for foreign errors
func GetCode(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code.String()
	}
	return ""
}

// HasCode reports whether err is an *Error carrying the given code
func HasCode(err error, code Code) bool {
	if e, ok := err.(*Error); ok {
		return e.Code.Equals(code)
	}
	return false
}

// AsError converts any error to the internal *Error format.
// Existing *Error values pass through; everything else is wrapped
// under CommonInternal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(CommonInternal, err.Error(), err)
}

// FormatError renders an error with code, context and cause for logs
func FormatError(err error) string {
	if e, ok := err.(*Error); ok {
		var parts []string
		parts = append(parts, fmt.Sprintf("Code: %s", e.Code))
		parts = append(parts, fmt.Sprintf("Message: %s", e.Message))

		if len(e.Context) > 0 {
			parts = append(parts, "Context:")
			for k, v := range e.Context {
				parts = append(parts, fmt.Sprintf("  %s: %v", k, v))
			}
		}

		if e.Cause != nil {
			parts = append(parts, fmt.Sprintf("Cause: %v", e.Cause))
		}

		return strings.Join(parts, "\n")
	}
	return err.Error()
}
