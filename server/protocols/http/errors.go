package http

import "github.com/TebbyShelby/pricecatcher/pkg/errors"

// HTTP-specific error codes
var (
	ErrMissingBody  = errors.MustNewCode("http.missing_body")
	ErrStartFailed  = errors.MustNewCode("http.start_failed")
	ErrInvalidInput = errors.MustNewCode("http.invalid_input")
)
