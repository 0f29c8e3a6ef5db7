package duckdb

import "github.com/TebbyShelby/pricecatcher/pkg/errors"

// Session-specific error codes
var (
	ErrOpenFailed          = errors.MustNewCode("duckdb.open_failed")
	ErrIntrospectionFailed = errors.MustNewCode("duckdb.introspection_failed")
	ErrSessionClosed       = errors.MustNewCode("duckdb.session_closed")
)
