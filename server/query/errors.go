package query

import "github.com/TebbyShelby/pricecatcher/pkg/errors"

// Query-specific error codes
var (
	ErrExecutionFailed = errors.MustNewCode("query.execution_failed")
	ErrScanFailed      = errors.MustNewCode("query.scan_failed")
	ErrNoResult        = errors.MustNewCode("query.no_result")
	ErrCSVFailed       = errors.MustNewCode("query.csv_failed")
)
