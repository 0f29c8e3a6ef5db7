package drive

import "github.com/TebbyShelby/pricecatcher/pkg/errors"

// Drive-specific error codes, one per stage so callers can tell an auth
// failure from a lookup or transfer failure
var (
	ErrAuthFailed     = errors.MustNewCode("drive.auth_failed")
	ErrLookupFailed   = errors.MustNewCode("drive.lookup_failed")
	ErrNotFound       = errors.MustNewCode("drive.not_found")
	ErrTransferFailed = errors.MustNewCode("drive.transfer_failed")
)
