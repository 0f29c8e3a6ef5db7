package credentials

import "github.com/TebbyShelby/pricecatcher/pkg/errors"

// Credential-specific error codes
var (
	ErrInvalidJSON = errors.MustNewCode("credentials.invalid_json")
	ErrEmptyUpload = errors.MustNewCode("credentials.empty_upload")
	ErrWriteFailed = errors.MustNewCode("credentials.write_failed")
)
