package workspace

import "github.com/TebbyShelby/pricecatcher/pkg/errors"

// Workspace-specific error codes
var (
	ErrCredentialsMissing = errors.MustNewCode("workspace.credentials_missing")
	ErrNotConnected       = errors.MustNewCode("workspace.not_connected")
	ErrNoResult           = errors.MustNewCode("workspace.no_result")
	ErrTempDirFailed      = errors.MustNewCode("workspace.temp_dir_failed")
)
