package server

import "github.com/TebbyShelby/pricecatcher/pkg/errors"

// Server lifecycle error codes
var (
	ErrServerCreationFailed = errors.MustNewCode("server.creation_failed")
	ErrServerStartFailed    = errors.MustNewCode("server.start_failed")
)
