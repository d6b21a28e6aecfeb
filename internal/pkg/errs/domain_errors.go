package errs

import "errors"

// Sentinel errors shared by the domain, usecase and handler layers.
// Handlers translate them into HTTP statuses; everything else wraps or marks them.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("date already reserved")
	ErrGateway      = errors.New("payment gateway error")
	ErrAuth         = errors.New("authentication failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
