package errors

type ErrorCode string

const (
	ErrNotFound        ErrorCode = "NotFound"
	ErrInternal        ErrorCode = "Internal"
	ErrInvalidArgument ErrorCode = "InvalidArgument"
	// ErrUnavailable marks a failed call to an upstream or downstream service.
	ErrUnavailable ErrorCode = "Unavailable"
)
