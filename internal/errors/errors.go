package errors

import "fmt"

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeNotFound         ErrCode = "NOT_FOUND"
	ErrCodeUnauthorized     ErrCode = "UNAUTHORIZED"
	ErrCodeForbidden        ErrCode = "FORBIDDEN"
	ErrCodeRateLimited      ErrCode = "RATE_LIMITED"
	ErrCodeConflict         ErrCode = "CONFLICT"
	ErrCodeQuotaExceeded    ErrCode = "QUOTA_EXCEEDED"
	ErrCodeUnknownOperation ErrCode = "UNKNOWN_OPERATION"
	ErrCodeInternal         ErrCode = "INTERNAL_ERROR"
	ErrCodeBadRequest       ErrCode = "BAD_REQUEST"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
	}
}

// NewRateLimitedError creates a new rate limited error
func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// NewQuotaExceededError creates a new quota exceeded error
func NewQuotaExceededError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeQuotaExceeded,
		Message: message,
	}
}

// NewUnknownOperationError creates an error for an attribute that is neither
// modeled locally nor present on the remote resource representation
func NewUnknownOperationError(name string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownOperation,
		Message: fmt.Sprintf("unknown attribute or operation %q", name),
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
	}
}

func is(err error, code ErrCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return is(err, ErrCodeNotFound)
}

// IsForbidden checks if the error is a forbidden error
func IsForbidden(err error) bool {
	return is(err, ErrCodeForbidden)
}

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool {
	return is(err, ErrCodeUnauthorized)
}

// IsRateLimited checks if the error is a rate limited error
func IsRateLimited(err error) bool {
	return is(err, ErrCodeRateLimited)
}

// IsQuotaExceeded checks if the error is a quota exceeded error
func IsQuotaExceeded(err error) bool {
	return is(err, ErrCodeQuotaExceeded)
}

// IsUnknownOperation checks if the error is an unknown operation error
func IsUnknownOperation(err error) bool {
	return is(err, ErrCodeUnknownOperation)
}

// IsBadRequest checks if the error is a bad request error
func IsBadRequest(err error) bool {
	return is(err, ErrCodeBadRequest)
}
