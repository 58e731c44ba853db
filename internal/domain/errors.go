package domain

import "errors"

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("authorization error")
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not found")
	ErrDependency     = errors.New("dependency failure")
)

// Error is a client-safe error: Msg is what the caller sees, Cause is for logs only.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Is matches two *Error values with the same kind and message, so wrapped
// copies produced by Dependency still compare equal to the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Msg == e.Msg
}

func newErr(kind error, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Validation(msg string) *Error { return newErr(ErrValidation, msg) }

// WithCause returns a copy of e carrying cause for logging.
func (e *Error) WithCause(cause error) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg, Cause: cause}
}

// Dependency wraps a database or notification failure behind a generic message.
func Dependency(msg string, cause error) *Error {
	return &Error{Kind: ErrDependency, Msg: msg, Cause: cause}
}

var (
	ErrInvalidCredentials   = newErr(ErrAuthentication, "Invalid credentials")
	ErrInvalidOTP           = newErr(ErrAuthentication, "Invalid or expired OTP")
	ErrTokenMissing         = newErr(ErrAuthentication, "Token is missing")
	ErrTokenExpired         = newErr(ErrAuthentication, "Token has expired")
	ErrTokenInvalid         = newErr(ErrAuthentication, "Invalid token")
	ErrNotAdmin             = newErr(ErrAuthorization, "Admin privileges required")
	ErrSelfDelete           = newErr(ErrAuthorization, "Cannot delete your own account")
	ErrRegistrationDisabled = newErr(ErrAuthorization, "Registration is disabled")
	ErrUsernameTaken        = newErr(ErrConflict, "Username already exists")
	ErrEmailTaken           = newErr(ErrConflict, "Email already exists")
	ErrUserExists           = newErr(ErrConflict, "User already exists")
	ErrUserNotFound         = newErr(ErrNotFound, "User not found")
	ErrMFAMethodNotFound    = newErr(ErrNotFound, "MFA method not found")
	ErrSettingNotFound      = newErr(ErrNotFound, "Setting not found")
	ErrUnsupportedMFAMethod = newErr(ErrValidation, "Unsupported MFA method")
	ErrMFAAlreadyEnabled    = newErr(ErrValidation, "MFA method already enabled")
	ErrDeliveryRequired     = newErr(ErrValidation, "Delivery value is required")
	ErrInvalidEmail         = newErr(ErrValidation, "Invalid email format")
	ErrMissingFields        = newErr(ErrValidation, "Missing required fields")
	ErrWrongPassword        = newErr(ErrValidation, "Current password is incorrect")
	ErrPasswordTooLong      = newErr(ErrValidation, "Password too long")
	ErrNotificationFailed   = newErr(ErrDependency, "Failed to send OTP")
	ErrOperationFailed      = newErr(ErrDependency, "Operation failed")
)
