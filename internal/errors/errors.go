package errors

import "fmt"

// ErrorCode represents a Loom error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"           // 404
	ErrProtectedPrompt ErrorCode = "PROTECTED_PROMPT"    // 403
	ErrProtectedPreset ErrorCode = "PROTECTED_PRESET"    // 403
	ErrNameUnchanged   ErrorCode = "NAME_UNCHANGED"      // 409
	ErrNameExists      ErrorCode = "NAME_ALREADY_EXISTS" // 409
	ErrMalformedImport ErrorCode = "MALFORMED_IMPORT"    // 422
	ErrInternal        ErrorCode = "INTERNAL"            // 500
)

// LoomError represents a structured error with code, status, and details.
type LoomError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *LoomError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *LoomError {
	return &LoomError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing fragment or preset.
func NewNotFound(identifier string) *LoomError {
	return &LoomError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewProtectedPrompt creates a 403 error for mutations of engine-reserved
// or marker fragments. The identifier lands in Details so the UI can name
// the fragment in its message.
func NewProtectedPrompt(identifier, action string) *LoomError {
	return &LoomError{
		Code:    ErrProtectedPrompt,
		Status:  403,
		Message: fmt.Sprintf("fragment %q is protected and cannot be %s", identifier, action),
		Details: map[string]any{"identifier": identifier, "action": action},
	}
}

// NewProtectedPreset creates a 403 error for save/rename/delete attempts
// against the reserved Default/gui pseudo-presets.
func NewProtectedPreset(name, action string) *LoomError {
	return &LoomError{
		Code:    ErrProtectedPreset,
		Status:  403,
		Message: fmt.Sprintf("preset %q is reserved and cannot be %s", name, action),
		Details: map[string]any{"name": name, "action": action},
	}
}

// NewNameUnchanged creates a 409 error for a rename to the current name.
func NewNameUnchanged(name string) *LoomError {
	return &LoomError{
		Code:    ErrNameUnchanged,
		Status:  409,
		Message: fmt.Sprintf("new name %q is the same as the current name", name),
		Details: map[string]any{"name": name},
	}
}

// NewNameExists creates a 409 error for preset name collisions.
func NewNameExists(name string) *LoomError {
	return &LoomError{
		Code:    ErrNameExists,
		Status:  409,
		Message: fmt.Sprintf("preset with name %q already exists", name),
		Details: map[string]any{"name": name},
	}
}

// NewMalformedImport creates a 422 error for import payloads failing the
// structural shape check. The store is guaranteed untouched when this is
// returned.
func NewMalformedImport(msg string) *LoomError {
	return &LoomError{
		Code:    ErrMalformedImport,
		Status:  422,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *LoomError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &LoomError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a LoomError with the given code.
func Is(err error, code ErrorCode) bool {
	if lErr, ok := err.(*LoomError); ok {
		return lErr.Code == code
	}
	return false
}
