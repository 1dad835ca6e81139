package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed")
	ErrFileNotFound         = errors.New("file not found")
	ErrFileEmpty            = errors.New("file is empty")
	ErrFileUnreadable       = errors.New("file is unreadable")
	ErrUploadTimeout        = errors.New("upload timed out")
	ErrNetwork              = errors.New("network error")
	ErrSuperseded           = errors.New("superseded by a newer selection")
	ErrInvalidProject       = errors.New("invalid project")
)

// AuthError is returned by sign-in and sign-up. Kind is ErrAuthenticationFailed
// or ErrRegistrationFailed and tells which step failed.
type AuthError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

func (e *AuthError) Is(target error) bool {
	return target == e.Kind
}

// FileAccessError reports a failed precondition on a local file.
// Kind is one of ErrFileNotFound, ErrFileEmpty, ErrFileUnreadable.
type FileAccessError struct {
	Kind  error
	Path  string
	Cause error
}

func (e *FileAccessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *FileAccessError) Unwrap() error {
	return e.Cause
}

func (e *FileAccessError) Is(target error) bool {
	return target == e.Kind
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Body is the decoded JSON error body, nil when the body was not a JSON object.
	Body map[string]any
	Raw  string
}

func (e *StatusError) Error() string {
	if msg := e.ServerMessage(); msg != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

// ServerMessage returns the "message" or "error" field of the body, if any.
func (e *StatusError) ServerMessage() string {
	for _, key := range []string{"message", "error"} {
		if v, ok := e.Body[key].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// UploadRejectedError is a StatusError returned for an upload request.
type UploadRejectedError struct {
	*StatusError
}

func (e *UploadRejectedError) Error() string {
	return "upload rejected: " + e.StatusError.Error()
}

func (e *UploadRejectedError) Unwrap() error {
	return e.StatusError
}

// NetworkError means the request never got an answer from the server.
type NetworkError struct {
	Op      string
	Timeout bool
	Cause   error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrNetwork, e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// ServerMessage extracts the server provided message from err, if there is one.
func ServerMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.ServerMessage()
	}
	return ""
}

// IsUnauthorized reports whether err carries a 401 answer.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == 401
}

// UserMessage renders err as a message suitable for the end user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var authErr *AuthError
	var rejected *UploadRejectedError
	switch {
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.Is(err, ErrFileNotFound):
		return "The selected file could not be found. Please try selecting the file again."
	case errors.Is(err, ErrFileEmpty):
		return "The selected file is empty. Please select a different file."
	case errors.Is(err, ErrFileUnreadable):
		return "Could not read the selected file. Please try another file."
	case errors.Is(err, ErrUploadTimeout):
		return "Upload request timed out. Please try again."
	case errors.As(err, &rejected):
		if msg := rejected.ServerMessage(); msg != "" {
			return "Failed to upload document. " + msg
		}
		return fmt.Sprintf("Failed to upload to server (HTTP %d). Please try again.", rejected.StatusCode)
	case errors.Is(err, ErrNetwork):
		return "Could not reach the server. Please check your connection and try again."
	case errors.Is(err, ErrInvalidProject):
		return "Please fill in the project name, details, and category."
	}

	if msg := ServerMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}
