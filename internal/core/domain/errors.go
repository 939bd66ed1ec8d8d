package domain

import "errors"

var (
	ErrBackendUnavailable = errors.New("records client not available")
	ErrFetchFailed        = errors.New("fetch failed")
	ErrNotFound           = errors.New("product not found")
	ErrMissingIdentifier  = errors.New("record has no identifier")
)

// A BackendError carries the human-readable message of a failed backend
// call. It matches its Kind with [errors.Is].
type BackendError struct {
	Kind    error
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	return e.Message
}

func (e *BackendError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func FetchFailed(message string, cause error) *BackendError {
	if message == "" {
		message = ErrFetchFailed.Error()
	}
	return &BackendError{Kind: ErrFetchFailed, Message: message, Err: cause}
}

func BackendUnavailable() *BackendError {
	return &BackendError{
		Kind:    ErrBackendUnavailable,
		Message: ErrBackendUnavailable.Error(),
	}
}

func NotFound() *BackendError {
	return &BackendError{Kind: ErrNotFound, Message: "Product not found"}
}

// Message returns the human-readable message of err, unwrapping
// operation prefixes when err carries a [BackendError].
func Message(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
