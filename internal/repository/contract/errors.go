package contract

import "errors"

var (
	// ErrBackendUnreachable covers network failures and a missing ideas collection.
	ErrBackendUnreachable = errors.New("storage backend unreachable")
	ErrAuthRequired       = errors.New("authentication required")
	// ErrConflict is returned when the backend rejects a write on a constraint.
	ErrConflict = errors.New("idea conflicts with an existing record")
	// ErrParseFailure means the local store held malformed data.
	ErrParseFailure = errors.New("stored ideas could not be parsed")
	ErrNotFound     = errors.New("idea not found")
)

// StorageError carries the structured context logged for every failed
// storage call: operation, backend, the backend's own error code and the
// taxonomy kind matched by errors.Is.
type StorageError struct {
	Op      string
	Backend Backend
	Code    string
	Kind    error
	Err     error
}

func (e *StorageError) Error() string {
	if e.Code != "" {
		return e.Op + " (" + string(e.Backend) + ", code " + e.Code + "): " + e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Op + " (" + string(e.Backend) + "): " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
