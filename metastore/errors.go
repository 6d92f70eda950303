package metastore

import (
	"errors"
	"fmt"
)

// DecodeError indicates malformed or unrecognized-version wire bytes. It is
// fatal for the calling operation; no partial result is ever returned next
// to it.
//
// The underlying unmarshal error can be accessed via errors.Unwrap.
type DecodeError struct {
	TypeName string
	cause    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.TypeName, e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// ForbiddenError indicates the storage layer denied access.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// InternalError indicates a storage failure other than denied access. The
// message is a summary naming the attempted operation and location; the
// root cause is kept separate so structured consumers can distinguish the
// two, and can be accessed via errors.Unwrap.
type InternalError struct {
	Message string
	cause   error
}

func (e *InternalError) Error() string { return e.Message }

func (e *InternalError) Unwrap() error { return e.cause }

// NotFoundError indicates the named entity is not known to the metastore.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// AlreadyExistsError indicates the named entity already occupies its ID.
type AlreadyExistsError struct {
	Kind string
	ID   string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.ID)
}

// intoDecodeError normalizes err into a DecodeError, passing through errors
// that already are one.
func intoDecodeError(typeName string, err error) *DecodeError {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr
	}

	return &DecodeError{TypeName: typeName, cause: err}
}
