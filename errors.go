package petrel

import (
	"github.com/petrel-search/petrel/blobstore"
	"github.com/petrel-search/petrel/metastore"
)

// Error types re-exported from metastore. Match them with errors.As.
type (
	// DecodeError indicates malformed or unrecognized-version wire bytes.
	DecodeError = metastore.DecodeError

	// ForbiddenError indicates the storage layer denied access.
	ForbiddenError = metastore.ForbiddenError

	// InternalError indicates a storage failure other than denied access.
	InternalError = metastore.InternalError

	// NotFoundError indicates the named entity is not known to the metastore.
	NotFoundError = metastore.NotFoundError

	// AlreadyExistsError indicates the named entity already occupies its ID.
	AlreadyExistsError = metastore.AlreadyExistsError
)

// Storage sentinel errors re-exported from blobstore. Match them with
// errors.Is.
var (
	// ErrNotFound is returned when a blob does not exist.
	ErrNotFound = blobstore.ErrNotFound

	// ErrUnauthorized is returned when the backing storage denies access.
	ErrUnauthorized = blobstore.ErrUnauthorized
)
