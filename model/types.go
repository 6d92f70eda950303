package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// SourceID identifies an ingestion source within an index.
type SourceID string

// ShardID identifies an ingestion shard within a source.
type ShardID string

// NodeID identifies a node in the cluster.
type NodeID string

// IndexUID uniquely identifies an index across delete/recreate cycles of the
// same index ID. The wire form is "{index_id}:{incarnation_id}".
type IndexUID struct {
	IndexID       string
	IncarnationID string
}

// NewIndexUID creates an IndexUID for the given index ID with a fresh
// incarnation ID.
func NewIndexUID(indexID string) IndexUID {
	return IndexUID{
		IndexID:       indexID,
		IncarnationID: uuid.NewString(),
	}
}

// ParseIndexUID parses the "{index_id}:{incarnation_id}" wire form.
func ParseIndexUID(s string) (IndexUID, error) {
	if s == "" {
		return IndexUID{}, nil
	}
	indexID, incarnationID, ok := strings.Cut(s, ":")
	if !ok || indexID == "" || incarnationID == "" {
		return IndexUID{}, fmt.Errorf("invalid index UID %q: expected `index_id:incarnation_id`", s)
	}
	return IndexUID{IndexID: indexID, IncarnationID: incarnationID}, nil
}

// IsZero reports whether the UID is unset.
func (u IndexUID) IsZero() bool {
	return u.IndexID == "" && u.IncarnationID == ""
}

// String returns the wire form.
func (u IndexUID) String() string {
	if u.IsZero() {
		return ""
	}
	return u.IndexID + ":" + u.IncarnationID
}

// MarshalText implements encoding.TextMarshaler.
func (u IndexUID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *IndexUID) UnmarshalText(text []byte) error {
	parsed, err := ParseIndexUID(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// identifierPattern constrains identifiers: a letter first, then letters,
// digits, `-`, `_` or `.`, 3 to 255 characters total.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-_\.]{2,254}$`)

// ValidateIdentifier checks that the value is usable as an identifier.
// kind names the identifier in the error message ("index ID", "template ID").
func ValidateIdentifier(kind, value string) error {
	if !identifierPattern.MatchString(value) {
		return fmt.Errorf(
			"invalid %s %q: identifiers must match `%s`", kind, value, identifierPattern.String())
	}
	return nil
}

// ValidateIndexID checks that the identifier is usable as an index ID.
func ValidateIndexID(indexID string) error {
	return ValidateIdentifier("index ID", indexID)
}
