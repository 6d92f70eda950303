package metastore

import (
	"encoding/json"
	"fmt"
)

// IndexStatus is the lifecycle state of an index. The lifecycle is linear:
// Creating, then Active, then Deleting. The metastore persists the state but
// does not enforce transitions; callers do.
type IndexStatus string

const (
	// IndexStatusCreating marks an index whose creation is staged but whose
	// metadata file is not confirmed on storage yet.
	IndexStatusCreating IndexStatus = "creating"
	// IndexStatusActive marks a fully created, visible index.
	IndexStatusActive IndexStatus = "active"
	// IndexStatusDeleting marks an index whose deletion has started.
	IndexStatusDeleting IndexStatus = "deleting"
)

// String returns the canonical wire spelling of the status.
func (s IndexStatus) String() string {
	return string(s)
}

// UnmarshalJSON decodes a status string. Historical Pascal-case spellings
// and the "Alive" alias for Active are accepted on input only; output always
// uses the canonical lower-case spellings.
func (s *IndexStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw {
	case "creating", "Creating":
		*s = IndexStatusCreating
	case "active", "Active", "Alive":
		*s = IndexStatusActive
	case "deleting", "Deleting":
		*s = IndexStatusDeleting
	default:
		return fmt.Errorf("unknown index status %q", raw)
	}

	return nil
}
