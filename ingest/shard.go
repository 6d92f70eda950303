package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/petrel-search/petrel/model"
)

// ShardState describes the lifecycle state of a shard.
type ShardState string

const (
	// ShardStateUnspecified is the zero value and never a valid persisted state.
	ShardStateUnspecified ShardState = "unspecified"
	// ShardStateOpen means the shard accepts write requests.
	ShardStateOpen ShardState = "open"
	// ShardStateUnavailable means the node hosting the shard is unreachable.
	ShardStateUnavailable ShardState = "unavailable"
	// ShardStateClosed means the shard no longer accepts writes. It can be
	// safely deleted once the publish position has reached end of log.
	ShardStateClosed ShardState = "closed"
)

// String returns the JSON wire value of the state.
func (s ShardState) String() string {
	return string(s)
}

// StrName returns the canonical screaming-case name of the state.
func (s ShardState) StrName() string {
	switch s {
	case ShardStateOpen:
		return "SHARD_STATE_OPEN"
	case ShardStateUnavailable:
		return "SHARD_STATE_UNAVAILABLE"
	case ShardStateClosed:
		return "SHARD_STATE_CLOSED"
	default:
		return "SHARD_STATE_UNSPECIFIED"
	}
}

// ParseShardState parses a canonical screaming-case name into a ShardState.
func ParseShardState(name string) (ShardState, bool) {
	switch name {
	case "SHARD_STATE_UNSPECIFIED":
		return ShardStateUnspecified, true
	case "SHARD_STATE_OPEN":
		return ShardStateOpen, true
	case "SHARD_STATE_UNAVAILABLE":
		return ShardStateUnavailable, true
	case "SHARD_STATE_CLOSED":
		return ShardStateClosed, true
	default:
		return ShardStateUnspecified, false
	}
}

// IsOpen reports whether the shard accepts writes.
func (s ShardState) IsOpen() bool {
	return s == ShardStateOpen
}

// IsClosed reports whether the shard has been closed to writes.
func (s ShardState) IsClosed() bool {
	return s == ShardStateClosed
}

// IsUnavailable reports whether the shard host is unreachable.
func (s ShardState) IsUnavailable() bool {
	return s == ShardStateUnavailable
}

// UnmarshalJSON rejects states that are not part of the schema.
func (s *ShardState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch state := ShardState(raw); state {
	case ShardStateUnspecified, ShardStateOpen, ShardStateUnavailable, ShardStateClosed:
		*s = state
		return nil
	default:
		return fmt.Errorf("unknown shard state %q", raw)
	}
}

// Shard is the unit of ingestion for a single source of an index. Identity
// fields are immutable for the lifetime of the shard; state and positions
// advance as records are written and published.
type Shard struct {
	IndexUID model.IndexUID `json:"index_uid"`
	SourceID model.SourceID `json:"source_id"`
	ShardID  model.ShardID  `json:"shard_id"`

	// LeaderID is the node that receives the write requests for this shard.
	LeaderID model.NodeID `json:"leader_id"`
	// FollowerID is the node holding a replica, if the shard is replicated.
	FollowerID model.NodeID `json:"follower_id,omitempty"`

	ShardState ShardState `json:"shard_state"`

	// PublishPositionInclusive is the position up to which indexers have
	// published the shard's records. The log can be safely truncated up to it.
	PublishPositionInclusive model.Position `json:"publish_position_inclusive,omitempty"`
	// PublishToken fences concurrent indexers: only the holder of the current
	// token may advance the publish position.
	PublishToken string `json:"publish_token,omitempty"`
}

// PublishPosition returns the publish position, defaulting to the beginning
// of the log when none has been recorded yet.
func (s *Shard) PublishPosition() model.Position {
	return s.PublishPositionInclusive
}

// IsOpen reports whether the shard accepts writes.
func (s *Shard) IsOpen() bool {
	return s.ShardState.IsOpen()
}

// IsClosed reports whether the shard has been closed to writes.
func (s *Shard) IsClosed() bool {
	return s.ShardState.IsClosed()
}

// IsUnavailable reports whether the shard host is unreachable.
func (s *Shard) IsUnavailable() bool {
	return s.ShardState.IsUnavailable()
}

// IsDeletable reports whether the shard holds no unpublished records and can
// be removed: it must be closed and published up to end of log.
func (s *Shard) IsDeletable() bool {
	return s.IsClosed() && s.PublishPosition().IsEof()
}

// ShardIDs groups the shard IDs of a single source of a single index.
type ShardIDs struct {
	IndexUID model.IndexUID  `json:"index_uid"`
	SourceID model.SourceID  `json:"source_id"`
	ShardIDs []model.ShardID `json:"shard_ids"`
}
