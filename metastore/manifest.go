package metastore

import (
	"cmp"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/petrel-search/petrel/codec"
	"github.com/petrel-search/petrel/template"
)

// ManifestVersion is the schema version tag written to every manifest file.
// Decoding dispatches on the tag found in the file; adding a future version
// means adding one payload struct and one decode arm, never touching the
// existing ones.
const ManifestVersion = "0.7"

// Manifest is the full persisted metadata aggregate of one store: every
// known index with its lifecycle status, and every index template. It is the
// unit of persistence; mutations happen in memory and are handed back to
// SaveManifest as a whole.
type Manifest struct {
	Indexes   map[string]IndexStatus
	Templates map[string]template.Template
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Indexes:   make(map[string]IndexStatus),
		Templates: make(map[string]template.Template),
	}
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	clone := NewManifest()
	maps.Copy(clone.Indexes, m.Indexes)

	for templateID, tpl := range m.Templates {
		tpl.IndexIDPatterns = slices.Clone(tpl.IndexIDPatterns)
		clone.Templates[templateID] = tpl
	}

	return clone
}

// manifestV0_7 is the version "0.7" wire payload. Indexes stay a mapping
// (object keys serialize sorted); templates are flattened into a slice
// sorted by template ID, so the output is deterministic and diff-friendly.
type manifestV0_7 struct {
	Version   string                 `json:"version"`
	Indexes   map[string]IndexStatus `json:"indexes"`
	Templates []template.Template    `json:"templates"`
}

// MarshalJSON encodes the manifest wrapped in the current-version envelope.
func (m Manifest) MarshalJSON() ([]byte, error) {
	indexes := m.Indexes
	if indexes == nil {
		indexes = map[string]IndexStatus{}
	}

	templates := slices.SortedFunc(maps.Values(m.Templates), func(left, right template.Template) int {
		return cmp.Compare(left.TemplateID, right.TemplateID)
	})
	if templates == nil {
		templates = []template.Template{}
	}

	return json.Marshal(manifestV0_7{
		Version:   ManifestVersion,
		Indexes:   indexes,
		Templates: templates,
	})
}

// UnmarshalJSON decodes any known envelope version into the aggregate. An
// unrecognized version tag fails with a DecodeError; there is no fallback.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Version string `json:"version"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return &DecodeError{TypeName: "manifest", cause: err}
	}

	switch envelope.Version {
	case ManifestVersion:
		var payload manifestV0_7
		if err := json.Unmarshal(data, &payload); err != nil {
			return &DecodeError{TypeName: "manifest", cause: err}
		}

		return m.fromV0_7(payload)
	default:
		return &DecodeError{
			TypeName: "manifest",
			cause:    fmt.Errorf("unknown version tag %q", envelope.Version),
		}
	}
}

// fromV0_7 rebuilds the aggregate from the version "0.7" payload. Templates
// are keyed by their embedded ID; a duplicate ID means the file was not
// produced by this codec and is rejected rather than silently collapsed.
func (m *Manifest) fromV0_7(payload manifestV0_7) error {
	indexes := payload.Indexes
	if indexes == nil {
		indexes = make(map[string]IndexStatus)
	}

	templates := make(map[string]template.Template, len(payload.Templates))
	for _, tpl := range payload.Templates {
		if _, found := templates[tpl.TemplateID]; found {
			return &DecodeError{
				TypeName: "manifest",
				cause:    fmt.Errorf("duplicate template ID %q", tpl.TemplateID),
			}
		}

		templates[tpl.TemplateID] = tpl
	}

	m.Indexes = indexes
	m.Templates = templates

	return nil
}

// decodeManifest unmarshals wire bytes through c, normalizing every failure
// into a DecodeError.
func decodeManifest(c codec.Codec, data []byte) (*Manifest, error) {
	manifest := NewManifest()
	if err := c.Unmarshal(data, manifest); err != nil {
		return nil, intoDecodeError("manifest", err)
	}

	return manifest, nil
}

// legacyManifest is the deprecated pre-versioning wire shape: a flat object
// mapping index IDs to statuses, with no envelope and no templates. It is
// decoded during migration and never encoded again.
type legacyManifest struct {
	indexes map[string]IndexStatus
}

func decodeLegacyManifest(data []byte) (legacyManifest, error) {
	var indexes map[string]IndexStatus
	if err := json.Unmarshal(data, &indexes); err != nil {
		return legacyManifest{}, &DecodeError{TypeName: "legacy manifest", cause: err}
	}

	return legacyManifest{indexes: indexes}, nil
}

// upgrade converts the legacy shape into the current aggregate: indexes are
// copied verbatim, templates start empty.
func (lm legacyManifest) upgrade() *Manifest {
	manifest := NewManifest()
	maps.Copy(manifest.Indexes, lm.indexes)

	return manifest
}
