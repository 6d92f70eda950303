package metastore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrel-search/petrel/codec"
	"github.com/petrel-search/petrel/template"
)

// testManifest returns a populated manifest with the fixtures used across
// this package's tests.
func testManifest() *Manifest {
	manifest := NewManifest()
	manifest.Indexes["test-index-1"] = IndexStatusCreating
	manifest.Indexes["test-index-2"] = IndexStatusActive
	manifest.Indexes["test-index-3"] = IndexStatusDeleting
	manifest.Templates["test-template-1"] = template.Template{
		TemplateID:      "test-template-1",
		IndexIDPatterns: []string{"test-index-foo*"},
		Priority:        100,
	}
	manifest.Templates["test-template-2"] = template.Template{
		TemplateID:      "test-template-2",
		IndexIDPatterns: []string{"test-index-bar*"},
		Priority:        200,
	}

	return manifest
}

func TestManifest_MarshalEmpty(t *testing.T) {
	data, err := codec.JSON{}.Marshal(NewManifest())
	require.NoError(t, err)
	assert.Equal(t, `{"version":"0.7","indexes":{},"templates":[]}`, string(data))

	// The zero value has nil maps; the wire form must still hold an empty
	// object and an empty array, never null.
	data, err = codec.JSON{}.Marshal(&Manifest{})
	require.NoError(t, err)
	assert.Equal(t, `{"version":"0.7","indexes":{},"templates":[]}`, string(data))
}

func TestManifest_SerDe(t *testing.T) {
	manifest := testManifest()

	data, err := codec.MarshalIndent(codec.JSON{}, manifest, "", "  ")
	require.NoError(t, err)

	expected := `{
  "version": "0.7",
  "indexes": {
    "test-index-1": "creating",
    "test-index-2": "active",
    "test-index-3": "deleting"
  },
  "templates": [
    {
      "template_id": "test-template-1",
      "index_id_patterns": [
        "test-index-foo*"
      ],
      "priority": 100
    },
    {
      "template_id": "test-template-2",
      "index_id_patterns": [
        "test-index-bar*"
      ],
      "priority": 200
    }
  ]
}`
	assert.Equal(t, expected, string(data))

	// The wire bytes decode back to the same aggregate under both built-in
	// codecs.
	decoded, err := decodeManifest(codec.JSON{}, data)
	require.NoError(t, err)
	assert.Equal(t, manifest, decoded)

	decoded, err = decodeManifest(codec.GoJSON{}, data)
	require.NoError(t, err)
	assert.Equal(t, manifest, decoded)
}

func TestManifest_RoundTripDefaultCodec(t *testing.T) {
	manifest := testManifest()

	data, err := codec.Default.Marshal(manifest)
	require.NoError(t, err)

	decoded, err := decodeManifest(codec.Default, data)
	require.NoError(t, err)
	assert.Equal(t, manifest, decoded)
}

func TestManifest_TemplatesSortedByID(t *testing.T) {
	manifest := testManifest()

	data, err := codec.Default.Marshal(manifest)
	require.NoError(t, err)

	wire := string(data)
	assert.Less(t,
		strings.Index(wire, "test-template-1"),
		strings.Index(wire, "test-template-2"),
	)
}

func TestManifest_UnknownVersionTag(t *testing.T) {
	data := []byte(`{"version": "0.8", "indexes": {}, "templates": []}`)

	_, err := decodeManifest(codec.Default, data)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "manifest", decodeErr.TypeName)
	assert.ErrorContains(t, err, `unknown version tag "0.8"`)
}

func TestManifest_DuplicateTemplateIDs(t *testing.T) {
	data := []byte(`{
  "version": "0.7",
  "indexes": {},
  "templates": [
    {"template_id": "test-template", "index_id_patterns": ["a*"], "priority": 1},
    {"template_id": "test-template", "index_id_patterns": ["b*"], "priority": 2}
  ]
}`)

	_, err := decodeManifest(codec.Default, data)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.ErrorContains(t, err, `duplicate template ID "test-template"`)
}

func TestManifest_DecodeGarbage(t *testing.T) {
	for _, data := range []string{
		"",
		"not json",
		`"a bare string"`,
		`{"version": 7}`,
	} {
		_, err := decodeManifest(codec.Default, []byte(data))

		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr, data)
	}
}

func TestManifest_UnknownIndexStatusRejected(t *testing.T) {
	data := []byte(`{"version": "0.7", "indexes": {"test-index": "thriving"}, "templates": []}`)

	_, err := decodeManifest(codec.Default, data)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestManifest_Clone(t *testing.T) {
	manifest := testManifest()
	clone := manifest.Clone()
	require.Equal(t, manifest, clone)

	clone.Indexes["test-index-1"] = IndexStatusDeleting
	clone.Indexes["test-index-4"] = IndexStatusActive

	tpl := clone.Templates["test-template-1"]
	tpl.IndexIDPatterns[0] = "mutated*"
	tpl.Priority = 999
	clone.Templates["test-template-1"] = tpl

	assert.Equal(t, IndexStatusCreating, manifest.Indexes["test-index-1"])
	assert.NotContains(t, manifest.Indexes, "test-index-4")
	assert.Equal(t, []string{"test-index-foo*"}, manifest.Templates["test-template-1"].IndexIDPatterns)
	assert.Equal(t, 100, manifest.Templates["test-template-1"].Priority)
}

func TestLegacyManifest_Decode(t *testing.T) {
	data := []byte(`{
  "test-index-1": "Creating",
  "test-index-2": "Alive",
  "test-index-3": "Deleting"
}`)

	legacy, err := decodeLegacyManifest(data)
	require.NoError(t, err)

	assert.Equal(t, map[string]IndexStatus{
		"test-index-1": IndexStatusCreating,
		"test-index-2": IndexStatusActive,
		"test-index-3": IndexStatusDeleting,
	}, legacy.indexes)
}

func TestLegacyManifest_DecodeUnknownStatus(t *testing.T) {
	_, err := decodeLegacyManifest([]byte(`{"test-index": "Dormant"}`))
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "legacy manifest", decodeErr.TypeName)
}

func TestLegacyManifest_Upgrade(t *testing.T) {
	legacy, err := decodeLegacyManifest([]byte(`{
  "test-index-1": "Creating",
  "test-index-2": "Alive",
  "test-index-3": "Deleting"
}`))
	require.NoError(t, err)

	manifest := legacy.upgrade()
	assert.Len(t, manifest.Indexes, 3)
	assert.Equal(t, IndexStatusActive, manifest.Indexes["test-index-2"])
	assert.Empty(t, manifest.Templates)
	assert.NotNil(t, manifest.Templates)
}
