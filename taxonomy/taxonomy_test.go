package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve_ExplicitName(t *testing.T) {
	r := NewResolver(nil)

	name, id, err := r.Resolve("human", "")
	require.NoError(t, err)
	assert.Equal(t, "human", name)
	assert.Equal(t, "9606", id)
}

func TestResolver_Resolve_ExplicitNameUnknown(t *testing.T) {
	r := NewResolver(nil)

	_, _, err := r.Resolve("ferret", "ConsensusPathDB_ferret_complexes.tsv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTaxonomy)
}

func TestResolver_Resolve_FromFilename(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		filename string
		organism string
		id       string
	}{
		{"data/ConsensusPathDB_human_complexes.tsv", "human", "9606"},
		{"ConsensusPathDB_mouse_complexes.tsv", "mouse", "10090"},
		{"/tmp/downloads/yeast_interactions.tsv", "yeast", "4932"},
	}

	for _, tt := range tests {
		name, id, err := r.Resolve("", tt.filename)
		require.NoError(t, err, tt.filename)
		assert.Equal(t, tt.organism, name)
		assert.Equal(t, tt.id, id)
	}
}

func TestResolver_Resolve_FilenameUnmatched(t *testing.T) {
	r := NewResolver(nil)

	_, _, err := r.Resolve("", "complexes.tsv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTaxonomy)
}

func TestNewResolverFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rat: \"10116\"\nhuman: \"9606\"\n"), 0644))

	r, err := NewResolverFromFile(path)
	require.NoError(t, err)

	name, id, err := r.Resolve("", "ConsensusPathDB_rat_complexes.tsv")
	require.NoError(t, err)
	assert.Equal(t, "rat", name)
	assert.Equal(t, "10116", id)

	// The built-in mouse entry is not present in the override table.
	_, _, err = r.Resolve("mouse", "")
	assert.ErrorIs(t, err, ErrUnknownTaxonomy)
}

func TestNewResolverFromFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	_, err := NewResolverFromFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTaxonomy)
}
