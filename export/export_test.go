package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/cpdbld/graph"
)

func writeContextFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "context.jsonld")
	doc := `{"@context": {"cpdb": "http://cpdb.example.org/", "pmid": "http://identifiers.org/pubmed/"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func testContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := LoadContext(writeContextFile(t), "http://example.com/context.jsonld")
	require.NoError(t, err)
	return ctx
}

func testNode(id string) *graph.Node {
	return &graph.Node{
		ID:       "cpdb:" + id,
		Type:     "m2r:MacromolecularComplex",
		Taxonomy: "taxid:9606",
		Properties: map[string]any{
			"label": id,
		},
		Participants: []graph.Participant{
			graph.NewReferenceParticipant("uniprot_id", "P1"),
		},
		References: []string{"pmid:100"},
	}
}

func TestLoadContext(t *testing.T) {
	ctx := testContext(t)

	assert.Equal(t, "http://example.com/context.jsonld", ctx.URI)
	assert.Equal(t, "http://cpdb.example.org/", ctx.Body["cpdb"])
}

func TestLoadContext_MissingMember(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.jsonld")
	require.NoError(t, os.WriteFile(path, []byte(`{"foo": 1}`), 0644))

	_, err := LoadContext(path, "http://example.com/context.jsonld")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingContext)
}

func TestLineWriter_WritesContextReference(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewLineWriter(path, ctx)
	require.NoError(t, err)
	require.NoError(t, w.WriteNode(testNode("A")))
	require.NoError(t, w.WriteNode(testNode("B")))
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "http://example.com/context.jsonld", record["@context"])
	assert.Equal(t, "cpdb:A", record["@id"])
	assert.Equal(t, []any{"uniprot_id:P1"}, record["participant"])
}

func TestLineWriter_Deterministic(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	write := func(path string) []byte {
		w, err := NewLineWriter(path, ctx)
		require.NoError(t, err)
		require.NoError(t, w.WriteNode(testNode("A")))
		require.NoError(t, w.WriteNode(testNode("B")))
		require.NoError(t, w.Close())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}

	first := write(filepath.Join(dir, "one.jsonl"))
	second := write(filepath.Join(dir, "two.jsonl"))
	assert.Equal(t, first, second, "repeated runs must be byte-identical")
}

// writeJSONL produces a JSON-Lines fixture via the real writer so the
// packager consumes exactly what the pipeline emits.
func writeJSONL(t *testing.T, ctx *Context, dir string, ids []string, pad int) string {
	t.Helper()
	path := filepath.Join(dir, "nodes.jsonl")
	w, err := NewLineWriter(path, ctx)
	require.NoError(t, err)
	for _, id := range ids {
		node := testNode(id)
		if pad > 0 {
			node.Properties["pad"] = strings.Repeat("x", pad)
		}
		require.NoError(t, w.WriteNode(node))
	}
	require.NoError(t, w.Close())
	return path
}

func packedIDs(t *testing.T, paths []string) []string {
	t.Helper()
	var ids []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var doc struct {
			Context map[string]any   `json:"@context"`
			Graph   []map[string]any `json:"@graph"`
		}
		require.NoError(t, json.Unmarshal(data, &doc))
		require.NotEmpty(t, doc.Context, "packaged documents inline the context")

		for _, record := range doc.Graph {
			_, hasCtx := record["@context"]
			assert.False(t, hasCtx, "per-record context reference must be stripped")
			ids = append(ids, record["@id"].(string))
		}
	}
	return ids
}

func TestPackager_SingleDocument(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	jsonlPath := writeJSONL(t, ctx, dir, []string{"A", "B", "C"}, 0)

	p, err := NewPackager(ctx, 1024*1024, nil)
	require.NoError(t, err)

	paths, err := p.Pack(jsonlPath)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	assert.Equal(t, filepath.Join(dir, "nodes_jsonld", "nodes_001.jsonld"), paths[0])
	assert.ElementsMatch(t, []string{"cpdb:A", "cpdb:B", "cpdb:C"}, packedIDs(t, paths))
}

func TestPackager_SplitsAtSizeBudget(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("N%02d", i)
	}
	jsonlPath := writeJSONL(t, ctx, dir, ids, 200)

	// Each padded record is well over 200 bytes; budget a few records
	// per document.
	maxSize := 1200
	p, err := NewPackager(ctx, maxSize, nil)
	require.NoError(t, err)

	paths, err := p.Pack(jsonlPath)
	require.NoError(t, err)
	require.Greater(t, len(paths), 1, "budget must force a split")

	for i, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.LessOrEqual(t, info.Size(), int64(maxSize), path)

		want := filepath.Join(dir, "nodes_jsonld", fmt.Sprintf("nodes_%03d.jsonld", i+1))
		assert.Equal(t, want, path, "sequence numbers follow emission order")
	}

	got := packedIDs(t, paths)
	want := make([]string, len(ids))
	for i, id := range ids {
		want[i] = "cpdb:" + id
	}
	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got, "no node dropped or duplicated")
}

func TestPackager_OversizedRecord(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	jsonlPath := writeJSONL(t, ctx, dir, []string{"A"}, 4096)

	p, err := NewPackager(ctx, 512, nil)
	require.NoError(t, err)

	_, err = p.Pack(jsonlPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOversizedRecord)
}

func TestPackager_EmptyInput(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "nodes.jsonl")
	require.NoError(t, os.WriteFile(jsonlPath, nil, 0644))

	p, err := NewPackager(ctx, 1024, nil)
	require.NoError(t, err)

	paths, err := p.Pack(jsonlPath)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
