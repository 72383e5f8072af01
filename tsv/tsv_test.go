package tsv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/cpdbld/mapping"
)

func headerMapping() *mapping.ColumnMapping {
	return &mapping.ColumnMapping{
		Columns: map[string]string{
			"uniprot_entries": "uniprot_entry",
			"uniprot_ids":     "uniprot_id",
			"pubmed_ids":      "reference",
		},
		IdentifierProperty: "uniprot_entry",
	}
}

func TestReader_ParseHeader(t *testing.T) {
	input := "# ConsensusPathDB complexes\n#  uniprot_entries\tuniprot_ids\tunmapped\tpubmed_ids\n"
	r := NewReader(strings.NewReader(input), Options{
		HeaderRowNumber: 2,
		HeaderPrefix:    "#  ",
		FieldDelimiter:  "\t",
	})

	table, err := r.ParseHeader(headerMapping())
	require.NoError(t, err)

	assert.Equal(t, 4, table.Len())
	assert.Equal(t, "uniprot_entry", table.Property(0))
	assert.Equal(t, "uniprot_id", table.Property(1))
	assert.Equal(t, "", table.Property(2), "unmapped columns carry no property")
	assert.Equal(t, "reference", table.Property(3))
	assert.Equal(t, "", table.Property(10), "out of range is unmapped")
}

func TestReader_ParseHeader_MissingRow(t *testing.T) {
	r := NewReader(strings.NewReader("only one line\n"), Options{
		HeaderRowNumber: 3,
		FieldDelimiter:  "\t",
	})

	_, err := r.ParseHeader(headerMapping())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHeaderParse)
}

func TestReader_ParseHeader_NoUsableColumns(t *testing.T) {
	r := NewReader(strings.NewReader("foo\tbar\tbaz\n"), Options{
		HeaderRowNumber: 1,
		FieldDelimiter:  "\t",
	})

	_, err := r.ParseHeader(headerMapping())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHeaderParse)
}

func TestReader_Next(t *testing.T) {
	input := "preamble\n#  uniprot_entries\tuniprot_ids\tpubmed_ids\n" +
		"A_HUMAN\tP1\t100\n" +
		"\n" +
		"B_HUMAN\tP2\t200\n"
	r := NewReader(strings.NewReader(input), Options{
		HeaderRowNumber: 2,
		HeaderPrefix:    "#  ",
		FieldDelimiter:  "\t",
	})

	_, err := r.ParseHeader(headerMapping())
	require.NoError(t, err)

	row, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"A_HUMAN", "P1", "100"}, row.Cells)
	assert.Equal(t, 3, row.Line)

	// Blank line is skipped.
	row, ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"B_HUMAN", "P2", "200"}, row.Cells)
	assert.Equal(t, 5, row.Line)

	_, ok, err = r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountLines(t *testing.T) {
	n, err := CountLines(strings.NewReader("a\nb\nc\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = CountLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
