package metric

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	// None of these may panic when instrumentation is disabled.
	m.RowConsumed()
	m.RowSkipped()
	m.NodeWritten()
	m.DocumentsWritten(3)
	m.FileFailed()
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RowConsumed()
	m.RowConsumed()
	m.RowSkipped()
	m.DocumentsWritten(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "cpdbld_rows_total 2"), body)
	assert.True(t, strings.Contains(body, "cpdbld_rows_skipped_total 1"), body)
	assert.True(t, strings.Contains(body, "cpdbld_documents_written_total 2"), body)
}
