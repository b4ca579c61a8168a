package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.MigrationRun("migrated")
	m.MigrationRun("migrated")
	m.SpecimensCreated(3)
	m.SpecimensCreated(0)
	m.RecordsLinked("molt", 5)
	m.UnresolvedRecords(1)
	m.SpecimenCopied("health", 2)
	m.HTTPRequest("GET", "/specimens", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.migrationRuns.WithLabelValues("migrated")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.specimensCreated))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.recordsLinked.WithLabelValues("molt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unresolved))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.copies.WithLabelValues("health")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/specimens", "200")))
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.MigrationRun("failed")
	m.SpecimensCreated(1)
	m.RecordsLinked("molt", 1)
	m.UnresolvedRecords(1)
	m.SpecimenCopied("molt", 1)
	m.HTTPRequest("GET", "/", 200)
	assert.Nil(t, m.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.MigrationRun("noop")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), `tarantula_migration_runs_total{outcome="noop"} 1`))
}
