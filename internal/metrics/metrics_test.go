package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := New()

	c.FileScanned(2)
	c.FileScanned(0)
	c.ScanFailed()
	c.ArtifactWritten("registration")
	c.ArtifactWritten("registration")
	c.ArtifactDeleted("legacy")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.filesScanned))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.pagesMatched))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.scanErrors))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.artifactsWritten.WithLabelValues("registration")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.artifactsDeleted.WithLabelValues("legacy")))
}

func TestCollector_RunFinished(t *testing.T) {
	c := New()
	c.RunFinished(10*time.Millisecond, nil)
	c.RunFinished(20*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.runDuration))
}

func TestCollector_SeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.ScanFailed()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.scanErrors))
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.FileScanned(3)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "arkroute_pages_matched_total 3")
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := New()
	c.ArtifactWritten("route_table")
	path := filepath.Join(t.TempDir(), "arkroute.prom")

	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `arkroute_artifacts_written_total{kind="route_table"} 1`))
}

func TestCollector_WriteTextfileBadDir(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
