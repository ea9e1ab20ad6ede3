package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productprep/internal/models"
)

func TestObserve(t *testing.T) {
	m := New()
	price := 499.0

	m.Observe(&models.NormalizedRecord{
		TitleTokens:   []string{"red", "shirt"},
		DescTokens:    []string{},
		DetailsTokens: []string{"fit", "slim", "fabric"},
		SellingPrice:  &price,
	})
	m.Observe(&models.NormalizedRecord{
		TitleTokens:   []string{"shoe"},
		DescTokens:    []string{},
		DetailsTokens: []string{},
	})

	assert.InDelta(t, 2, testutil.ToFloat64(m.RecordsProcessed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AbsentValues.WithLabelValues(models.ColSellingPrice)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.AbsentValues.WithLabelValues(models.ColAverageRating)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.TokensEmitted.WithLabelValues(models.ColTitleTokens)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.TokensEmitted.WithLabelValues(models.ColDetailsTokens)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.TokensEmitted.WithLabelValues(models.ColDescTokens)), 0)
}

func TestNew_PrivateRegistry(t *testing.T) {
	a := New()
	b := New()

	a.RecordsProcessed.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(a.RecordsProcessed), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.RecordsProcessed), 0)
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.SourceErrors.Inc()
	m.ObserveRun(time.Now().Add(-time.Second))

	path := filepath.Join(t.TempDir(), "productprep.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "productprep_source_errors_total 1")
	assert.Contains(t, string(data), "productprep_run_duration_seconds_count 1")
}
