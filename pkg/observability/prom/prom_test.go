package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/brushlink/pkg/observability"
)

func TestMetricsRecordHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	ctx := context.Background()

	m.OnCommit("scatter", 12)
	m.OnCommit("scatter", 3)
	m.OnCommit("", 0)
	m.OnPreview("parallel", 5)
	m.OnLoadComplete(ctx, "bikes.csv", 8760, time.Second, nil)
	m.OnLoadComplete(ctx, "bikes.csv", 0, time.Second, errors.New("boom"))
	m.OnRenderComplete(ctx, "scatter", []string{"svg"}, time.Millisecond, nil)
	m.OnCacheHit(ctx, "artifact")
	m.OnCacheSet(ctx, "artifact", 100)
	m.OnResponse(ctx, "get", "/healthz", 200, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commits.WithLabelValues("scatter")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.selectionSize.WithLabelValues("scatter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commits.WithLabelValues("host")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.previews.WithLabelValues("parallel")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("error")))
	assert.Equal(t, 8760.0, testutil.ToFloat64(m.loadedRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("scatter", "ok")))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.cacheBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/healthz", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRegister(t *testing.T) {
	defer observability.Reset()
	m := New(prometheus.NewRegistry())
	m.Register()
	assert.Same(t, m, observability.Selection())
	assert.Same(t, m, observability.Pipeline())
}
