package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/church-livestream/cls/internal/metrics"
)

type fakeStats struct{ hits, misses int64 }

func (f fakeStats) Hits() int64   { return f.hits }
func (f fakeStats) Misses() int64 { return f.misses }

func TestRegisterCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.RegisterCache(reg, "memory", fakeStats{hits: 3, misses: 1})

	expected := `
# HELP cls_cache_hits_total Cache hits.
# TYPE cls_cache_hits_total counter
cls_cache_hits_total{backend="memory"} 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "cls_cache_hits_total"); err != nil {
		t.Fatalf("GatherAndCompare: %v", err)
	}
}

func TestStatusCounters(t *testing.T) {
	before := testutil.ToFloat64(metrics.StatusRequestsTotal.WithLabelValues("cache_hit"))
	metrics.StatusRequestsTotal.WithLabelValues("cache_hit").Inc()
	if got := testutil.ToFloat64(metrics.StatusRequestsTotal.WithLabelValues("cache_hit")); got != before+1 {
		t.Fatalf("cache_hit: want %v, got %v", before+1, got)
	}
}
