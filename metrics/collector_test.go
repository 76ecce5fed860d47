package metrics_test

import (
	"testing"

	"github.com/on-the-ground/memo_ive_go/environment"
	"github.com/on-the-ground/memo_ive_go/metrics"
	"github.com/on-the-ground/memo_ive_go/stores"
	"github.com/on-the-ground/memo_ive_go/value"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, c prometheus.Collector) map[string]*dto.Metric {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.Metric, len(families))
	for _, f := range families {
		require.Len(t, f.GetMetric(), 1, f.GetName())
		out[f.GetName()] = f.GetMetric()[0]
	}
	return out
}

func workload(env *environment.Environment) {
	double := environment.NewComputation("double", func(env *environment.Environment) (value.Value, error) {
		return environment.MustReadAs[int](env, "x") * 2, nil
	})
	env.Write("x", 1)
	_, _ = env.Resolve(double)
	_, _ = env.Resolve(double)
	env.Write("x", 1)
	env.Write("x", 2)
	_, _ = env.Resolve(double)
}

func TestCollector_ExportsStats(t *testing.T) {
	env := environment.New(environment.WithID("e1"))
	workload(env)

	got := gather(t, metrics.NewCollector(env, "memo"))

	counters := map[string]float64{
		"memo_environment_resolves_total":       3,
		"memo_environment_cache_hits_total":     1,
		"memo_environment_recomputes_total":     2,
		"memo_environment_invalidations_total":  1,
		"memo_environment_writes_total":         4,
		"memo_environment_skipped_writes_total": 1,
	}
	for name, want := range counters {
		m, ok := got[name]
		require.True(t, ok, name)
		assert.Equal(t, want, m.GetCounter().GetValue(), name)
	}

	cached, ok := got["memo_environment_cached_entries"]
	require.True(t, ok)
	assert.Equal(t, 1.0, cached.GetGauge().GetValue(), "only computation results live in the store")

	label := got["memo_environment_resolves_total"].GetLabel()
	require.Len(t, label, 1)
	assert.Equal(t, "env", label[0].GetName())
	assert.Equal(t, "e1", label[0].GetValue())
}

func TestCollector_SkipsSizeForStoresThatCannotCount(t *testing.T) {
	cache, err := stores.NewRistretto(16)
	require.NoError(t, err)
	defer cache.Close()
	env := environment.New(environment.WithStore(cache))
	workload(env)

	got := gather(t, metrics.NewCollector(env, "memo"))
	assert.NotContains(t, got, "memo_environment_cached_entries")
	assert.Contains(t, got, "memo_environment_recomputes_total")
}
