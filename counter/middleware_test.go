package counter

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingStore(err error) Store {
	return storeFunc{
		incr: func(ctx context.Context, key, field string) (int64, error) {
			return 0, err
		},
		getOrInit: func(ctx context.Context, key, field string, def int64) (int64, error) {
			return 0, err
		},
	}
}

func TestInstrumentStoreMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewStoreMetrics("statcounter", registry)
	ctx := context.Background()

	store := Chain(NewMemCounter(), InstrumentStoreMiddleware("posts", metrics))
	_, err := store.Incr(ctx, "post1", "views")
	require.NoError(t, err)
	_, err = store.Incr(ctx, "post1", "views")
	require.NoError(t, err)
	_, err = store.GetOrInit(ctx, "post1", "likes", 0)
	require.NoError(t, err)

	assert.EqualValues(t, 2, testutil.ToFloat64(metrics.Ops.WithLabelValues("posts", "Incr")))
	assert.EqualValues(t, 1, testutil.ToFloat64(metrics.Ops.WithLabelValues("posts", "GetOrInit")))
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.Errors))

	failing := Chain(failingStore(newError(ErrUnavailable, opIncr, "k", errors.New("down"))),
		InstrumentStoreMiddleware("clicks", metrics))
	_, err = failing.Incr(ctx, "k", "clicks")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.EqualValues(t, 1, testutil.ToFloat64(metrics.Errors.WithLabelValues("clicks", "Incr", "unavailable")))
	assert.EqualValues(t, 1, testutil.ToFloat64(metrics.Ops.WithLabelValues("clicks", "Incr")))

	assert.Equal(t, 3, testutil.CollectAndCount(metrics.Latency))
	families, err := registry.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)
}

func TestNewStoreMetricsWithoutRegisterer(t *testing.T) {
	metrics := NewStoreMetrics("statcounter", nil)
	store := Chain(NewMemCounter(), InstrumentStoreMiddleware("posts", metrics))
	_, err := store.Incr(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.EqualValues(t, 1, testutil.ToFloat64(metrics.Ops.WithLabelValues("posts", "Incr")))
}

func TestLogStoreMiddleware(t *testing.T) {
	ctx := context.Background()
	store := Chain(NewMemCounter(), LogStoreMiddleware("posts"))
	n, err := store.Incr(ctx, "post1", "views")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = store.GetOrInit(ctx, "post1", "views", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	cause := newError(ErrCorrupt, opGetOrInit, "post1", errors.New("bad"))
	_, err = Chain(failingStore(cause), LogStoreMiddleware("posts")).GetOrInit(ctx, "post1", "likes", 0)
	assert.Equal(t, cause, err)
}
