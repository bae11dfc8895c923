package counter

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemCounterOverflow(t *testing.T) {
	counter := NewMemCounter()
	ctx := context.Background()

	_, err := counter.GetOrInit(ctx, "post1", "views", math.MaxInt64)
	require.NoError(t, err)
	_, err = counter.Incr(ctx, "post1", "views")
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, Fields{"views": math.MaxInt64}, counter.Get("post1"))

	n, err := counter.Incr(ctx, "post1", "likes")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMemCounterGet(t *testing.T) {
	counter := NewMemCounter()
	assert.Nil(t, counter.Get("post1"))

	_, err := counter.Incr(context.Background(), "post1", "views")
	require.NoError(t, err)
	fields := counter.Get("post1")
	fields["views"] = 100
	assert.Equal(t, Fields{"views": 1}, counter.Get("post1"))
}
