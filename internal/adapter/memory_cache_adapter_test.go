package adapter

import (
	"context"
	"testing"
	"time"

	"quiz-quest/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheAdapter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryCacheAdapter()
	m.now = func() time.Time { return now }

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, m.Set(ctx, "forever", "v", 0))

	val, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	_, err = m.Get(ctx, "forever")
	assert.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "forever"))
	_, err = m.Get(ctx, "forever")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	assert.NoError(t, m.Ping(ctx))
}
