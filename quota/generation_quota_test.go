package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitAndReserve_DailyLimit(t *testing.T) {
	l := NewGenerationQuotaLimiter(0, 2)

	for i := 0; i < 2; i++ {
		ok, err := l.WaitAndReserve(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.WaitAndReserve(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, l.Remaining())
}

func TestWaitAndReserve_ResetsOnNewDay(t *testing.T) {
	day := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	l := NewGenerationQuotaLimiter(0, 1)
	l.now = func() time.Time { return day }

	ok, _ := l.WaitAndReserve(context.Background())
	assert.True(t, ok)
	ok, _ = l.WaitAndReserve(context.Background())
	assert.False(t, ok)

	day = day.Add(2 * time.Hour)
	ok, _ = l.WaitAndReserve(context.Background())
	assert.True(t, ok)
}

func TestWaitAndReserve_Unlimited(t *testing.T) {
	l := NewGenerationQuotaLimiter(0, 0)
	for i := 0; i < 50; i++ {
		ok, err := l.WaitAndReserve(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, -1, l.Remaining())
}

func TestWaitAndReserve_CancelledWhilePacing(t *testing.T) {
	l := NewGenerationQuotaLimiter(1, 10)

	ok, err := l.WaitAndReserve(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ok, err = l.WaitAndReserve(ctx)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.Equal(t, 9, l.Remaining(), "cancelled reservation is returned")
}
