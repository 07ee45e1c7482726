package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(context.Background(), 50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(context.Background(), 40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(ctx, 20), context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(context.Background(), 20))
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_OversizedMemoryRequest(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	// A single bucket larger than the budget takes the whole budget.
	require.NoError(t, c.AcquireMemory(context.Background(), 1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())
	assert.False(t, c.TryAcquireMemory(1))

	c.ReleaseMemory(1000)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(100))
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	require.NoError(t, c.AcquireMemory(context.Background(), 1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	require.NoError(t, c.AcquireWorker(context.Background()))
	require.NoError(t, c.AcquireWorker(context.Background()))
	assert.False(t, c.TryAcquireWorker())

	c.ReleaseWorker()
	assert.True(t, c.TryAcquireWorker())
	assert.Equal(t, int64(2), c.Config().MaxWorkers)
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.AcquireMemory(context.Background(), 10))
	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.NoError(t, c.AcquireWorker(context.Background()))
	assert.True(t, c.TryAcquireWorker())
	c.ReleaseWorker()
	assert.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestController_IOSplitsLargeRequests(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// Larger than the burst, but the first burst is available immediately
	// and the rest takes about one second; cancel before that.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.AcquireIO(ctx, 2<<20)
	assert.Error(t, err)

	assert.NoError(t, NewController(Config{}).AcquireIO(context.Background(), 1<<30))
}

func TestRateLimitedIO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)
	_, err := io.Copy(w, strings.NewReader("photon bucket"))
	require.NoError(t, err)
	assert.Equal(t, "photon bucket", buf.String())

	r := NewRateLimitedReader(ctx, strings.NewReader("photon bucket"), c)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "photon bucket", string(data))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewRateLimitedWriter(canceled, &buf, c).Write([]byte("x"))
	assert.Error(t, err)
}
