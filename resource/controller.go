package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits for archive transfers.
type Config struct {
	// MemoryLimitBytes bounds the bucket bytes staged in memory at once.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxWorkers is the maximum number of concurrent bucket transfers.
	// If 0, defaults to 1.
	MaxWorkers int64

	// IOLimitBytesPerSec is the maximum transfer throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller hands out memory, worker slots and IO budget.
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	workers *semaphore.Weighted

	ioLimiter *rate.Limiter
	ioBurst   int
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioBurst = int(min(cfg.IOLimitBytesPerSec, int64(1<<30)))
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), c.ioBurst)
	}

	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// reservation returns the semaphore weight for a request of n bytes.
// Requests above the limit take the whole budget instead of blocking forever.
func (c *Controller) reservation(n int64) int64 {
	return min(n, c.cfg.MemoryLimitBytes)
}

// AcquireMemory reserves memory. If a hard limit is configured and usage
// would exceed it, this blocks until memory is available or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, c.reservation(bytes)); err != nil {
			return err
		}
	}
	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory reserves memory without blocking.
// Returns true if acquired, false if limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}
	if c.memSem != nil && !c.memSem.TryAcquire(c.reservation(bytes)) {
		return false
	}
	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases memory reserved with the same byte count.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(c.reservation(bytes))
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireWorker reserves a worker slot. Blocks if all slots are busy.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return ctx.Err()
	}
	return c.workers.Acquire(ctx, 1)
}

// TryAcquireWorker reserves a worker slot without blocking.
func (c *Controller) TryAcquireWorker() bool {
	if c == nil {
		return true
	}
	return c.workers.TryAcquire(1)
}

// ReleaseWorker releases a worker slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workers.Release(1)
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than the burst are split.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	for bytes > 0 {
		n := min(bytes, c.ioBurst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
