package elut

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    appendCounter  prometheus.Counter
//	    queryHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordAppend(photons, rejected int, duration time.Duration, err error) {
//	    p.appendCounter.Add(float64(photons - rejected))
//	}
type MetricsCollector interface {
	// RecordAppend is called after each append. photons is the size of the
	// batch, rejected the number of out-of-range photons that were dropped.
	RecordAppend(photons, rejected int, duration time.Duration, err error)

	// RecordQuery is called after each query with the number of buckets
	// read and photons returned.
	RecordQuery(buckets, photons int, duration time.Duration, err error)

	// RecordMaintenance is called after merge, verify, pack and unpack.
	RecordMaintenance(op string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAppend(int, int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordQuery(int, int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordMaintenance(string, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AppendCount       atomic.Int64
	AppendErrors      atomic.Int64
	AppendPhotons     atomic.Int64
	AppendRejected    atomic.Int64
	AppendTotalNanos  atomic.Int64
	QueryCount        atomic.Int64
	QueryErrors       atomic.Int64
	QueryBuckets      atomic.Int64
	QueryPhotons      atomic.Int64
	QueryTotalNanos   atomic.Int64
	MaintenanceCount  atomic.Int64
	MaintenanceErrors atomic.Int64
}

// RecordAppend implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAppend(photons, rejected int, duration time.Duration, err error) {
	b.AppendCount.Add(1)
	b.AppendTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AppendErrors.Add(1)
		return
	}
	b.AppendPhotons.Add(int64(photons))
	b.AppendRejected.Add(int64(rejected))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(buckets, photons int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryBuckets.Add(int64(buckets))
	b.QueryPhotons.Add(int64(photons))
}

// RecordMaintenance implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMaintenance(_ string, _ time.Duration, err error) {
	b.MaintenanceCount.Add(1)
	if err != nil {
		b.MaintenanceErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AppendCount:       b.AppendCount.Load(),
		AppendErrors:      b.AppendErrors.Load(),
		AppendPhotons:     b.AppendPhotons.Load(),
		AppendRejected:    b.AppendRejected.Load(),
		AppendAvgNanos:    avg(b.AppendTotalNanos.Load(), b.AppendCount.Load()),
		QueryCount:        b.QueryCount.Load(),
		QueryErrors:       b.QueryErrors.Load(),
		QueryBuckets:      b.QueryBuckets.Load(),
		QueryPhotons:      b.QueryPhotons.Load(),
		QueryAvgNanos:     avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		MaintenanceCount:  b.MaintenanceCount.Load(),
		MaintenanceErrors: b.MaintenanceErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AppendCount       int64
	AppendErrors      int64
	AppendPhotons     int64
	AppendRejected    int64
	AppendAvgNanos    int64
	QueryCount        int64
	QueryErrors       int64
	QueryBuckets      int64
	QueryPhotons      int64
	QueryAvgNanos     int64
	MaintenanceCount  int64
	MaintenanceErrors int64
}
