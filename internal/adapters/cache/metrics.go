package cache

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("kern.cache")

var (
	cacheHits      metric.Int64Counter
	cacheMisses    metric.Int64Counter
	cacheEvictions metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		cacheHits, err = meter.Int64Counter(
			"kern_cache_hits_total",
			metric.WithDescription("Total number of computation cache hits"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cacheMisses, err = meter.Int64Counter(
			"kern_cache_misses_total",
			metric.WithDescription("Total number of computation cache misses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cacheEvictions, err = meter.Int64Counter(
			"kern_cache_evictions_total",
			metric.WithDescription("Total number of entries dropped by the cache sweep"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func recordHit() {
	if err := initMetrics(); err != nil {
		return
	}
	cacheHits.Add(context.Background(), 1)
}

func recordMiss() {
	if err := initMetrics(); err != nil {
		return
	}
	cacheMisses.Add(context.Background(), 1)
}

func recordEvictions(n int) {
	if n == 0 {
		return
	}
	if err := initMetrics(); err != nil {
		return
	}
	cacheEvictions.Add(context.Background(), int64(n))
}
