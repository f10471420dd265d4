package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/docstore"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
)

// BusinessMetricsCollector refreshes the product and employee gauges periodically
type BusinessMetricsCollector struct {
	store    docstore.Store
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
}

// NewBusinessMetricsCollector creates a new collector
func NewBusinessMetricsCollector(store docstore.Store, metrics *Metrics, interval time.Duration, logger *zap.Logger) *BusinessMetricsCollector {
	return &BusinessMetricsCollector{
		store:    store,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *BusinessMetricsCollector) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *BusinessMetricsCollector) Stop() {
	close(c.done)
}

func (c *BusinessMetricsCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if n, err := c.count(ctx, domain.CollectionProducts); err != nil {
		c.logger.Error("Failed to count products", zap.Error(err))
	} else {
		c.metrics.SetProductsTotal(n)
	}

	if n, err := c.count(ctx, domain.CollectionEmployees); err != nil {
		c.logger.Error("Failed to count employees", zap.Error(err))
	} else {
		c.metrics.SetEmployeesTotal(n)
	}
}

func (c *BusinessMetricsCollector) count(ctx context.Context, collection string) (int64, error) {
	docs, err := c.store.Collection(collection).Documents(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}
