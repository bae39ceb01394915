package worker

import (
	"context"
	"time"

	"dukapos/internal/repository"
	"dukapos/internal/service"

	"github.com/rs/zerolog"
)

const retrySweepBatch = 50

// RetryCron periodically sweeps sales stuck in needs_reconciliation back onto
// the reconcile queue. It covers enqueues lost at flag time and jobs that
// died in the dead-letter queue.
type RetryCron struct {
	sales    repository.SaleRepository
	queue    service.Queue
	interval time.Duration
	log      zerolog.Logger
}

func NewRetryCron(sales repository.SaleRepository, queue service.Queue, interval time.Duration, log zerolog.Logger) *RetryCron {
	return &RetryCron{
		sales:    sales,
		queue:    queue,
		interval: interval,
		log:      log.With().Str("component", "retry_cron").Logger(),
	}
}

// Run blocks until ctx is cancelled.
func (c *RetryCron) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *RetryCron) sweep(ctx context.Context) {
	sales, err := c.sales.ListNeedsReconciliation(ctx, retrySweepBatch)
	if err != nil {
		c.log.Error().Err(err).Msg("could not list flagged sales")
		return
	}
	if len(sales) == 0 {
		return
	}

	c.log.Info().Int("count", len(sales)).Msg("re-enqueueing flagged sales")
	for _, sale := range sales {
		if err := c.queue.Enqueue(ctx, service.QueueReconcile, service.ReconcileJob{SaleID: sale.ID}); err != nil {
			c.log.Error().Err(err).Str("sale_id", sale.ID.String()).Msg("could not enqueue reconcile job")
		}
	}
}
