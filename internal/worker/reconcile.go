package worker

import (
	"context"
	"encoding/json"

	"dukapos/internal/service"

	"github.com/rs/zerolog"
)

// ReconcileHandler resumes settlement of sales flagged needs_reconciliation.
func ReconcileHandler(checkout *service.CheckoutService, log zerolog.Logger) Handler {
	log = log.With().Str("component", "reconcile_worker").Logger()
	return func(ctx context.Context, payload []byte) error {
		var job service.ReconcileJob
		if err := json.Unmarshal(payload, &job); err != nil {
			return err
		}
		log.Info().Str("sale_id", job.SaleID.String()).Msg("reconciling sale")
		return checkout.Resume(ctx, job.SaleID)
	}
}
