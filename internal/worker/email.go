package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"dukapos/internal/config"
	"dukapos/internal/infra"
	"dukapos/internal/service"

	"github.com/rs/zerolog"
)

// EmailHandler delivers shift summaries and customer receipts.
func EmailHandler(
	cfg *config.Config,
	mailer *infra.Mailer,
	shifts *service.ShiftService,
	checkout *service.CheckoutService,
	log zerolog.Logger,
) Handler {
	log = log.With().Str("component", "email_worker").Logger()
	return func(ctx context.Context, payload []byte) error {
		var job service.EmailJob
		if err := json.Unmarshal(payload, &job); err != nil {
			return err
		}

		switch job.Type {
		case service.EmailShiftSummary:
			return sendShiftSummary(ctx, cfg, mailer, shifts, job)
		case service.EmailReceipt:
			return sendReceipt(ctx, cfg, mailer, checkout, job)
		default:
			log.Error().Str("type", job.Type).Msg("unknown email job type")
			return nil
		}
	}
}

func sendShiftSummary(ctx context.Context, cfg *config.Config, mailer *infra.Mailer, shifts *service.ShiftService, job service.EmailJob) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	sum, err := shifts.Summary(ctx, job.ShiftID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Shift closed by %s\nStarted: %s\n\nTotal sales: %s\n  Cash:  %s\n  Card:  %s\n  M-Pesa: %s\nExpenses: %s\nCOGS: %s\nNet profit: %s\nTransactions: %d\n",
		sum.CashierName,
		sum.StartTime.Format("2006-01-02 15:04"),
		sum.TotalSales.StringFixed(2),
		sum.TotalCash.StringFixed(2),
		sum.TotalCard.StringFixed(2),
		sum.TotalMpesa.StringFixed(2),
		sum.TotalExpenses.StringFixed(2),
		sum.TotalCOGS.StringFixed(2),
		sum.NetProfit.StringFixed(2),
		sum.SaleCount,
	)
	subject := "Shift summary " + sum.StartTime.Format("2006-01-02")
	return mailer.Send(cfg.AdminEmail, subject, body)
}

func sendReceipt(ctx context.Context, cfg *config.Config, mailer *infra.Mailer, checkout *service.CheckoutService, job service.EmailJob) error {
	sale, err := checkout.Find(ctx, job.SaleID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Thank you for your purchase.\nTotal: %s\nDate: %s\n",
		sale.TotalAmount.StringFixed(2), sale.SaleDate.Format("2006-01-02 15:04"))

	receiptPath := fmt.Sprintf("%s/%s.pdf", cfg.ReceiptStoragePath, sale.ID)
	return mailer.Send(job.To, "Your receipt", body, receiptPath)
}
