package service

import (
	"context"

	"github.com/google/uuid"
)

// Redis list names the worker pool consumes from.
const (
	QueueReconcile = "jobs:reconcile"
	QueueEmail     = "jobs:email"
)

// Queue pushes jobs for asynchronous processing. The worker package provides
// the Redis-backed implementation.
type Queue interface {
	Enqueue(ctx context.Context, queue string, payload interface{}) error
}

// ReconcileJob asks the worker pool to resume settlement of a sale that was
// flagged needs_reconciliation.
type ReconcileJob struct {
	SaleID uuid.UUID `json:"sale_id"`
}

// Email job types.
const (
	EmailShiftSummary = "shift_summary"
	EmailReceipt      = "receipt"
)

type EmailJob struct {
	Type    string    `json:"type"`
	ShiftID uuid.UUID `json:"shift_id,omitempty"`
	SaleID  uuid.UUID `json:"sale_id,omitempty"`
	To      string    `json:"to,omitempty"`
}
