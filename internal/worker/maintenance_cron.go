package worker

// Background sweep that keeps invoice bookkeeping current:
//   - unpaid invoices past their due date are flagged overdue
//   - invoices whose document job was lost (Redis down at creation, job in
//     the DLQ) are re-enqueued once they are older than documentGrace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	maintenanceInterval = 5 * time.Minute
	documentGrace       = 10 * time.Minute
	documentBatchSize   = 20
)

type maintenanceStore interface {
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
	ListMissingDocument(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error)
}

type documentQueue interface {
	EnqueueInvoiceDocument(ctx context.Context, invoiceID uuid.UUID) error
}

// MaintenanceCronConfig holds all dependencies for the sweep goroutine.
type MaintenanceCronConfig struct {
	Invoices maintenanceStore
	Queue    documentQueue
	Interval time.Duration
}

// StartMaintenanceCron runs one sweep immediately, then every Interval,
// until ctx is cancelled.
func StartMaintenanceCron(ctx context.Context, cfg MaintenanceCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = maintenanceInterval
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("maintenance_cron: started")
		runMaintenance(ctx, cfg, time.Now())

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("maintenance_cron: shutting down")
				return
			case now := <-ticker.C:
				runMaintenance(ctx, cfg, now)
			}
		}
	}()
}

func runMaintenance(ctx context.Context, cfg MaintenanceCronConfig, now time.Time) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	n, err := cfg.Invoices.MarkOverdue(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("maintenance_cron: failed to mark overdue invoices")
	} else if n > 0 {
		log.Info().Int64("count", n).Msg("maintenance_cron: invoices marked overdue")
	}

	ids, err := cfg.Invoices.ListMissingDocument(ctx, now.Add(-documentGrace), documentBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("maintenance_cron: failed to query invoices without document")
		return
	}
	for _, id := range ids {
		if err := cfg.Queue.EnqueueInvoiceDocument(ctx, id); err != nil {
			log.Warn().Err(err).Str("invoice_id", id.String()).Msg("maintenance_cron: re-enqueue failed, stopping")
			return
		}
	}
	if len(ids) > 0 {
		log.Info().Int("count", len(ids)).Msg("maintenance_cron: document jobs re-enqueued")
	}
}
