package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// AvailabilityReconciler is satisfied by order.Repository.
type AvailabilityReconciler interface {
	ReconcileAvailability(ctx context.Context) (closed, reopened int64, err error)
}

// Reconciler periodically repairs artwork availability that drifted out
// of sync with the order table, e.g. after a crash between the order
// write and the availability flip.
type Reconciler struct {
	repo     AvailabilityReconciler
	interval time.Duration
}

func NewReconciler(repo AvailabilityReconciler, interval time.Duration) *Reconciler {
	return &Reconciler{
		repo:     repo,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.interval).Msg("worker: availability reconciler started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker: availability reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context) {
	closed, reopened, err := r.repo.ReconcileAvailability(ctx)
	if err != nil {
		log.Error().Err(err).Msg("worker: availability reconciliation failed")
		return
	}

	if closed == 0 && reopened == 0 {
		return
	}

	log.Info().Int64("closed", closed).Int64("reopened", reopened).Msg("worker: repaired artwork availability")
}
