// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/trainhub/internal/app/reconcile"
	notificationstore "github.com/dalemusser/trainhub/internal/app/store/notifications"
)

// AssignmentDriftRepairJob creates a job that rebuilds the denormalized
// trainer/trainee links from the assignment ledger. Normal writes keep them
// consistent; this is the safety net for crashes and out-of-band edits.
func AssignmentDriftRepairJob(rc *reconcile.Reconciler, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "assignment-drift-repair",
		Interval: interval,
		Run: func(ctx context.Context) error {
			report, err := rc.SyncFromLedger(ctx)
			if err != nil {
				return err
			}
			if report.TrainersRepaired > 0 || report.TraineesRelinked > 0 || report.TraineesDetached > 0 {
				logger.Info("repaired assignment drift", zap.String("report", report.String()))
			}
			return nil
		},
	}
}

// NotificationPruneJob creates a job that deletes read notifications older
// than the retention window.
func NotificationPruneJob(store *notificationstore.Store, logger *zap.Logger, retention time.Duration) Job {
	return Job{
		Name:     "notification-prune",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := store.DeleteReadOlderThan(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("pruned read notifications", zap.Int64("count", count))
			}
			return nil
		},
	}
}
