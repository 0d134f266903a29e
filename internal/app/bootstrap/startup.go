// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/trainhub/internal/app/notify"
	"github.com/dalemusser/trainhub/internal/app/reconcile"
	assignmentstore "github.com/dalemusser/trainhub/internal/app/store/assignments"
	notificationstore "github.com/dalemusser/trainhub/internal/app/store/notifications"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/tasks"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/app/system/txn"
)

// jobRunner owns the background maintenance goroutines. Started here,
// stopped in Shutdown.
var jobRunner *tasks.Runner

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// TrainHub configures operation timeouts and launches the background
// maintenance jobs: the assignment drift repair (the safety net that keeps
// the denormalized trainer/trainee links consistent with the ledger) and the
// notification pruner.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("operation timeouts configured from environment", zap.Int("count", n))
	}

	noteStore := notificationstore.New(deps.MongoDatabase)
	runner := newTxnRunner(deps.MongoClient, logger)
	rec := reconcile.New(
		userstore.New(deps.MongoDatabase),
		assignmentstore.New(deps.MongoDatabase),
		notify.New(noteStore, logger),
		runner,
		logger,
	)

	jobRunner = tasks.NewRunner(logger)
	jobRunner.Start(context.Background(),
		tasks.AssignmentDriftRepairJob(rec, logger, appCfg.DriftRepairInterval),
		tasks.NotificationPruneJob(noteStore, logger, appCfg.NotificationRetention),
	)
	return nil
}

// newTxnRunner adapts txn.Run to the reconciler's runner type, binding the
// client and logger.
func newTxnRunner(client *mongo.Client, logger *zap.Logger) reconcile.TxnRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return txn.Run(ctx, client, logger, fn)
	}
}
