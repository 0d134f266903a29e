// internal/app/features/assignments/handler.go
package assignments

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	"github.com/dalemusser/trainhub/internal/app/notify"
	"github.com/dalemusser/trainhub/internal/app/reconcile"
	assignmentstore "github.com/dalemusser/trainhub/internal/app/store/assignments"
	notificationstore "github.com/dalemusser/trainhub/internal/app/store/notifications"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
)

// Handler is the feature-level handler for assignments. It holds the stores
// and the reconciler, which owns every ledger and relationship write.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Users       *userstore.Store
	Assignments *assignmentstore.Store
	Rec         *reconcile.Reconciler
}

func NewHandler(db *mongo.Database, run reconcile.TxnRunner, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	users := userstore.New(db)
	assignments := assignmentstore.New(db)
	notifier := notify.New(notificationstore.New(db), logger)

	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Users:       users,
		Assignments: assignments,
		Rec:         reconcile.New(users, assignments, notifier, run, logger),
	}
}
