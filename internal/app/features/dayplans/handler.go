// internal/app/features/dayplans/handler.go
package dayplans

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	"github.com/dalemusser/trainhub/internal/app/notify"
	dayplanstore "github.com/dalemusser/trainhub/internal/app/store/dayplans"
	notificationstore "github.com/dalemusser/trainhub/internal/app/store/notifications"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
)

// Handler is the feature-level handler for day plans and their end-of-day
// review workflow.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Users    *userstore.Store
	Plans    *dayplanstore.Store
	Notifier *notify.Notifier
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Users:    userstore.New(db),
		Plans:    dayplanstore.New(db),
		Notifier: notify.New(notificationstore.New(db), logger),
	}
}
