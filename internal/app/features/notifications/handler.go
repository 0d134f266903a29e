// internal/app/features/notifications/handler.go
package notifications

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	notificationstore "github.com/dalemusser/trainhub/internal/app/store/notifications"
)

// Handler is the feature-level handler for the in-app notification inbox.
type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	ErrLog        *uierrors.ErrorLogger
	Notifications *notificationstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		ErrLog:        errLog,
		Notifications: notificationstore.New(db),
	}
}
