// internal/app/features/dashboard/handler.go
package dashboard

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	assignmentstore "github.com/dalemusser/trainhub/internal/app/store/assignments"
	dayplanstore "github.com/dalemusser/trainhub/internal/app/store/dayplans"
	notificationstore "github.com/dalemusser/trainhub/internal/app/store/notifications"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
)

// Handler serves the role-shaped dashboard summary.
type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	ErrLog        *uierrors.ErrorLogger
	Users         *userstore.Store
	Assignments   *assignmentstore.Store
	Plans         *dayplanstore.Store
	Notifications *notificationstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		ErrLog:        errLog,
		Users:         userstore.New(db),
		Assignments:   assignmentstore.New(db),
		Plans:         dayplanstore.New(db),
		Notifications: notificationstore.New(db),
	}
}
