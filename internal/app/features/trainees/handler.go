// internal/app/features/trainees/handler.go
package trainees

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
)

// Handler is the feature-level handler for trainee onboarding and lookup.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Users  *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Users:  userstore.New(db),
	}
}
