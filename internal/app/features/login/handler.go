// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"github.com/dalemusser/trainhub/internal/app/system/ratelimit"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
)

// Handler authenticates users against their stored bcrypt hash and
// establishes a cookie session.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	SessionMgr *auth.SessionManager
	Users      *userstore.Store
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		SessionMgr: sm,
		Users:      userstore.New(db),
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /login. Attempts are rate limited per IP and
// per account before any credential work happens.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogAppError(w, r, "login: decode", err)
		return
	}

	if allowed, reason := h.Limiter.Check(r, req.Email); !allowed {
		uierrors.Render(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same response for unknown email and bad password.
		uierrors.Render(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if !u.IsActive {
		uierrors.RenderForbidden(w, "This account is disabled.")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		uierrors.Render(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	su := &auth.SessionUser{
		ID:     u.ID.Hex(),
		Name:   u.FullName,
		Email:  u.Email,
		Role:   u.Role,
		Campus: u.Campus,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "login: session save", err, "Could not sign you in.")
		return
	}
	h.Limiter.ResetEmail(u.Email)

	h.Log.Info("user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))

	respond.Data(w, map[string]string{
		"id":    su.ID,
		"name":  su.Name,
		"email": su.Email,
		"role":  su.Role,
	})
}
