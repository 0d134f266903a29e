// internal/app/features/trainees/create.go
package trainees

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/sanitize"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

type createRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Campus   string `json:"campus"`
	AuthorID string `json:"author_id"`
}

// HandleCreate handles POST /trainees: back office onboards one trainee.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireBackOffice(w, r)
	if !g.OK {
		return
	}

	var req createRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogAppError(w, r, "trainees: create decode", err)
		return
	}

	req.FullName = sanitize.Text(req.FullName)
	if req.FullName == "" {
		uierrors.RenderBadRequest(w, "full_name is required.")
		return
	}
	if !strings.Contains(req.Email, "@") {
		uierrors.RenderBadRequest(w, "A valid email is required.")
		return
	}
	if len(req.Password) < 8 {
		uierrors.RenderBadRequest(w, "Password must be at least 8 characters.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "trainees: hash password", err, "Could not create the trainee.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleTrainee,
		IsActive: true,
		Campus:   req.Campus,
		AuthorID: sanitize.Text(req.AuthorID),
	})
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			uierrors.RenderConflict(w, err.Error())
			return
		}
		h.ErrLog.LogAppError(w, r, "trainees: create", err)
		return
	}

	respond.Created(w, traineeView(u))
}
