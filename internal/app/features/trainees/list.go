// internal/app/features/trainees/list.go
package trainees

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

type traineeViewData struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Campus          string `json:"campus,omitempty"`
	AuthorID        string `json:"author_id,omitempty"`
	IsActive        bool   `json:"is_active"`
	AssignedTrainer string `json:"assigned_trainer,omitempty"`
}

func traineeView(u models.User) traineeViewData {
	v := traineeViewData{
		ID:       u.ID.Hex(),
		FullName: u.FullName,
		Email:    u.Email,
		Campus:   u.Campus,
		AuthorID: u.AuthorID,
		IsActive: u.IsActive,
	}
	if u.AssignedTrainer != nil {
		v.AssignedTrainer = u.AssignedTrainer.Hex()
	}
	return v
}

// HandleList handles GET /trainees?campus=north&active=true. Open to every
// role that manages or trains people.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAnyRole(w, r, "You cannot browse trainees.",
		models.RoleTrainer, models.RoleMasterTrainer, models.RoleBOA, models.RoleAdmin)
	if !g.OK {
		return
	}

	filter := userstore.ListFilter{Role: models.RoleTrainee}
	filter.Campus = strings.TrimSpace(r.URL.Query().Get("campus"))
	filter.ActiveOnly = strings.EqualFold(r.URL.Query().Get("active"), "true")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Users.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "trainees: list", err, "Could not load trainees.")
		return
	}

	views := make([]traineeViewData, len(list))
	for i, u := range list {
		views[i] = traineeView(u)
	}
	respond.Data(w, views)
}

// HandleGet handles GET /trainees/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Trainee id is not valid.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			uierrors.RenderNotFound(w, "Trainee not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "trainees: get", err, "Could not load the trainee.")
		return
	}
	if u.Role != models.RoleTrainee {
		uierrors.RenderNotFound(w, "Trainee not found.")
		return
	}

	// Trainees may view only themselves.
	if g.Role == models.RoleTrainee && g.UserID != u.ID {
		uierrors.RenderForbidden(w, "You can only view your own profile.")
		return
	}

	respond.Data(w, traineeView(*u))
}
