// internal/app/features/dayplans/publish.go
package dayplans

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

// HandlePublish handles PUT /dayplans/{id}/publish: a trainer shares their
// own plan. Trainer plans move draft → published → completed and never go
// through the review queue.
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAnyRole(w, r, "Only trainers publish day plans.", models.RoleTrainer)
	if !g.OK {
		return
	}
	h.transitionOwnPlan(w, r, g.UserID, h.Plans.Publish)
}

// HandleCompletePlan handles PUT /dayplans/{id}/complete: a trainer closes
// out their own published plan.
func (h *Handler) HandleCompletePlan(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAnyRole(w, r, "Only trainers complete their own day plans.", models.RoleTrainer)
	if !g.OK {
		return
	}
	h.transitionOwnPlan(w, r, g.UserID, h.Plans.MarkCompleted)
}

func (h *Handler) transitionOwnPlan(w http.ResponseWriter, r *http.Request, ownerID primitive.ObjectID,
	move func(ctx context.Context, id, ownerID primitive.ObjectID) error) {

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Plan id is not valid.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := move(ctx, id, ownerID); err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: transition", err)
		return
	}

	plan, err := h.Plans.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: transition reload", err)
		return
	}
	respond.Data(w, planView(*plan))
}
