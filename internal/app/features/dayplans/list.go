// internal/app/features/dayplans/list.go
package dayplans

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	dayplanstore "github.com/dalemusser/trainhub/internal/app/store/dayplans"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/normalize"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

// HandleList handles GET /dayplans. Owners see their own plans; a trainer
// with scope=team sees their trainees' plans; master trainers and back
// office see everything (optionally filtered by status or date).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	filter := dayplanstore.ListFilter{}
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		filter.Status = s
	}
	if d := strings.TrimSpace(r.URL.Query().Get("date")); d != "" {
		date, ok := normalize.PlanDate(d)
		if !ok {
			uierrors.RenderBadRequest(w, "date must be YYYY-MM-DD.")
			return
		}
		filter.PlanDate = date
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	scope := strings.TrimSpace(r.URL.Query().Get("scope"))
	switch {
	case authz.HasAnyRole(r, models.RoleMasterTrainer, models.RoleBOA, models.RoleAdmin):
		// Unscoped view for oversight roles.
	case authz.IsTrainer(r) && scope == "team":
		me, err := h.Users.GetByID(ctx, g.UserID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "dayplans: list trainer", err, "Could not load your profile.")
			return
		}
		if len(me.AssignedTrainees) == 0 {
			respond.Data(w, []planViewData{})
			return
		}
		filter.OwnerIDs = me.AssignedTrainees
	default:
		filter.OwnerID = &g.UserID
	}

	list, err := h.Plans.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "dayplans: list", err, "Could not load day plans.")
		return
	}

	views := make([]planViewData, len(list))
	for i, p := range list {
		views[i] = planView(p)
	}
	respond.Data(w, views)
}

// HandleGet handles GET /dayplans/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Plan id is not valid.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	plan, err := h.Plans.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: get", err)
		return
	}

	if plan.OwnerID != g.UserID && !h.canReview(ctx, r, *plan, g.UserID) {
		uierrors.RenderForbidden(w, "You cannot view this plan.")
		return
	}
	respond.Data(w, planView(*plan))
}
