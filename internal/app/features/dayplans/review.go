// internal/app/features/dayplans/review.go
package dayplans

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/sanitize"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

type reviewRequest struct {
	Decision string `json:"decision"` // approved | rejected
	Feedback string `json:"feedback"`
}

// HandleReview handles PUT /dayplans/{id}/review. Trainee plans are
// reviewed by their assigned trainer (or any master trainer / back office);
// trainer plans by master trainers and back office. Owners never review
// their own plans. The owner is notified after the decision lands.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAnyRole(w, r, "You cannot review day plans.",
		models.RoleTrainer, models.RoleMasterTrainer, models.RoleBOA, models.RoleAdmin)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Plan id is not valid.")
		return
	}

	var req reviewRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: review decode", err)
		return
	}
	if req.Decision != models.ReviewApproved && req.Decision != models.ReviewRejected {
		uierrors.RenderBadRequest(w, `decision must be "approved" or "rejected".`)
		return
	}
	if req.Decision == models.ReviewRejected && sanitize.Text(req.Feedback) == "" {
		uierrors.RenderBadRequest(w, "Rejection requires feedback.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	plan, err := h.Plans.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: review load", err)
		return
	}
	if plan.OwnerID == g.UserID {
		uierrors.RenderForbidden(w, "You cannot review your own plan.")
		return
	}
	if !h.canReview(ctx, r, *plan, g.UserID) {
		uierrors.RenderForbidden(w, "You are not this plan's reviewer.")
		return
	}

	review := models.PlanReview{
		ReviewerID: g.UserID,
		Decision:   req.Decision,
		Feedback:   sanitize.Text(req.Feedback),
	}
	if err := h.Plans.Review(ctx, id, review); err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: review write", err)
		return
	}

	plan, err = h.Plans.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: review reload", err)
		return
	}

	h.Notifier.DayPlanReviewed(ctx, *plan)
	respond.Data(w, planView(*plan))
}

func (h *Handler) canReview(ctx context.Context, r *http.Request, plan models.DayPlan, reviewerID primitive.ObjectID) bool {
	// Master trainers and back office review anything.
	if authz.HasAnyRole(r, models.RoleMasterTrainer, models.RoleBOA, models.RoleAdmin) {
		return true
	}
	// A trainer reviews only their own trainees' plans.
	if plan.OwnerRole != models.RoleTrainee {
		return false
	}
	owner, err := h.Users.GetByID(ctx, plan.OwnerID)
	if err != nil || owner.AssignedTrainer == nil {
		return false
	}
	return *owner.AssignedTrainer == reviewerID
}
