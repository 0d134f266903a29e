// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"

	assignmentstore "github.com/dalemusser/trainhub/internal/app/store/assignments"
	dayplanstore "github.com/dalemusser/trainhub/internal/app/store/dayplans"
)

// Serve handles GET /dashboard: a small summary shaped by role. Trainer and
// trainee counts come from the denormalized fields, which is the point of
// maintaining them.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out := map[string]any{"role": g.Role}

	if unread, err := h.Notifications.CountUnread(ctx, g.UserID); err == nil {
		out["unread_notifications"] = unread
	}

	switch g.Role {
	case models.RoleTrainer:
		me, err := h.Users.GetByID(ctx, g.UserID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "dashboard: trainer profile", err, "Could not load your dashboard.")
			return
		}
		out["assigned_trainees"] = len(me.AssignedTrainees)

		pending, err := h.Plans.List(ctx, dayplanstore.ListFilter{
			OwnerIDs: me.AssignedTrainees,
			Status:   models.DayPlanPending,
		})
		if err == nil {
			out["plans_awaiting_review"] = len(pending)
		}

	case models.RoleTrainee:
		me, err := h.Users.GetByID(ctx, g.UserID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "dashboard: trainee profile", err, "Could not load your dashboard.")
			return
		}
		out["has_trainer"] = me.AssignedTrainer != nil

		plans, err := h.Plans.List(ctx, dayplanstore.ListFilter{OwnerID: &g.UserID})
		if err == nil {
			out["total_plans"] = len(plans)
		}

	case models.RoleMasterTrainer:
		mine, err := h.Assignments.List(ctx, assignmentstore.ListFilter{
			MasterTrainerID: &g.UserID,
			Status:          models.AssignmentActive,
		})
		if err != nil {
			h.ErrLog.LogServerError(w, r, "dashboard: master assignments", err, "Could not load your dashboard.")
			return
		}
		out["active_assignments"] = len(mine)
		trainees := 0
		for _, a := range mine {
			trainees += a.ActiveTrainees
		}
		out["trainees_in_training"] = trainees

	case models.RoleBOA, models.RoleAdmin:
		active, err := h.Assignments.ListActive(ctx)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "dashboard: active assignments", err, "Could not load the dashboard.")
			return
		}
		out["active_assignments"] = len(active)
		unacked := 0
		for _, a := range active {
			if !a.IsAcknowledged {
				unacked++
			}
		}
		out["unacknowledged_assignments"] = unacked
	}

	respond.Data(w, out)
}
