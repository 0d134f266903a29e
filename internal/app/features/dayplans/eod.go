// internal/app/features/dayplans/eod.go
package dayplans

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/sanitize"
	"github.com/dalemusser/trainhub/internal/app/system/status"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

type eodTaskUpdate struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"` // pending | done | blocked | skipped
	Remarks string `json:"remarks"`
}

type eodRequest struct {
	Tasks   []eodTaskUpdate `json:"tasks"`
	Summary string          `json:"summary"`
}

// HandleSubmitEOD handles POST /dayplans/{id}/eod: the owner reports final
// task states and submits the plan for review. After a successful write the
// reviewer is notified; a notification failure never fails the submit.
func (h *Handler) HandleSubmitEOD(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAnyRole(w, r, "Only trainees and trainers keep day plans.",
		models.RoleTrainee, models.RoleTrainer)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Plan id is not valid.")
		return
	}

	var req eodRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: eod decode", err)
		return
	}
	for _, tu := range req.Tasks {
		if !status.IsValidTask(tu.Status) {
			uierrors.RenderBadRequest(w, `task status must be "pending", "done", "blocked", or "skipped".`)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	plan, err := h.Plans.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: eod load", err)
		return
	}
	if plan.OwnerID != g.UserID {
		uierrors.RenderForbidden(w, "You can only submit your own plan.")
		return
	}

	tasks, ok := applyTaskUpdates(plan.Tasks, req.Tasks)
	if !ok {
		uierrors.RenderBadRequest(w, "tasks references a task_id that is not on this plan.")
		return
	}

	eod := models.EODUpdate{Summary: sanitize.Text(req.Summary)}
	if err := h.Plans.SubmitEOD(ctx, id, g.UserID, tasks, eod); err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: eod submit", err)
		return
	}

	plan, err = h.Plans.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: eod reload", err)
		return
	}

	if reviewerID, ok := h.reviewerFor(ctx, *plan); ok {
		h.Notifier.DayPlanSubmitted(ctx, *plan, reviewerID, g.Name)
	}

	respond.Data(w, planView(*plan))
}

// applyTaskUpdates merges the submitted per-task states into the stored
// task list. Tasks not mentioned keep their current state. Returns false
// when an update references an unknown task.
func applyTaskUpdates(tasks []models.PlanTask, updates []eodTaskUpdate) ([]models.PlanTask, bool) {
	byID := make(map[string]int, len(tasks))
	out := make([]models.PlanTask, len(tasks))
	for i, task := range tasks {
		byID[task.TaskID] = i
		out[i] = task
	}
	for _, tu := range updates {
		i, ok := byID[tu.TaskID]
		if !ok {
			return nil, false
		}
		out[i].Status = tu.Status
		out[i].Remarks = sanitize.Text(tu.Remarks)
	}
	return out, true
}

// reviewerFor resolves who should review a plan: a trainee's assigned
// trainer. Trainer-owned plans are picked up from the review queue by
// master trainers, so there is no single recipient to notify.
func (h *Handler) reviewerFor(ctx context.Context, plan models.DayPlan) (primitive.ObjectID, bool) {
	if plan.OwnerRole != models.RoleTrainee {
		return primitive.NilObjectID, false
	}
	owner, err := h.Users.GetByID(ctx, plan.OwnerID)
	if err != nil || owner.AssignedTrainer == nil {
		return primitive.NilObjectID, false
	}
	return *owner.AssignedTrainer, true
}
