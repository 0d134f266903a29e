// internal/app/features/dayplans/create.go
package dayplans

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/limits"
	"github.com/dalemusser/trainhub/internal/app/system/normalize"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/sanitize"
	"github.com/dalemusser/trainhub/internal/app/system/status"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

type taskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Remarks     string `json:"remarks"`
}

type createRequest struct {
	PlanDate string      `json:"plan_date"` // YYYY-MM-DD
	Tasks    []taskInput `json:"tasks"`
}

// HandleCreate handles POST /dayplans: a trainee or trainer opens a plan
// for a date. One plan per owner per date.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAnyRole(w, r, "Only trainees and trainers keep day plans.",
		models.RoleTrainee, models.RoleTrainer)
	if !g.OK {
		return
	}

	var req createRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: create decode", err)
		return
	}

	planDate, ok := normalize.PlanDate(req.PlanDate)
	if !ok {
		uierrors.RenderBadRequest(w, "plan_date must be YYYY-MM-DD.")
		return
	}
	tasks, err := tasksFromInput(req.Tasks)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: create tasks", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	plan, err := h.Plans.Create(ctx, models.DayPlan{
		OwnerID:   g.UserID,
		OwnerRole: g.Role,
		PlanDate:  planDate,
		Tasks:     tasks,
	})
	if err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: create", err)
		return
	}
	respond.Created(w, planView(plan))
}

// HandleUpdateTasks handles PUT /dayplans/{id}/tasks: replace the task list
// while the plan is still editable.
func (h *Handler) HandleUpdateTasks(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		Tasks []taskInput `json:"tasks"`
	}
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: tasks decode", err)
		return
	}
	tasks, err := tasksFromInput(req.Tasks)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: tasks parse", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Plans.ReplaceTasks(ctx, id, g.UserID, tasks); err != nil {
		h.ErrLog.LogAppError(w, r, "dayplans: tasks replace", err)
		return
	}
	respond.OK(w, "Tasks updated.")
}

func tasksFromInput(in []taskInput) ([]models.PlanTask, error) {
	if len(in) == 0 {
		return nil, errValidation("At least one task is required.")
	}
	if len(in) > limits.MaxPlanTasks {
		return nil, errValidation("Too many tasks in one plan.")
	}

	tasks := make([]models.PlanTask, 0, len(in))
	for _, t := range in {
		title := sanitize.Text(t.Title)
		if title == "" {
			return nil, errValidation("Every task needs a title.")
		}
		st := t.Status
		if st == "" {
			st = status.TaskPending
		}
		if !status.IsValidTask(st) {
			return nil, errValidation("Unknown task status " + st + ".")
		}
		tasks = append(tasks, models.PlanTask{
			TaskID:      uuid.NewString(),
			Title:       title,
			Description: sanitize.Text(t.Description),
			Status:      st,
			Remarks:     sanitize.Text(t.Remarks),
		})
	}
	return tasks, nil
}
