// internal/app/features/assignments/self.go
package assignments

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

type rosterEntry struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Campus   string `json:"campus,omitempty"`
}

// HandleTrainerAssignment handles GET /assignments/trainer: the signed-in
// trainer's active assignment with the trainee roster.
func (h *Handler) HandleTrainerAssignment(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAnyRole(w, r, "Only trainers have a trainer assignment view.", models.RoleTrainer)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Assignments.FindActiveByTrainer(ctx, g.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assignments: trainer view", err, "Could not load your assignment.")
		return
	}
	if a == nil {
		respond.Data(w, map[string]any{"assignment": nil, "trainees": []rosterEntry{}})
		return
	}

	trainees, err := h.Users.GetByIDs(ctx, a.TraineeIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assignments: trainer roster", err, "Could not load your trainees.")
		return
	}
	roster := make([]rosterEntry, len(trainees))
	for i, u := range trainees {
		roster[i] = rosterEntry{ID: u.ID.Hex(), FullName: u.FullName, Email: u.Email, Campus: u.Campus}
	}

	respond.Data(w, map[string]any{"assignment": viewOf(*a), "trainees": roster})
}

// HandleTraineeAssignment handles GET /assignments/trainee: the signed-in
// trainee's current trainer binding.
func (h *Handler) HandleTraineeAssignment(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAnyRole(w, r, "Only trainees have a trainee assignment view.", models.RoleTrainee)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	me, err := h.Users.GetByID(ctx, g.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assignments: trainee view", err, "Could not load your profile.")
		return
	}

	// The denormalized pointer is the fast path for this view.
	if me.AssignedTrainer == nil {
		respond.Data(w, map[string]any{"trainer": nil})
		return
	}

	trainer, err := h.Users.GetByID(ctx, *me.AssignedTrainer)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assignments: trainee trainer lookup", err, "Could not load your trainer.")
		return
	}

	resp := map[string]any{"trainer": rosterEntry{
		ID:       trainer.ID.Hex(),
		FullName: trainer.FullName,
		Email:    trainer.Email,
		Campus:   trainer.Campus,
	}}
	if a, err := h.Assignments.FindActiveByTrainee(ctx, g.UserID); err == nil && a != nil {
		resp["assignment_id"] = a.ID.Hex()
	}
	respond.Data(w, resp)
}

// HandleAcknowledge handles PUT /assignments/{id}/acknowledge: a trainer
// marks their assignment as seen.
func (h *Handler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAnyRole(w, r, "Only trainers acknowledge assignments.", models.RoleTrainer)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Assignment id is not valid.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Assignments.Acknowledge(ctx, id, g.UserID); err != nil {
		h.ErrLog.LogAppError(w, r, "assignments: acknowledge", err)
		return
	}
	respond.OK(w, "Assignment acknowledged.")
}
