// internal/app/features/assignments/list.go
package assignments

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	assignmentstore "github.com/dalemusser/trainhub/internal/app/store/assignments"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/status"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

type assignmentView struct {
	ID              string   `json:"id"`
	MasterTrainerID string   `json:"master_trainer_id"`
	TrainerID       string   `json:"trainer_id"`
	TrainerName     string   `json:"trainer_name,omitempty"`
	TraineeIDs      []string `json:"trainee_ids"`
	Status          string   `json:"status"`
	Notes           string   `json:"notes,omitempty"`
	TotalTrainees   int      `json:"total_trainees"`
	ActiveTrainees  int      `json:"active_trainees"`
	IsAcknowledged  bool     `json:"is_acknowledged"`
	CreatedAt       string   `json:"created_at"`
}

func viewOf(a models.Assignment) assignmentView {
	return assignmentView{
		ID:              a.ID.Hex(),
		MasterTrainerID: a.MasterTrainerID.Hex(),
		TrainerID:       a.TrainerID.Hex(),
		TraineeIDs:      hexIDs(a.TraineeIDs),
		Status:          a.Status,
		Notes:           a.Notes,
		TotalTrainees:   a.TotalTrainees,
		ActiveTrainees:  a.ActiveTrainees,
		IsAcknowledged:  a.IsAcknowledged,
		CreatedAt:       a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandleList handles GET /assignments. Master trainers see their own
// records; BOA and admin see everything and may filter by trainer or
// master trainer.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAssignmentManager(w, r)
	if !g.OK {
		return
	}

	filter := assignmentstore.ListFilter{}
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		if !status.IsValidAssignment(s) {
			uierrors.RenderBadRequest(w, "Unknown status filter.")
			return
		}
		filter.Status = s
	}
	if hex := strings.TrimSpace(r.URL.Query().Get("trainer_id")); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			uierrors.RenderBadRequest(w, "trainer_id is not a valid id.")
			return
		}
		filter.TrainerID = &id
	}

	// Master trainers are scoped to their own ledger entries.
	if authz.IsMasterTrainer(r) {
		filter.MasterTrainerID = &g.UserID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Assignments.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assignments: list", err, "Could not load assignments.")
		return
	}

	views := make([]assignmentView, len(list))
	for i, a := range list {
		views[i] = viewOf(a)
	}
	respond.Data(w, views)
}

// HandleGet handles GET /assignments/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
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

	a, err := h.Assignments.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "assignments: get", err)
		return
	}

	// Participants and managers only.
	if !authz.CanManageAssignments(r) && a.TrainerID != g.UserID && !a.HasTrainee(g.UserID) {
		uierrors.RenderForbidden(w, "You are not part of this assignment.")
		return
	}

	view := viewOf(*a)
	if trainer, err := h.Users.GetByID(ctx, a.TrainerID); err == nil {
		view.TrainerName = trainer.FullName
	}
	respond.Data(w, view)
}
