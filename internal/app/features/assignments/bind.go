// internal/app/features/assignments/bind.go
package assignments

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	"github.com/dalemusser/trainhub/internal/app/reconcile"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/limits"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/sanitize"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
)

type bindRequest struct {
	TrainerID  string   `json:"trainer_id"`
	TraineeIDs []string `json:"trainee_ids"`
	Notes      string   `json:"notes"`
}

type bindResponse struct {
	AssignmentID  string   `json:"assignment_id"`
	TrainerID     string   `json:"trainer_id"`
	TraineeIDs    []string `json:"trainee_ids"`
	NewlyAssigned []string `json:"newly_assigned"`
	Created       bool     `json:"created"`
}

// HandleBind handles POST /assignments: bind trainees to a trainer. If the
// trainer already has an active assignment the trainees are merged onto it.
func (h *Handler) HandleBind(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAssignmentManager(w, r)
	if !g.OK {
		return
	}

	var req bindRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogAppError(w, r, "bind: decode", err)
		return
	}

	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		uierrors.RenderBadRequest(w, "trainer_id is not a valid id.")
		return
	}
	if len(req.TraineeIDs) == 0 {
		uierrors.RenderBadRequest(w, "At least one trainee is required.")
		return
	}
	if len(req.TraineeIDs) > limits.MaxTraineesPerBind {
		uierrors.RenderBadRequest(w, "Too many trainees in one request.")
		return
	}
	traineeIDs := make([]primitive.ObjectID, 0, len(req.TraineeIDs))
	for _, hex := range req.TraineeIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			uierrors.RenderBadRequest(w, "trainee_ids contains an invalid id.")
			return
		}
		traineeIDs = append(traineeIDs, id)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Rec.Bind(ctx, reconcile.BindRequest{
		TrainerID:       trainerID,
		TraineeIDs:      traineeIDs,
		MasterTrainerID: g.UserID,
		ActorID:         g.UserID,
		Notes:           sanitize.Text(req.Notes),
	})
	if err != nil {
		h.ErrLog.LogAppError(w, r, "bind: reconcile", err)
		return
	}

	resp := bindResponse{
		AssignmentID:  res.Assignment.ID.Hex(),
		TrainerID:     res.Assignment.TrainerID.Hex(),
		TraineeIDs:    hexIDs(res.Assignment.TraineeIDs),
		NewlyAssigned: hexIDs(res.NewlyAssigned),
		Created:       res.Created,
	}
	if res.Created {
		respond.Created(w, resp)
		return
	}
	respond.Data(w, resp)
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
