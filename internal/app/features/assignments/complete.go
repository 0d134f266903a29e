// internal/app/features/assignments/complete.go
package assignments

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

type completeRequest struct {
	Status  string     `json:"status"` // "completed" (default) or "cancelled"
	EndDate *time.Time `json:"end_date"`
}

// HandleComplete handles PUT /assignments/{id}/complete: close an active
// assignment and detach every trainee from the trainer.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAssignmentManager(w, r)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Assignment id is not valid.")
		return
	}

	req := completeRequest{Status: models.AssignmentCompleted}
	if r.ContentLength > 0 {
		if err := respond.DecodeJSON(r, &req); err != nil {
			h.ErrLog.LogAppError(w, r, "complete: decode", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Master trainers may only close assignments they created; back office
	// and admins may close any.
	if g.Role == models.RoleMasterTrainer {
		a, err := h.Assignments.GetByID(ctx, id)
		if err != nil {
			h.ErrLog.LogAppError(w, r, "complete: load", err)
			return
		}
		if a.CreatedBy != g.UserID {
			uierrors.RenderForbidden(w, "You can only complete assignments you created.")
			return
		}
	}

	closed, err := h.Rec.Complete(ctx, id, g.UserID, req.Status, req.EndDate)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "complete: reconcile", err)
		return
	}

	respond.Data(w, map[string]any{
		"assignment_id": closed.ID.Hex(),
		"status":        closed.Status,
		"end_date":      closed.EndDate,
	})
}
