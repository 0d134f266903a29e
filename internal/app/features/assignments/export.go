// internal/app/features/assignments/export.go
package assignments

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	assignmentstore "github.com/dalemusser/trainhub/internal/app/store/assignments"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/app/system/csvutil"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
)

// HandleExport handles GET /assignments/export: download the ledger as CSV.
// Master trainers export only their own assignments.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAssignmentManager(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	filter := assignmentstore.ListFilter{}
	if authz.IsMasterTrainer(r) {
		filter.MasterTrainerID = &g.UserID
	}

	list, err := h.Assignments.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assignments: export list", err, "Could not export assignments.")
		return
	}

	// Resolve display names in one query.
	idSet := map[primitive.ObjectID]struct{}{}
	for _, a := range list {
		idSet[a.MasterTrainerID] = struct{}{}
		idSet[a.TrainerID] = struct{}{}
		for _, id := range a.TraineeIDs {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	names := map[primitive.ObjectID]string{}
	if users, err := h.Users.GetByIDs(ctx, ids); err == nil {
		for _, u := range users {
			names[u.ID] = u.FullName
		}
	}

	filename := fmt.Sprintf("assignments-%s.csv", uuid.NewString())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := csvutil.WriteAssignments(w, list, func(id primitive.ObjectID) string {
		return names[id]
	}); err != nil {
		h.Log.Error("assignments: export write failed", zap.Error(err))
	}
}
