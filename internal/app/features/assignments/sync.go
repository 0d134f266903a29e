// internal/app/features/assignments/sync.go
package assignments

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
)

// HandleSync handles POST /assignments/sync: rebuild the denormalized
// trainer/trainee links from the assignment ledger. Safe to run any time;
// a consistent database is left untouched.
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireBackOffice(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	report, err := h.Rec.SyncFromLedger(ctx)
	if err != nil {
		h.ErrLog.LogAppError(w, r, "sync: reconcile", err)
		return
	}

	h.Log.Info("assignment sync run",
		zap.String("actor", g.UserID.Hex()),
		zap.String("report", report.String()))

	respond.Data(w, map[string]any{
		"assignments_checked": report.AssignmentsChecked,
		"trainers_repaired":   report.TrainersRepaired,
		"trainees_relinked":   report.TraineesRelinked,
		"trainees_detached":   report.TraineesDetached,
	})
}
