// internal/app/features/assignments/routes.go
package assignments

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts all assignment routes under the path where the caller
// mounts it. Typically: r.Mount("/assignments", assignments.Routes(handler))
// The caller's route group must already require a signed-in user; role
// checks happen per-handler via gates.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Management (master trainer / BOA / admin)
	r.Post("/", h.HandleBind)
	r.Post("/sync", h.HandleSync)
	r.Get("/export", h.HandleExport)
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}/complete", h.HandleComplete)

	// Self views
	r.Get("/trainer", h.HandleTrainerAssignment)
	r.Get("/trainee", h.HandleTraineeAssignment)
	r.Put("/{id}/acknowledge", h.HandleAcknowledge)

	return r
}
