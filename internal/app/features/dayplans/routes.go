// internal/app/features/dayplans/routes.go
package dayplans

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts all day-plan routes under the path where the caller mounts
// it. Typically: r.Mount("/dayplans", dayplans.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}/tasks", h.HandleUpdateTasks)
	r.Post("/{id}/eod", h.HandleSubmitEOD)
	r.Put("/{id}/review", h.HandleReview)
	r.Put("/{id}/publish", h.HandlePublish)
	r.Put("/{id}/complete", h.HandleCompletePlan)

	return r
}
