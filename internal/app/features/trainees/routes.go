// internal/app/features/trainees/routes.go
package trainees

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts trainee onboarding and lookup routes.
// Typically: r.Mount("/trainees", trainees.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Post("/upload_csv", h.HandleUploadCSV)
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)

	return r
}
