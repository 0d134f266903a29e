// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the notification inbox routes.
// Typically: r.Mount("/notifications", notifications.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleList)
	r.Get("/unread-count", h.HandleUnreadCount)
	r.Put("/read-all", h.HandleMarkAllRead)
	r.Put("/{id}/read", h.HandleMarkRead)

	return r
}
