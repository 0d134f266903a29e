// internal/app/features/notifications/inbox.go
package notifications

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

type noteView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message,omitempty"`
	Priority    string `json:"priority"`
	RelatedID   string `json:"related_id,omitempty"`
	RelatedType string `json:"related_type,omitempty"`
	IsRead      bool   `json:"is_read"`
	CreatedAt   string `json:"created_at"`
}

func viewOf(n models.Notification) noteView {
	v := noteView{
		ID:          n.ID.Hex(),
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		Priority:    n.Priority,
		RelatedType: n.RelatedType,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if n.RelatedID != nil {
		v.RelatedID = n.RelatedID.Hex()
	}
	return v
}

// HandleList handles GET /notifications?unread=true&limit=20.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	unreadOnly := strings.EqualFold(r.URL.Query().Get("unread"), "true")
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 200 {
			uierrors.RenderBadRequest(w, "limit must be between 1 and 200.")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Notifications.ListByRecipient(ctx, g.UserID, unreadOnly, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "notifications: list", err, "Could not load notifications.")
		return
	}

	views := make([]noteView, len(list))
	for i, n := range list {
		views[i] = viewOf(n)
	}
	respond.Data(w, views)
}

// HandleUnreadCount handles GET /notifications/unread-count.
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	count, err := h.Notifications.CountUnread(ctx, g.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "notifications: unread count", err, "Could not load notifications.")
		return
	}
	respond.Data(w, map[string]int64{"unread": count})
}

// HandleMarkRead handles PUT /notifications/{id}/read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Notification id is not valid.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, g.UserID); err != nil {
		if err == mongo.ErrNoDocuments {
			uierrors.RenderNotFound(w, "Notification not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "notifications: mark read", err, "Could not update the notification.")
		return
	}
	respond.OK(w, "Notification marked read.")
}

// HandleMarkAllRead handles PUT /notifications/read-all.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	count, err := h.Notifications.MarkAllRead(ctx, g.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "notifications: mark all read", err, "Could not update notifications.")
		return
	}
	respond.Data(w, map[string]int64{"marked": count})
}
