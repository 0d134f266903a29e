// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification business-event types.
const (
	NotifyAssignmentCreated   = "assignment_created"
	NotifyAssignmentUpdated   = "assignment_updated"
	NotifyAssignmentCompleted = "assignment_completed"
	NotifyDayPlanSubmitted    = "day_plan_submitted"
	NotifyDayPlanReviewed     = "day_plan_reviewed"
)

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Notification is a fire-and-forget message recorded for a recipient when
// business state changes. It never mutates the entity that triggered it.
type Notification struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RecipientID   primitive.ObjectID  `bson:"recipient_id" json:"recipient_id"`
	RecipientRole string              `bson:"recipient_role" json:"recipient_role"`
	Type          string              `bson:"type" json:"type"`
	Title         string              `bson:"title" json:"title"`
	Message       string              `bson:"message" json:"message"`
	Priority      string              `bson:"priority" json:"priority"` // low | normal | high
	RelatedID     *primitive.ObjectID `bson:"related_entity_id,omitempty" json:"related_entity_id,omitempty"`
	RelatedType   string              `bson:"related_entity_type,omitempty" json:"related_entity_type,omitempty"`
	IsRead        bool                `bson:"is_read" json:"is_read"`
	ReadAt        *time.Time          `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
}
