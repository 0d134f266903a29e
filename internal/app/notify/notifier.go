// Package notify emits in-app notifications for assignment and day-plan
// events. Delivery is best-effort: a failed insert is logged and swallowed,
// never propagated, so a notification problem can't fail the operation that
// triggered it.
package notify

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/trainhub/internal/domain/models"
)

// Sink is where notifications land. *notificationstore.Store satisfies it.
type Sink interface {
	Insert(ctx context.Context, n models.Notification) (models.Notification, error)
}

type Notifier struct {
	sink Sink
	log  *zap.Logger
}

func New(sink Sink, log *zap.Logger) *Notifier {
	return &Notifier{sink: sink, log: log}
}

func (n *Notifier) send(ctx context.Context, note models.Notification) {
	if _, err := n.sink.Insert(ctx, note); err != nil {
		n.log.Warn("notification delivery failed",
			zap.String("type", note.Type),
			zap.String("recipient_id", note.RecipientID.Hex()),
			zap.Error(err))
	}
}

// AssignmentBound notifies the trainer and each newly assigned trainee.
// Trainees already on the assignment are not re-notified.
func (n *Notifier) AssignmentBound(ctx context.Context, a models.Assignment, trainerName string, newTraineeIDs []primitive.ObjectID) {
	noteType := models.NotifyAssignmentUpdated
	title := "Assignment updated"
	if a.TotalTrainees == len(newTraineeIDs) && !a.IsAcknowledged {
		noteType = models.NotifyAssignmentCreated
		title = "New assignment"
	}

	n.send(ctx, models.Notification{
		RecipientID:   a.TrainerID,
		RecipientRole: models.RoleTrainer,
		Type:          noteType,
		Title:         title,
		Message:       fmt.Sprintf("You have %d trainee(s) assigned to you.", a.TotalTrainees),
		Priority:      models.PriorityHigh,
		RelatedID:     &a.ID,
		RelatedType:   "assignment",
	})

	for _, traineeID := range newTraineeIDs {
		n.send(ctx, models.Notification{
			RecipientID:   traineeID,
			RecipientRole: models.RoleTrainee,
			Type:          noteType,
			Title:         "Trainer assigned",
			Message:       fmt.Sprintf("You have been assigned to trainer %s.", trainerName),
			Priority:      models.PriorityNormal,
			RelatedID:     &a.ID,
			RelatedType:   "assignment",
		})
	}
}

// AssignmentCompleted notifies the trainer and every trainee that the
// assignment has been closed out.
func (n *Notifier) AssignmentCompleted(ctx context.Context, a models.Assignment) {
	n.send(ctx, models.Notification{
		RecipientID:   a.TrainerID,
		RecipientRole: models.RoleTrainer,
		Type:          models.NotifyAssignmentCompleted,
		Title:         "Assignment completed",
		Message:       fmt.Sprintf("Your assignment with %d trainee(s) has been completed.", a.TotalTrainees),
		Priority:      models.PriorityNormal,
		RelatedID:     &a.ID,
		RelatedType:   "assignment",
	})

	for _, traineeID := range a.TraineeIDs {
		n.send(ctx, models.Notification{
			RecipientID:   traineeID,
			RecipientRole: models.RoleTrainee,
			Type:          models.NotifyAssignmentCompleted,
			Title:         "Assignment completed",
			Message:       "Your training assignment has been completed.",
			Priority:      models.PriorityNormal,
			RelatedID:     &a.ID,
			RelatedType:   "assignment",
		})
	}
}

// DayPlanSubmitted tells the reviewer an end-of-day update is waiting.
func (n *Notifier) DayPlanSubmitted(ctx context.Context, plan models.DayPlan, reviewerID primitive.ObjectID, ownerName string) {
	n.send(ctx, models.Notification{
		RecipientID:   reviewerID,
		RecipientRole: models.RoleTrainer,
		Type:          models.NotifyDayPlanSubmitted,
		Title:         "Day plan awaiting review",
		Message:       fmt.Sprintf("%s submitted an end-of-day update for %s.", ownerName, plan.PlanDate),
		Priority:      models.PriorityNormal,
		RelatedID:     &plan.ID,
		RelatedType:   "day_plan",
	})
}

// DayPlanReviewed tells the owner their plan was approved or rejected.
func (n *Notifier) DayPlanReviewed(ctx context.Context, plan models.DayPlan) {
	msg := fmt.Sprintf("Your day plan for %s was approved.", plan.PlanDate)
	priority := models.PriorityNormal
	if plan.Review != nil && plan.Review.Decision == models.ReviewRejected {
		msg = fmt.Sprintf("Your day plan for %s was rejected. Please revise and resubmit.", plan.PlanDate)
		priority = models.PriorityHigh
	}
	n.send(ctx, models.Notification{
		RecipientID:   plan.OwnerID,
		RecipientRole: plan.OwnerRole,
		Type:          models.NotifyDayPlanReviewed,
		Title:         "Day plan reviewed",
		Message:       msg,
		Priority:      priority,
		RelatedID:     &plan.ID,
		RelatedType:   "day_plan",
	})
}
