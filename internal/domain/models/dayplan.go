// internal/domain/models/dayplan.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Day-plan lifecycle states. Trainee plans move draft → in_progress →
// pending → completed|rejected; trainer plans move draft → published →
// completed.
const (
	DayPlanDraft      = "draft"
	DayPlanInProgress = "in_progress"
	DayPlanPending    = "pending"
	DayPlanPublished  = "published"
	DayPlanCompleted  = "completed"
	DayPlanRejected   = "rejected"
)

// EOD review decisions.
const (
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// EODSubmitted is the nested eod_update status once the owner submits.
const EODSubmitted = "submitted"

// PlanTask is a single task inside a day plan. TaskID is assigned when the
// plan is created and is how EOD updates reference tasks.
type PlanTask struct {
	TaskID      string `bson:"task_id" json:"task_id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Status      string `bson:"status" json:"status"` // pending | done | blocked | skipped
	Remarks     string `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// EODUpdate is the trainee's end-of-day report nested in the plan.
type EODUpdate struct {
	Status      string    `bson:"status" json:"status"` // submitted
	Summary     string    `bson:"summary,omitempty" json:"summary,omitempty"`
	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}

// PlanReview records the trainer's decision on a submitted EOD update.
type PlanReview struct {
	ReviewerID primitive.ObjectID `bson:"reviewer_id" json:"reviewer_id"`
	Decision   string             `bson:"decision" json:"decision"` // approved | rejected
	Feedback   string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	ReviewedAt time.Time          `bson:"reviewed_at" json:"reviewed_at"`
}

// DayPlan is one owner's plan for a single date. PlanDate is a YYYY-MM-DD
// string so the unique (owner_id, plan_date) index is timezone-proof.
type DayPlan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	OwnerRole string             `bson:"owner_role" json:"owner_role"` // trainee | trainer
	PlanDate  string             `bson:"plan_date" json:"plan_date"`
	Status    string             `bson:"status" json:"status"`
	Tasks     []PlanTask         `bson:"tasks" json:"tasks"`
	EODUpdate *EODUpdate         `bson:"eod_update,omitempty" json:"eod_update,omitempty"`
	Review    *PlanReview        `bson:"review,omitempty" json:"review,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
