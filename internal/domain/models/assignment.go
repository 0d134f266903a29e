// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment lifecycle states.
const (
	AssignmentActive    = "active"
	AssignmentInactive  = "inactive"
	AssignmentCompleted = "completed"
	AssignmentCancelled = "cancelled"
)

// Assignment is a ledger entry binding a set of trainees to a trainer.
// It is the durable source of truth for trainer↔trainee relationships;
// the denormalized fields on User are derived from it.
//
// A partial unique index on (trainer_id, status=active) guarantees at most
// one active assignment per trainer at the storage layer.
type Assignment struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	MasterTrainerID primitive.ObjectID   `bson:"master_trainer_id" json:"master_trainer_id"`
	TrainerID       primitive.ObjectID   `bson:"trainer_id" json:"trainer_id"`
	TraineeIDs      []primitive.ObjectID `bson:"trainee_ids" json:"trainee_ids"`
	Status          string               `bson:"status" json:"status"` // active | inactive | completed | cancelled
	Notes           string               `bson:"notes,omitempty" json:"notes,omitempty"`

	AssignmentDate time.Time  `bson:"assignment_date" json:"assignment_date"`
	EffectiveDate  time.Time  `bson:"effective_date" json:"effective_date"`
	EndDate        *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`

	TotalTrainees  int `bson:"total_trainees" json:"total_trainees"`
	ActiveTrainees int `bson:"active_trainees" json:"active_trainees"`

	IsAcknowledged bool       `bson:"is_acknowledged" json:"is_acknowledged"`
	AcknowledgedAt *time.Time `bson:"acknowledged_at,omitempty" json:"acknowledged_at,omitempty"`

	// Audit fields
	CreatedBy  primitive.ObjectID  `bson:"created_by" json:"created_by"`
	ModifiedBy *primitive.ObjectID `bson:"modified_by,omitempty" json:"modified_by,omitempty"`
	ModifiedAt *time.Time          `bson:"modified_at,omitempty" json:"modified_at,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
}

// HasTrainee reports whether id is already part of the ledger entry.
func (a *Assignment) HasTrainee(id primitive.ObjectID) bool {
	for _, t := range a.TraineeIDs {
		if t == id {
			return true
		}
	}
	return false
}
