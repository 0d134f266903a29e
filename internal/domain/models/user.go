// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Directory roles. BOA is the back-office administration role that handles
// onboarding and campus allocation.
const (
	RoleTrainee       = "trainee"
	RoleTrainer       = "trainer"
	RoleMasterTrainer = "master_trainer"
	RoleBOA           = "boa"
	RoleAdmin         = "admin"
)

// User represents every person in the directory: trainees, trainers,
// master trainers, BOA staff, and admins.
//
// NOTE:
//   - AssignedTrainer and AssignedTrainees are denormalized views of the
//     assignments ledger, kept so dashboards can read relationships without
//     a join. Only the reconcile package may write them; everything else
//     treats them as read-only.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID   string             `bson:"author_id,omitempty" json:"author_id,omitempty"` // stable external id from the upstream identity system
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password_hash,omitempty" json:"-"`
	Role       string             `bson:"role" json:"role"` // trainee | trainer | master_trainer | boa | admin
	IsActive   bool               `bson:"is_active" json:"is_active"`
	Campus     string             `bson:"campus,omitempty" json:"campus,omitempty"`

	// Denormalized relationship fields (see note above).
	AssignedTrainer  *primitive.ObjectID  `bson:"assigned_trainer,omitempty" json:"assigned_trainer,omitempty"`
	AssignedTrainees []primitive.ObjectID `bson:"assigned_trainees,omitempty" json:"assigned_trainees,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidRole reports whether role is one of the known directory roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleTrainee, RoleTrainer, RoleMasterTrainer, RoleBOA, RoleAdmin:
		return true
	}
	return false
}
