package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/trainhub/internal/domain/models"
)

var fixtureSeq int64

func nextSeq() int64 {
	fixtureSeq++
	return fixtureSeq
}

// CreateUser inserts a user document directly, bypassing store validation.
// Fixture users are active by default.
func CreateUser(t *testing.T, db *mongo.Database, role, name string) models.User {
	t.Helper()

	seq := nextSeq()
	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      fmt.Sprintf("user%d@example.test", seq),
		Role:       role,
		IsActive:   true,
		Campus:     "main",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.Collection("users").InsertOne(ctx, u); err != nil {
		t.Fatalf("insert fixture user: %v", err)
	}
	return u
}

func CreateTrainee(t *testing.T, db *mongo.Database, name string) models.User {
	t.Helper()
	return CreateUser(t, db, models.RoleTrainee, name)
}

func CreateTrainer(t *testing.T, db *mongo.Database, name string) models.User {
	t.Helper()
	return CreateUser(t, db, models.RoleTrainer, name)
}

func CreateMasterTrainer(t *testing.T, db *mongo.Database, name string) models.User {
	t.Helper()
	return CreateUser(t, db, models.RoleMasterTrainer, name)
}

func CreateBOA(t *testing.T, db *mongo.Database, name string) models.User {
	t.Helper()
	return CreateUser(t, db, models.RoleBOA, name)
}

// CreateAssignment inserts an active assignment document directly.
func CreateAssignment(t *testing.T, db *mongo.Database, masterID, trainerID primitive.ObjectID, traineeIDs ...primitive.ObjectID) models.Assignment {
	t.Helper()

	now := time.Now().UTC()
	a := models.Assignment{
		ID:              primitive.NewObjectID(),
		MasterTrainerID: masterID,
		TrainerID:       trainerID,
		TraineeIDs:      traineeIDs,
		Status:          models.AssignmentActive,
		AssignmentDate:  now,
		EffectiveDate:   now,
		TotalTrainees:   len(traineeIDs),
		ActiveTrainees:  len(traineeIDs),
		CreatedBy:       masterID,
		CreatedAt:       now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.Collection("assignments").InsertOne(ctx, a); err != nil {
		t.Fatalf("insert fixture assignment: %v", err)
	}
	return a
}
