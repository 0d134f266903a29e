package assignmentstore

import (
	"context"
	"time"

	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignments")}
}

// GetByID loads a single assignment record.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Assignment, error) {
	var a models.Assignment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "Assignment not found.")
		}
		return nil, err
	}
	return &a, nil
}

// FindActiveByTrainer returns the trainer's active assignment, or nil when
// none exists. At most one can exist; the partial unique index enforces it.
func (s *Store) FindActiveByTrainer(ctx context.Context, trainerID primitive.ObjectID) (*models.Assignment, error) {
	var a models.Assignment
	err := s.c.FindOne(ctx, bson.M{"trainer_id": trainerID, "status": models.AssignmentActive}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new assignment record. A duplicate-key error from the
// partial unique index means a concurrent writer created an active
// assignment for the same trainer first; that surfaces as a Conflict.
func (s *Store) Create(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	a.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	a.CreatedAt = now
	if a.AssignmentDate.IsZero() {
		a.AssignmentDate = now
	}
	a.TotalTrainees = len(a.TraineeIDs)
	a.ActiveTrainees = len(a.TraineeIDs)

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Assignment{}, apperr.New(apperr.Conflict, "This trainer already has an active assignment.")
		}
		return models.Assignment{}, err
	}
	return a, nil
}

// ReplaceTrainees updates the trainee roster and counts on an existing
// assignment, recording who modified it.
func (s *Store) ReplaceTrainees(ctx context.Context, id primitive.ObjectID, traineeIDs []primitive.ObjectID, modifiedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"trainee_ids":     traineeIDs,
		"total_trainees":  len(traineeIDs),
		"active_trainees": len(traineeIDs),
		"modified_by":     modifiedBy,
		"modified_at":     now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Assignment not found.")
	}
	return nil
}

// SetNotes updates free-text notes on an assignment.
func (s *Store) SetNotes(ctx context.Context, id primitive.ObjectID, notes string, modifiedBy primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"notes":       notes,
		"modified_by": modifiedBy,
		"modified_at": time.Now().UTC(),
	}})
	return err
}

// Close transitions an active assignment to the given terminal status
// (completed or cancelled) and stamps the caller's end date. Returns
// NotFound if the assignment is missing, Conflict if it is not active.
func (s *Store) Close(ctx context.Context, id primitive.ObjectID, status string, closedBy primitive.ObjectID, endDate time.Time) (*models.Assignment, error) {
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.AssignmentActive},
		bson.M{"$set": bson.M{
			"status":      status,
			"end_date":    endDate.UTC(),
			"modified_by": closedBy,
			"modified_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var a models.Assignment
	if err := res.Decode(&a); err != nil {
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
		// Distinguish "gone" from "already closed".
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, apperr.New(apperr.Conflict, "Assignment is not active.")
	}
	return &a, nil
}

// Acknowledge marks the assignment as seen by its trainer.
func (s *Store) Acknowledge(ctx context.Context, id, trainerID primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "trainer_id": trainerID},
		bson.M{"$set": bson.M{"is_acknowledged": true, "acknowledged_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Assignment not found.")
	}
	return nil
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	MasterTrainerID *primitive.ObjectID
	TrainerID       *primitive.ObjectID
	Status          string
}

// List returns assignments matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Assignment, error) {
	q := bson.M{}
	if f.MasterTrainerID != nil {
		q["master_trainer_id"] = *f.MasterTrainerID
	}
	if f.TrainerID != nil {
		q["trainer_id"] = *f.TrainerID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}

	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActive returns every active assignment. The drift-repair job walks
// this to rebuild denormalized links from the ledger.
func (s *Store) ListActive(ctx context.Context) ([]models.Assignment, error) {
	return s.List(ctx, ListFilter{Status: models.AssignmentActive})
}

// FindActiveByTrainee returns the active assignment containing the trainee,
// or nil when none does.
func (s *Store) FindActiveByTrainee(ctx context.Context, traineeID primitive.ObjectID) (*models.Assignment, error) {
	var a models.Assignment
	err := s.c.FindOne(ctx, bson.M{"trainee_ids": traineeID, "status": models.AssignmentActive}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
