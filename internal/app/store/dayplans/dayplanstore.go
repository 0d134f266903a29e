package dayplanstore

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
	return &Store{c: db.Collection("day_plans")}
}

// Create inserts a new plan. One plan per owner per date; a duplicate-key
// error from the unique index surfaces as Conflict.
func (s *Store) Create(ctx context.Context, p models.DayPlan) (models.DayPlan, error) {
	p.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = models.DayPlanDraft
	}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.DayPlan{}, apperr.New(apperr.Conflict, "A plan already exists for this date.")
		}
		return models.DayPlan{}, err
	}
	return p, nil
}

// GetByID loads a single plan.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.DayPlan, error) {
	var p models.DayPlan
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "Day plan not found.")
		}
		return nil, err
	}
	return &p, nil
}

// GetByOwnerDate loads the owner's plan for a date (YYYY-MM-DD), or nil when
// none exists.
func (s *Store) GetByOwnerDate(ctx context.Context, ownerID primitive.ObjectID, planDate string) (*models.DayPlan, error) {
	var p models.DayPlan
	err := s.c.FindOne(ctx, bson.M{"owner_id": ownerID, "plan_date": planDate}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplaceTasks updates the task list on a plan the owner is still editing.
// Plans that already have an EOD update submitted cannot be edited.
func (s *Store) ReplaceTasks(ctx context.Context, id, ownerID primitive.ObjectID, tasks []models.PlanTask) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":      id,
			"owner_id": ownerID,
			"status":   bson.M{"$in": bson.A{models.DayPlanDraft, models.DayPlanInProgress}},
		},
		bson.M{"$set": bson.M{
			"tasks":      tasks,
			"status":     models.DayPlanInProgress,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return apperr.New(apperr.Conflict, "This plan can no longer be edited.")
	}
	return nil
}

// SubmitEOD writes the final task states and the end-of-day update, and
// moves the plan to pending review. Only the owner may submit, and only
// once. The caller resolves task updates against the stored plan first;
// tasks here is the full post-update list.
func (s *Store) SubmitEOD(ctx context.Context, id, ownerID primitive.ObjectID, tasks []models.PlanTask, eod models.EODUpdate) error {
	eod.Status = models.EODSubmitted
	eod.SubmittedAt = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":      id,
			"owner_id": ownerID,
			"status":   bson.M{"$in": bson.A{models.DayPlanDraft, models.DayPlanInProgress, models.DayPlanRejected}},
		},
		bson.M{"$set": bson.M{
			"tasks":      tasks,
			"eod_update": eod,
			"status":     models.DayPlanPending,
			"updated_at": eod.SubmittedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return apperr.New(apperr.Conflict, "An end-of-day update has already been submitted for this plan.")
	}
	return nil
}

// Review records the reviewer's decision on a pending plan. Approval
// completes the plan; rejection sends it back to the owner for resubmission.
func (s *Store) Review(ctx context.Context, id primitive.ObjectID, review models.PlanReview) error {
	review.ReviewedAt = time.Now().UTC()
	next := models.DayPlanRejected
	if review.Decision == models.ReviewApproved {
		next = models.DayPlanCompleted
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.DayPlanPending},
		bson.M{"$set": bson.M{
			"review":     review,
			"status":     next,
			"updated_at": review.ReviewedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return apperr.New(apperr.Conflict, "This plan is not awaiting review.")
	}
	return nil
}

// Publish moves a trainer's own plan from draft or in_progress to published.
// Trainer plans skip the review queue; publishing is how a trainer shares
// the plan with their trainees.
func (s *Store) Publish(ctx context.Context, id, ownerID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":        id,
			"owner_id":   ownerID,
			"owner_role": models.RoleTrainer,
			"status":     bson.M{"$in": bson.A{models.DayPlanDraft, models.DayPlanInProgress}},
		},
		bson.M{"$set": bson.M{"status": models.DayPlanPublished, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return apperr.New(apperr.Conflict, "Only your own draft plans can be published.")
	}
	return nil
}

// MarkCompleted closes out the owner's published plan.
func (s *Store) MarkCompleted(ctx context.Context, id, ownerID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "owner_id": ownerID, "status": models.DayPlanPublished},
		bson.M{"$set": bson.M{"status": models.DayPlanCompleted, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return apperr.New(apperr.Conflict, "Only your own published plans can be completed.")
	}
	return nil
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	OwnerID  *primitive.ObjectID
	OwnerIDs []primitive.ObjectID
	Status   string
	PlanDate string
}

// List returns plans matching the filter, most recent date first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.DayPlan, error) {
	q := bson.M{}
	if f.OwnerID != nil {
		q["owner_id"] = *f.OwnerID
	} else if len(f.OwnerIDs) > 0 {
		q["owner_id"] = bson.M{"$in": f.OwnerIDs}
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.PlanDate != "" {
		q["plan_date"] = f.PlanDate
	}

	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "plan_date", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.DayPlan
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
