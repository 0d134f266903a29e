package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/trainhub/internal/app/system/normalize"
	"github.com/dalemusser/trainhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "trainee"|"trainer"|"master_trainer"|"boa"|"admin"`)
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetTrainerByID loads a user by ObjectID, returning mongo.ErrNoDocuments if
// the user does not exist or is not a trainer.
func (s *Store) GetTrainerByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": models.RoleTrainer}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads all users whose _id is in ids. The result order is not
// guaranteed; missing ids are simply absent from the slice.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new user after normalizing & validating fields.
// It never writes the denormalized relationship fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	u.Campus = normalize.Campus(u.Campus)
	u.AssignedTrainer = nil
	u.AssignedTrainees = nil

	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Role       string
	Campus     string
	ActiveOnly bool
}

// List returns directory entries matching the filter, sorted by folded name.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.User, error) {
	q := bson.M{}
	if f.Role != "" {
		q["role"] = normalize.Role(f.Role)
	}
	if f.Campus != "" {
		q["campus"] = normalize.Campus(f.Campus)
	}
	if f.ActiveOnly {
		q["is_active"] = true
	}

	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive flips the is_active flag.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetCampus records a campus allocation for a user.
func (s *Store) SetCampus(ctx context.Context, id primitive.ObjectID, campus string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"campus":     normalize.Campus(campus),
		"updated_at": time.Now().UTC(),
	}})
	return err
}

/* -------------------------------------------------------------------------- */
/* Denormalized relationship writes — reconcile package only                   */
/* -------------------------------------------------------------------------- */

// SetAssignedTrainer points each trainee in traineeIDs at trainerID. A nil
// trainerID clears the link. Activity status is never touched here; the
// reconcile package validates it before any trainee is linked. Only the
// reconcile package may call this.
func (s *Store) SetAssignedTrainer(ctx context.Context, traineeIDs []primitive.ObjectID, trainerID *primitive.ObjectID) error {
	if len(traineeIDs) == 0 {
		return nil
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	if trainerID != nil {
		set["assigned_trainer"] = *trainerID
	}
	update := bson.M{"$set": set}
	if trainerID == nil {
		update["$unset"] = bson.M{"assigned_trainer": ""}
	}
	_, err := s.c.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": traineeIDs}}, update)
	return err
}

// SetAssignedTrainees replaces the trainer's denormalized trainee list.
// Pass an empty slice to clear it. Only the reconcile package may call this.
func (s *Store) SetAssignedTrainees(ctx context.Context, trainerID primitive.ObjectID, traineeIDs []primitive.ObjectID) error {
	if traineeIDs == nil {
		traineeIDs = []primitive.ObjectID{}
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": trainerID}, bson.M{"$set": bson.M{
		"assigned_trainees": traineeIDs,
		"updated_at":        time.Now().UTC(),
	}})
	return err
}

// TrainersWithTrainees returns trainers whose denormalized trainee list is
// non-empty. Used by the sync repair to find trainers with stale lists.
func (s *Store) TrainersWithTrainees(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"role":              models.RoleTrainer,
		"assigned_trainees": bson.M{"$exists": true, "$ne": bson.A{}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TraineesLinkedTo returns trainees whose assigned_trainer currently points
// at trainerID. Used by the sync repair to find stale links.
func (s *Store) TraineesLinkedTo(ctx context.Context, trainerID primitive.ObjectID) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"assigned_trainer": trainerID, "role": models.RoleTrainee})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
