package notificationstore

import (
	"context"
	"time"

	"github.com/dalemusser/trainhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// Insert stores a notification for one recipient.
func (s *Store) Insert(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()
	if n.Priority == "" {
		n.Priority = models.PriorityNormal
	}
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// ListByRecipient returns the recipient's notifications, newest first.
// unreadOnly restricts to unread; limit caps the result (0 means 50).
func (s *Store) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool, limit int64) ([]models.Notification, error) {
	q := bson.M{"recipient_id": recipientID}
	if unreadOnly {
		q["is_read"] = false
	}
	if limit <= 0 {
		limit = 50
	}

	cur, err := s.c.Find(ctx, q, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountUnread returns the recipient's unread count for badge display.
func (s *Store) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
}

// MarkRead flags one notification as read. Scoped to the recipient so users
// cannot touch each other's notifications.
func (s *Store) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "recipient_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Already read or not theirs; either way nothing to do.
		n := s.c.FindOne(ctx, bson.M{"_id": id, "recipient_id": recipientID})
		if n.Err() == mongo.ErrNoDocuments {
			return mongo.ErrNoDocuments
		}
	}
	return nil
}

// MarkAllRead flags every unread notification for the recipient.
func (s *Store) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteReadOlderThan removes read notifications created before the cutoff.
// The prune job runs this periodically.
func (s *Store) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"is_read": true, "created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
