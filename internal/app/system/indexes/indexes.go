// Package indexes reconciles the desired index set for every collection at
// startup. Each ensure* function is idempotent; errors are aggregated so any
// problem is visible and startup can fail fast.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll is called at startup.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureAssignments(ctx, db); err != nil {
		problems = append(problems, "assignments: "+err.Error())
	}
	if err := ensureDayPlans(ctx, db); err != nil {
		problems = append(problems, "day_plans: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

// ensureIndexSet makes the collection's indexes match the desired models:
// reuse an existing index with the same keys and options, drop & recreate on
// an options mismatch, create when missing.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	existing := map[string]existingIndex{} // key signature -> index
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
		cur.Close(ctx)
	}

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}
			// Options mismatch (e.g. upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email must be unique across the whole directory
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},

		// External author id is unique when present (sparse: legacy records lack it)
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_users_authorid"),
		},

		// Role-scoped lists (trainee rosters, trainer directories)
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "full_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_users_role_active_fullnameci_id"),
		},

		// Reverse lookup: all trainees currently linked to a trainer
		{
			Keys:    bson.D{{Key: "assigned_trainer", Value: 1}},
			Options: options.Index().SetName("idx_users_assigned_trainer"),
		},

		// Campus rosters
		{
			Keys:    bson.D{{Key: "campus", Value: 1}, {Key: "role", Value: 1}},
			Options: options.Index().SetName("idx_users_campus_role"),
		},
	})
}

func ensureAssignments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("assignments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// At most one ACTIVE assignment per trainer, enforced by the storage
		// layer. This closes the lookup-before-create race: a concurrent
		// duplicate bind loses with E11000 instead of creating a second
		// active ledger row.
		{
			Keys: bson.D{{Key: "trainer_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "status", Value: "active"}}).
				SetName("uniq_assignments_trainer_active"),
		},

		// Master trainer's assignment lists
		{
			Keys:    bson.D{{Key: "master_trainer_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_assignments_master_created"),
		},

		// Reporting: filter by status, newest first
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_assignments_status_created"),
		},

		// Trainee membership lookup (which assignment covers this trainee)
		{
			Keys:    bson.D{{Key: "trainee_ids", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_assignments_trainees_status"),
		},
	})
}

func ensureDayPlans(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("day_plans")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One plan per owner per date
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "plan_date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_dayplans_owner_date"),
		},

		// Review queues: plans by status, newest date first
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "plan_date", Value: -1}},
			Options: options.Index().SetName("idx_dayplans_status_date"),
		},

		// Owner history
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_dayplans_owner_status"),
		},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("notifications")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-recipient inbox, newest first
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_notifications_recipient_created"),
		},

		// Unread counts
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "is_read", Value: 1}},
			Options: options.Index().SetName("idx_notifications_recipient_read"),
		},
	})
}
