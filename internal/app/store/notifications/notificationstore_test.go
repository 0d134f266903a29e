package notificationstore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	notificationstore "github.com/dalemusser/trainhub/internal/app/store/notifications"
	"github.com/dalemusser/trainhub/internal/domain/models"
	"github.com/dalemusser/trainhub/internal/testutil"
)

func TestInsert_DefaultsPriority(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := notificationstore.New(db)
	n, err := s.Insert(ctx, models.Notification{
		RecipientID:   primitive.NewObjectID(),
		RecipientRole: models.RoleTrainer,
		Type:          models.NotifyAssignmentCreated,
		Title:         "New assignment",
		Message:       "You have new trainees.",
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if n.Priority != models.PriorityNormal {
		t.Errorf("Priority = %q, want normal", n.Priority)
	}
	if n.IsRead {
		t.Error("new notification should be unread")
	}
}

func TestMarkRead_ScopedToRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	s := notificationstore.New(db)
	n, err := s.Insert(ctx, models.Notification{
		RecipientID: owner,
		Type:        models.NotifyDayPlanReviewed,
		Title:       "Plan reviewed",
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := s.MarkRead(ctx, n.ID, stranger); err == nil {
		t.Error("expected error marking someone else's notification read")
	}
	if err := s.MarkRead(ctx, n.ID, owner); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	unread, err := s.CountUnread(ctx, owner)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}
}

func TestMarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	s := notificationstore.New(db)
	for i := 0; i < 3; i++ {
		if _, err := s.Insert(ctx, models.Notification{
			RecipientID: owner,
			Type:        models.NotifyAssignmentUpdated,
			Title:       "Update",
		}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	n, err := s.MarkAllRead(ctx, owner)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if n != 3 {
		t.Errorf("modified = %d, want 3", n)
	}
}

func TestListByRecipient_UnreadOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	s := notificationstore.New(db)
	read, err := s.Insert(ctx, models.Notification{RecipientID: owner, Type: models.NotifyAssignmentCreated, Title: "A"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := s.Insert(ctx, models.Notification{RecipientID: owner, Type: models.NotifyAssignmentCreated, Title: "B"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.MarkRead(ctx, read.ID, owner); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	got, err := s.ListByRecipient(ctx, owner, true, 0)
	if err != nil {
		t.Fatalf("ListByRecipient failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "B" {
		t.Errorf("unread list = %v, want just B", got)
	}
}

func TestDeleteReadOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	s := notificationstore.New(db)
	n, err := s.Insert(ctx, models.Notification{RecipientID: owner, Type: models.NotifyAssignmentCompleted, Title: "Old"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.MarkRead(ctx, n.ID, owner); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	// Cutoff in the future catches the just-created read notification.
	deleted, err := s.DeleteReadOlderThan(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteReadOlderThan failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}
