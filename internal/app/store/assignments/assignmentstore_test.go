package assignmentstore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	assignmentstore "github.com/dalemusser/trainhub/internal/app/store/assignments"
	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/app/system/indexes"
	"github.com/dalemusser/trainhub/internal/domain/models"
	"github.com/dalemusser/trainhub/internal/testutil"
)

func TestCreate_SetsCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	master := testutil.CreateMasterTrainer(t, db, "Master")
	trainer := testutil.CreateTrainer(t, db, "Trainer")
	t1 := testutil.CreateTrainee(t, db, "T1")
	t2 := testutil.CreateTrainee(t, db, "T2")

	s := assignmentstore.New(db)
	a, err := s.Create(ctx, models.Assignment{
		MasterTrainerID: master.ID,
		TrainerID:       trainer.ID,
		TraineeIDs:      []primitive.ObjectID{t1.ID, t2.ID},
		Status:          models.AssignmentActive,
		CreatedBy:       master.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.TotalTrainees != 2 || a.ActiveTrainees != 2 {
		t.Errorf("counts = %d/%d, want 2/2", a.TotalTrainees, a.ActiveTrainees)
	}
	if a.AssignmentDate.IsZero() || a.CreatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestCreate_SecondActiveForTrainerConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	master := testutil.CreateMasterTrainer(t, db, "Master")
	trainer := testutil.CreateTrainer(t, db, "Trainer")
	trainee := testutil.CreateTrainee(t, db, "T1")

	s := assignmentstore.New(db)
	base := models.Assignment{
		MasterTrainerID: master.ID,
		TrainerID:       trainer.ID,
		TraineeIDs:      []primitive.ObjectID{trainee.ID},
		Status:          models.AssignmentActive,
	}
	if _, err := s.Create(ctx, base); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := s.Create(ctx, base)
	if !apperr.IsConflict(err) {
		t.Errorf("err = %v, want Conflict", err)
	}
}

func TestCreate_CompletedDoesNotBlockNewActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	master := testutil.CreateMasterTrainer(t, db, "Master")
	trainer := testutil.CreateTrainer(t, db, "Trainer")
	trainee := testutil.CreateTrainee(t, db, "T1")

	s := assignmentstore.New(db)
	a, err := s.Create(ctx, models.Assignment{
		MasterTrainerID: master.ID,
		TrainerID:       trainer.ID,
		TraineeIDs:      []primitive.ObjectID{trainee.ID},
		Status:          models.AssignmentActive,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.Close(ctx, a.ID, models.AssignmentCompleted, master.ID, time.Now().UTC()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// The partial index only covers active records, so a fresh active
	// assignment for the same trainer is fine.
	if _, err := s.Create(ctx, models.Assignment{
		MasterTrainerID: master.ID,
		TrainerID:       trainer.ID,
		TraineeIDs:      []primitive.ObjectID{trainee.ID},
		Status:          models.AssignmentActive,
	}); err != nil {
		t.Errorf("Create after Close failed: %v", err)
	}
}

func TestClose_NotActiveConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	master := testutil.CreateMasterTrainer(t, db, "Master")
	trainer := testutil.CreateTrainer(t, db, "Trainer")
	a := testutil.CreateAssignment(t, db, master.ID, trainer.ID)

	s := assignmentstore.New(db)
	if _, err := s.Close(ctx, a.ID, models.AssignmentCompleted, master.ID, time.Now().UTC()); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	_, err := s.Close(ctx, a.ID, models.AssignmentCompleted, master.ID, time.Now().UTC())
	if !apperr.IsConflict(err) {
		t.Errorf("second Close err = %v, want Conflict", err)
	}
}

func TestClose_StampsGivenEndDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	master := testutil.CreateMasterTrainer(t, db, "Master")
	trainer := testutil.CreateTrainer(t, db, "Trainer")
	a := testutil.CreateAssignment(t, db, master.ID, trainer.ID)

	s := assignmentstore.New(db)
	endDate := time.Date(2026, 8, 15, 17, 0, 0, 0, time.UTC)
	closed, err := s.Close(ctx, a.ID, models.AssignmentCompleted, master.ID, endDate)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if closed.EndDate == nil || !closed.EndDate.Equal(endDate) {
		t.Errorf("EndDate = %v, want %v", closed.EndDate, endDate)
	}
}

func TestClose_MissingIsNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := assignmentstore.New(db)
	_, err := s.Close(ctx, primitive.NewObjectID(), models.AssignmentCancelled, primitive.NewObjectID(), time.Now().UTC())
	if !apperr.IsNotFound(err) {
		t.Errorf("err = %v, want NotFound", err)
	}
}

func TestFindActiveByTrainer_NoneIsNil(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := assignmentstore.New(db)
	a, err := s.FindActiveByTrainer(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("FindActiveByTrainer failed: %v", err)
	}
	if a != nil {
		t.Errorf("got %v, want nil", a)
	}
}

func TestAcknowledge_ScopedToTrainer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	master := testutil.CreateMasterTrainer(t, db, "Master")
	trainer := testutil.CreateTrainer(t, db, "Trainer")
	other := testutil.CreateTrainer(t, db, "Other")
	a := testutil.CreateAssignment(t, db, master.ID, trainer.ID)

	s := assignmentstore.New(db)
	if err := s.Acknowledge(ctx, a.ID, other.ID); !apperr.IsNotFound(err) {
		t.Errorf("foreign trainer ack err = %v, want NotFound", err)
	}
	if err := s.Acknowledge(ctx, a.ID, trainer.ID); err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}

	got, err := s.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsAcknowledged || got.AcknowledgedAt == nil {
		t.Error("acknowledgement not recorded")
	}
}

func TestList_FilterByStatusAndTrainer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	master := testutil.CreateMasterTrainer(t, db, "Master")
	trainer := testutil.CreateTrainer(t, db, "Trainer")
	other := testutil.CreateTrainer(t, db, "Other")
	testutil.CreateAssignment(t, db, master.ID, trainer.ID)
	testutil.CreateAssignment(t, db, master.ID, other.ID)

	s := assignmentstore.New(db)
	got, err := s.List(ctx, assignmentstore.ListFilter{
		TrainerID: &trainer.ID,
		Status:    models.AssignmentActive,
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].TrainerID != trainer.ID {
		t.Errorf("List = %v, want one for trainer", got)
	}
}

func TestFindActiveByTrainee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	master := testutil.CreateMasterTrainer(t, db, "Master")
	trainer := testutil.CreateTrainer(t, db, "Trainer")
	trainee := testutil.CreateTrainee(t, db, "T1")
	want := testutil.CreateAssignment(t, db, master.ID, trainer.ID, trainee.ID)

	s := assignmentstore.New(db)
	got, err := s.FindActiveByTrainee(ctx, trainee.ID)
	if err != nil {
		t.Fatalf("FindActiveByTrainee failed: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Errorf("got %v, want %v", got, want.ID)
	}
}
