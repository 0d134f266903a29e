package reconcile_test

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/trainhub/internal/app/reconcile"
	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

/* in-memory fakes */

type fakeDirectory struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[primitive.ObjectID]*models.User{}}
}

func (d *fakeDirectory) add(role string, active bool) primitive.ObjectID {
	id := primitive.NewObjectID()
	d.users[id] = &models.User{ID: id, FullName: "User " + id.Hex()[:6], Role: role, IsActive: active}
	return id
}

func (d *fakeDirectory) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (d *fakeDirectory) GetTrainerByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := d.users[id]
	if !ok || u.Role != models.RoleTrainer {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (d *fakeDirectory) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) SetAssignedTrainer(_ context.Context, traineeIDs []primitive.ObjectID, trainerID *primitive.ObjectID) error {
	for _, id := range traineeIDs {
		if u, ok := d.users[id]; ok {
			u.AssignedTrainer = trainerID
		}
	}
	return nil
}

func (d *fakeDirectory) SetAssignedTrainees(_ context.Context, trainerID primitive.ObjectID, traineeIDs []primitive.ObjectID) error {
	if u, ok := d.users[trainerID]; ok {
		u.AssignedTrainees = traineeIDs
	}
	return nil
}

func (d *fakeDirectory) TrainersWithTrainees(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range d.users {
		if u.Role == models.RoleTrainer && len(u.AssignedTrainees) > 0 {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) TraineesLinkedTo(_ context.Context, trainerID primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, u := range d.users {
		if u.Role == models.RoleTrainee && u.AssignedTrainer != nil && *u.AssignedTrainer == trainerID {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeLedger struct {
	records map[primitive.ObjectID]*models.Assignment
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: map[primitive.ObjectID]*models.Assignment{}}
}

func (l *fakeLedger) GetByID(_ context.Context, id primitive.ObjectID) (*models.Assignment, error) {
	a, ok := l.records[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Assignment not found.")
	}
	cp := *a
	return &cp, nil
}

func (l *fakeLedger) FindActiveByTrainer(_ context.Context, trainerID primitive.ObjectID) (*models.Assignment, error) {
	for _, a := range l.records {
		if a.TrainerID == trainerID && a.Status == models.AssignmentActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) FindActiveByTrainee(_ context.Context, traineeID primitive.ObjectID) (*models.Assignment, error) {
	for _, a := range l.records {
		if a.Status == models.AssignmentActive && a.HasTrainee(traineeID) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) Create(_ context.Context, a models.Assignment) (models.Assignment, error) {
	for _, existing := range l.records {
		if existing.TrainerID == a.TrainerID && existing.Status == models.AssignmentActive {
			return models.Assignment{}, apperr.New(apperr.Conflict, "This trainer already has an active assignment.")
		}
	}
	a.ID = primitive.NewObjectID()
	a.TotalTrainees = len(a.TraineeIDs)
	a.ActiveTrainees = len(a.TraineeIDs)
	cp := a
	l.records[a.ID] = &cp
	return a, nil
}

func (l *fakeLedger) ReplaceTrainees(_ context.Context, id primitive.ObjectID, traineeIDs []primitive.ObjectID, _ primitive.ObjectID) error {
	a, ok := l.records[id]
	if !ok {
		return apperr.New(apperr.NotFound, "Assignment not found.")
	}
	a.TraineeIDs = traineeIDs
	a.TotalTrainees = len(traineeIDs)
	a.ActiveTrainees = len(traineeIDs)
	return nil
}

func (l *fakeLedger) Close(_ context.Context, id primitive.ObjectID, status string, _ primitive.ObjectID, endDate time.Time) (*models.Assignment, error) {
	a, ok := l.records[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Assignment not found.")
	}
	if a.Status != models.AssignmentActive {
		return nil, apperr.New(apperr.Conflict, "Assignment is not active.")
	}
	a.Status = status
	a.EndDate = &endDate
	cp := *a
	return &cp, nil
}

func (l *fakeLedger) ListActive(_ context.Context) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range l.records {
		if a.Status == models.AssignmentActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	bound     [][]primitive.ObjectID
	completed []primitive.ObjectID
}

func (n *recordingNotifier) AssignmentBound(_ context.Context, _ models.Assignment, _ string, newTraineeIDs []primitive.ObjectID) {
	n.bound = append(n.bound, newTraineeIDs)
}

func (n *recordingNotifier) AssignmentCompleted(_ context.Context, a models.Assignment) {
	n.completed = append(n.completed, a.ID)
}

// lostRaceLedger hides the trainer's active assignment from the first
// FindActiveByTrainer call, simulating a concurrent bind landing between
// the read and the create.
type lostRaceLedger struct {
	*fakeLedger
	misses int
}

func (l *lostRaceLedger) FindActiveByTrainer(ctx context.Context, trainerID primitive.ObjectID) (*models.Assignment, error) {
	if l.misses > 0 {
		l.misses--
		return nil, nil
	}
	return l.fakeLedger.FindActiveByTrainer(ctx, trainerID)
}

func newReconciler(dir *fakeDirectory, ledger reconcile.Ledger, n reconcile.Notifier) *reconcile.Reconciler {
	return reconcile.New(dir, ledger, n, nil, zap.NewNop())
}

// checkConsistent verifies the bidirectional invariant against the ledger.
func checkConsistent(t *testing.T, dir *fakeDirectory, ledger *fakeLedger) {
	t.Helper()

	wantTrainer := map[primitive.ObjectID]primitive.ObjectID{}
	wantRoster := map[primitive.ObjectID]map[primitive.ObjectID]bool{}
	for _, a := range ledger.records {
		if a.Status != models.AssignmentActive {
			continue
		}
		roster := map[primitive.ObjectID]bool{}
		for _, id := range a.TraineeIDs {
			wantTrainer[id] = a.TrainerID
			roster[id] = true
		}
		wantRoster[a.TrainerID] = roster
	}

	for id, u := range dir.users {
		switch u.Role {
		case models.RoleTrainee:
			want, has := wantTrainer[id]
			if has && (u.AssignedTrainer == nil || *u.AssignedTrainer != want) {
				t.Errorf("trainee %s assigned_trainer = %v, want %v", id.Hex(), u.AssignedTrainer, want)
			}
			if !has && u.AssignedTrainer != nil {
				t.Errorf("trainee %s assigned_trainer = %v, want nil", id.Hex(), u.AssignedTrainer)
			}
		case models.RoleTrainer:
			roster := wantRoster[id]
			if len(u.AssignedTrainees) != len(roster) {
				t.Errorf("trainer %s roster size = %d, want %d", id.Hex(), len(u.AssignedTrainees), len(roster))
				continue
			}
			for _, tid := range u.AssignedTrainees {
				if !roster[tid] {
					t.Errorf("trainer %s roster contains %s not in ledger", id.Hex(), tid.Hex())
				}
			}
		}
	}
}

/* Bind */

func TestBind_CreatesAssignmentAndLinksBothSides(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	notifier := &recordingNotifier{}
	rc := newReconciler(dir, ledger, notifier)

	master := dir.add(models.RoleMasterTrainer, true)
	trainer := dir.add(models.RoleTrainer, true)
	t1 := dir.add(models.RoleTrainee, true)
	t2 := dir.add(models.RoleTrainee, true)

	res, err := rc.Bind(context.Background(), reconcile.BindRequest{
		TrainerID:       trainer,
		TraineeIDs:      []primitive.ObjectID{t1, t2},
		MasterTrainerID: master,
		ActorID:         master,
	})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if !res.Created {
		t.Error("expected Created=true for a fresh bind")
	}
	if len(res.NewlyAssigned) != 2 {
		t.Errorf("NewlyAssigned = %d, want 2", len(res.NewlyAssigned))
	}
	checkConsistent(t, dir, ledger)

	if len(notifier.bound) != 1 || len(notifier.bound[0]) != 2 {
		t.Errorf("notifier.bound = %v, want one event with 2 trainees", notifier.bound)
	}
}

func TestBind_ReBindUnionsAndNotifiesOnlyNew(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	notifier := &recordingNotifier{}
	rc := newReconciler(dir, ledger, notifier)

	master := dir.add(models.RoleMasterTrainer, true)
	trainer := dir.add(models.RoleTrainer, true)
	t1 := dir.add(models.RoleTrainee, true)
	t2 := dir.add(models.RoleTrainee, true)

	ctx := context.Background()
	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{t1}, MasterTrainerID: master, ActorID: master}); err != nil {
		t.Fatalf("first Bind failed: %v", err)
	}

	res, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{t1, t2}, MasterTrainerID: master, ActorID: master})
	if err != nil {
		t.Fatalf("second Bind failed: %v", err)
	}
	if res.Created {
		t.Error("expected Created=false when an active assignment exists")
	}
	if len(res.NewlyAssigned) != 1 || res.NewlyAssigned[0] != t2 {
		t.Errorf("NewlyAssigned = %v, want just t2", res.NewlyAssigned)
	}
	if len(res.Assignment.TraineeIDs) != 2 {
		t.Errorf("merged roster = %d, want 2", len(res.Assignment.TraineeIDs))
	}
	if len(ledger.records) != 1 {
		t.Errorf("ledger has %d records, want 1 (union, not a second assignment)", len(ledger.records))
	}
	checkConsistent(t, dir, ledger)

	// Second event carries only the new trainee.
	if len(notifier.bound) != 2 || len(notifier.bound[1]) != 1 || notifier.bound[1][0] != t2 {
		t.Errorf("notifier.bound = %v, want second event with just t2", notifier.bound)
	}
}

func TestBind_FullyRedundantReBindIsNoOp(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	notifier := &recordingNotifier{}
	rc := newReconciler(dir, ledger, notifier)

	master := dir.add(models.RoleMasterTrainer, true)
	trainer := dir.add(models.RoleTrainer, true)
	t1 := dir.add(models.RoleTrainee, true)

	ctx := context.Background()
	req := reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{t1}, MasterTrainerID: master, ActorID: master}
	if _, err := rc.Bind(ctx, req); err != nil {
		t.Fatalf("first Bind failed: %v", err)
	}

	res, err := rc.Bind(ctx, req)
	if err != nil {
		t.Fatalf("redundant Bind failed: %v", err)
	}
	if len(res.NewlyAssigned) != 0 {
		t.Errorf("NewlyAssigned = %v, want empty", res.NewlyAssigned)
	}
	if len(notifier.bound) != 1 {
		t.Errorf("redundant re-bind should not notify; bound = %v", notifier.bound)
	}
	checkConsistent(t, dir, ledger)
}

func TestBind_DedupesRequestedTrainees(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	rc := newReconciler(dir, ledger, &recordingNotifier{})

	master := dir.add(models.RoleMasterTrainer, true)
	trainer := dir.add(models.RoleTrainer, true)
	t1 := dir.add(models.RoleTrainee, true)

	res, err := rc.Bind(context.Background(), reconcile.BindRequest{
		TrainerID:       trainer,
		TraineeIDs:      []primitive.ObjectID{t1, t1, t1},
		MasterTrainerID: master,
		ActorID:         master,
	})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if len(res.Assignment.TraineeIDs) != 1 {
		t.Errorf("roster = %v, want single entry", res.Assignment.TraineeIDs)
	}
}

func TestBind_GuardFailures(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	rc := newReconciler(dir, ledger, &recordingNotifier{})

	master := dir.add(models.RoleMasterTrainer, true)
	trainer := dir.add(models.RoleTrainer, true)
	inactiveTrainer := dir.add(models.RoleTrainer, false)
	trainee := dir.add(models.RoleTrainee, true)
	inactiveTrainee := dir.add(models.RoleTrainee, false)
	notATrainee := dir.add(models.RoleBOA, true)

	ctx := context.Background()

	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, MasterTrainerID: master, ActorID: master}); !apperr.IsValidation(err) {
		t.Errorf("empty trainees err = %v, want Validation", err)
	}
	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: primitive.NewObjectID(), TraineeIDs: []primitive.ObjectID{trainee}, MasterTrainerID: master, ActorID: master}); !apperr.IsNotFound(err) {
		t.Errorf("missing trainer err = %v, want NotFound", err)
	}
	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: inactiveTrainer, TraineeIDs: []primitive.ObjectID{trainee}, MasterTrainerID: master, ActorID: master}); !apperr.IsValidation(err) {
		t.Errorf("inactive trainer err = %v, want Validation", err)
	}
	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{primitive.NewObjectID()}, MasterTrainerID: master, ActorID: master}); !apperr.IsNotFound(err) {
		t.Errorf("missing trainee err = %v, want NotFound", err)
	}
	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{notATrainee}, MasterTrainerID: master, ActorID: master}); !apperr.IsValidation(err) {
		t.Errorf("non-trainee err = %v, want Validation", err)
	}
	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{inactiveTrainee}, MasterTrainerID: master, ActorID: master}); !apperr.IsValidation(err) {
		t.Errorf("inactive trainee err = %v, want Validation", err)
	}
	if dir.users[inactiveTrainee].AssignedTrainer != nil || dir.users[inactiveTrainee].IsActive {
		t.Error("inactive trainee was linked or reactivated by a rejected bind")
	}

	// Guards fired before any mutation: nothing was written anywhere.
	if len(ledger.records) != 0 {
		t.Errorf("ledger has %d records after failed binds, want 0", len(ledger.records))
	}
	checkConsistent(t, dir, ledger)
}

func TestBind_LostCreateRaceFallsBackToUnion(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	notifier := &recordingNotifier{}

	master := dir.add(models.RoleMasterTrainer, true)
	trainer := dir.add(models.RoleTrainer, true)
	t1 := dir.add(models.RoleTrainee, true)
	t2 := dir.add(models.RoleTrainee, true)

	ctx := context.Background()
	if _, err := newReconciler(dir, ledger, notifier).Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{t1}, MasterTrainerID: master, ActorID: master}); err != nil {
		t.Fatalf("seed Bind failed: %v", err)
	}

	// The second bind reads "no active assignment", loses the create to the
	// one above, and must recover by unioning onto it.
	rc := newReconciler(dir, &lostRaceLedger{fakeLedger: ledger, misses: 1}, notifier)
	res, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{t2}, MasterTrainerID: master, ActorID: master})
	if err != nil {
		t.Fatalf("Bind after lost race failed: %v", err)
	}
	if res.Created {
		t.Error("expected the retry to land on the update path, not a create")
	}
	if len(res.NewlyAssigned) != 1 || res.NewlyAssigned[0] != t2 {
		t.Errorf("NewlyAssigned = %v, want just t2", res.NewlyAssigned)
	}
	if len(ledger.records) != 1 {
		t.Errorf("ledger has %d records, want 1", len(ledger.records))
	}
	checkConsistent(t, dir, ledger)
}

func TestBind_TraineeActiveUnderAnotherTrainerConflicts(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	rc := newReconciler(dir, ledger, &recordingNotifier{})

	master := dir.add(models.RoleMasterTrainer, true)
	trainerA := dir.add(models.RoleTrainer, true)
	trainerB := dir.add(models.RoleTrainer, true)
	trainee := dir.add(models.RoleTrainee, true)

	ctx := context.Background()
	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainerA, TraineeIDs: []primitive.ObjectID{trainee}, MasterTrainerID: master, ActorID: master}); err != nil {
		t.Fatalf("Bind to A failed: %v", err)
	}

	_, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainerB, TraineeIDs: []primitive.ObjectID{trainee}, MasterTrainerID: master, ActorID: master})
	if !apperr.IsConflict(err) {
		t.Errorf("err = %v, want Conflict", err)
	}
	checkConsistent(t, dir, ledger)
}

/* Complete */

func TestComplete_DetachesBothSides(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	notifier := &recordingNotifier{}
	rc := newReconciler(dir, ledger, notifier)

	master := dir.add(models.RoleMasterTrainer, true)
	trainer := dir.add(models.RoleTrainer, true)
	t1 := dir.add(models.RoleTrainee, true)
	t2 := dir.add(models.RoleTrainee, true)

	ctx := context.Background()
	res, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{t1, t2}, MasterTrainerID: master, ActorID: master})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	closed, err := rc.Complete(ctx, res.Assignment.ID, master, models.AssignmentCompleted, nil)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if closed.Status != models.AssignmentCompleted {
		t.Errorf("Status = %q, want completed", closed.Status)
	}

	for _, id := range []primitive.ObjectID{t1, t2} {
		if dir.users[id].AssignedTrainer != nil {
			t.Errorf("trainee %s still linked after Complete", id.Hex())
		}
	}
	if len(dir.users[trainer].AssignedTrainees) != 0 {
		t.Errorf("trainer roster = %v after Complete, want empty", dir.users[trainer].AssignedTrainees)
	}
	checkConsistent(t, dir, ledger)

	if len(notifier.completed) != 1 {
		t.Errorf("completed events = %d, want 1", len(notifier.completed))
	}

	// The trainer is free for a new assignment afterwards.
	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{t1}, MasterTrainerID: master, ActorID: master}); err != nil {
		t.Errorf("Bind after Complete failed: %v", err)
	}
}

func TestComplete_InvalidStatus(t *testing.T) {
	rc := newReconciler(newFakeDirectory(), newFakeLedger(), &recordingNotifier{})
	_, err := rc.Complete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "active", nil)
	if !apperr.IsValidation(err) {
		t.Errorf("err = %v, want Validation", err)
	}
}

func TestComplete_AlreadyClosedConflicts(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	rc := newReconciler(dir, ledger, &recordingNotifier{})

	master := dir.add(models.RoleMasterTrainer, true)
	trainer := dir.add(models.RoleTrainer, true)
	trainee := dir.add(models.RoleTrainee, true)

	ctx := context.Background()
	res, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{trainee}, MasterTrainerID: master, ActorID: master})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if _, err := rc.Complete(ctx, res.Assignment.ID, master, models.AssignmentCancelled, nil); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := rc.Complete(ctx, res.Assignment.ID, master, models.AssignmentCompleted, nil); !apperr.IsConflict(err) {
		t.Errorf("err = %v, want Conflict", err)
	}
}

func TestComplete_HonorsExplicitEndDate(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	rc := newReconciler(dir, ledger, &recordingNotifier{})

	master := dir.add(models.RoleMasterTrainer, true)
	trainer := dir.add(models.RoleTrainer, true)
	trainee := dir.add(models.RoleTrainee, true)

	ctx := context.Background()
	res, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{trainee}, MasterTrainerID: master, ActorID: master})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	endDate := time.Date(2026, 8, 15, 17, 0, 0, 0, time.UTC)
	closed, err := rc.Complete(ctx, res.Assignment.ID, master, models.AssignmentCompleted, &endDate)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if closed.EndDate == nil || !closed.EndDate.Equal(endDate) {
		t.Errorf("EndDate = %v, want %v", closed.EndDate, endDate)
	}
}

/* SyncFromLedger */

func TestSyncFromLedger_NoOpOnConsistentData(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	rc := newReconciler(dir, ledger, &recordingNotifier{})

	master := dir.add(models.RoleMasterTrainer, true)
	trainer := dir.add(models.RoleTrainer, true)
	trainee := dir.add(models.RoleTrainee, true)

	ctx := context.Background()
	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainer, TraineeIDs: []primitive.ObjectID{trainee}, MasterTrainerID: master, ActorID: master}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	report, err := rc.SyncFromLedger(ctx)
	if err != nil {
		t.Fatalf("SyncFromLedger failed: %v", err)
	}
	if report.TrainersRepaired != 0 || report.TraineesRelinked != 0 || report.TraineesDetached != 0 {
		t.Errorf("sync on consistent data repaired things: %s", report)
	}
}

func TestSyncFromLedger_RepairsDrift(t *testing.T) {
	dir := newFakeDirectory()
	ledger := newFakeLedger()
	rc := newReconciler(dir, ledger, &recordingNotifier{})

	master := dir.add(models.RoleMasterTrainer, true)
	trainerA := dir.add(models.RoleTrainer, true)
	trainerB := dir.add(models.RoleTrainer, true)
	t1 := dir.add(models.RoleTrainee, true)
	t2 := dir.add(models.RoleTrainee, true)
	orphan := dir.add(models.RoleTrainee, true)

	ctx := context.Background()
	if _, err := rc.Bind(ctx, reconcile.BindRequest{TrainerID: trainerA, TraineeIDs: []primitive.ObjectID{t1, t2}, MasterTrainerID: master, ActorID: master}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	// Inject drift behind the reconciler's back: t1 points at the wrong
	// trainer, t2's pointer is lost, an orphan points at trainer A with
	// no ledger backing, and trainer B carries a roster with no active
	// assignment at all.
	dir.users[t1].AssignedTrainer = &trainerB
	dir.users[t2].AssignedTrainer = nil
	dir.users[orphan].AssignedTrainer = &trainerA
	dir.users[trainerB].AssignedTrainees = []primitive.ObjectID{orphan}

	report, err := rc.SyncFromLedger(ctx)
	if err != nil {
		t.Fatalf("SyncFromLedger failed: %v", err)
	}
	checkConsistent(t, dir, ledger)

	if report.TraineesRelinked != 2 {
		t.Errorf("TraineesRelinked = %d, want 2 (t1 and t2)", report.TraineesRelinked)
	}
	if report.TraineesDetached == 0 {
		t.Error("expected the orphan to be detached")
	}
	if report.TrainersRepaired == 0 {
		t.Error("expected trainer B's stale roster to be cleared")
	}

	// A second run finds nothing to do.
	report2, err := rc.SyncFromLedger(ctx)
	if err != nil {
		t.Fatalf("second SyncFromLedger failed: %v", err)
	}
	if report2.TrainersRepaired != 0 || report2.TraineesRelinked != 0 || report2.TraineesDetached != 0 {
		t.Errorf("second sync repaired things: %s", report2)
	}
}
