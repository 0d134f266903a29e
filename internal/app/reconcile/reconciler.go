// Package reconcile owns every write to the assignment ledger and to the
// denormalized relationship fields on users (assigned_trainer on trainees,
// assigned_trainees on trainers). All other packages treat those fields as
// read-only; routing the writes through one place is what keeps the two
// sides of the relationship consistent with the ledger.
//
// Ordering is guard, then mutate, then notify: validation happens before
// any write, ledger and user writes happen inside one transactional run,
// and notifications go out only after the writes succeed (and are
// best-effort even then).
package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

// Directory is the slice of the user store the reconciler needs.
type Directory interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetTrainerByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SetAssignedTrainer(ctx context.Context, traineeIDs []primitive.ObjectID, trainerID *primitive.ObjectID) error
	SetAssignedTrainees(ctx context.Context, trainerID primitive.ObjectID, traineeIDs []primitive.ObjectID) error
	TrainersWithTrainees(ctx context.Context) ([]models.User, error)
	TraineesLinkedTo(ctx context.Context, trainerID primitive.ObjectID) ([]models.User, error)
}

// Ledger is the slice of the assignment store the reconciler needs.
type Ledger interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Assignment, error)
	FindActiveByTrainer(ctx context.Context, trainerID primitive.ObjectID) (*models.Assignment, error)
	FindActiveByTrainee(ctx context.Context, traineeID primitive.ObjectID) (*models.Assignment, error)
	Create(ctx context.Context, a models.Assignment) (models.Assignment, error)
	ReplaceTrainees(ctx context.Context, id primitive.ObjectID, traineeIDs []primitive.ObjectID, modifiedBy primitive.ObjectID) error
	Close(ctx context.Context, id primitive.ObjectID, status string, closedBy primitive.ObjectID, endDate time.Time) (*models.Assignment, error)
	ListActive(ctx context.Context) ([]models.Assignment, error)
}

// Notifier receives post-mutation events. *notify.Notifier satisfies it.
type Notifier interface {
	AssignmentBound(ctx context.Context, a models.Assignment, trainerName string, newTraineeIDs []primitive.ObjectID)
	AssignmentCompleted(ctx context.Context, a models.Assignment)
}

// TxnRunner executes fn transactionally when the server supports it and
// falls back to plain execution when it doesn't (txn.Run curried with the
// mongo client in production).
type TxnRunner func(ctx context.Context, fn func(context.Context) error) error

type Reconciler struct {
	dir      Directory
	ledger   Ledger
	notifier Notifier
	run      TxnRunner
	log      *zap.Logger
}

func New(dir Directory, ledger Ledger, notifier Notifier, run TxnRunner, log *zap.Logger) *Reconciler {
	if run == nil {
		run = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	}
	return &Reconciler{dir: dir, ledger: ledger, notifier: notifier, run: run, log: log}
}

// BindRequest asks for trainees to be bound to a trainer.
type BindRequest struct {
	TrainerID       primitive.ObjectID
	TraineeIDs      []primitive.ObjectID
	MasterTrainerID primitive.ObjectID
	ActorID         primitive.ObjectID
	Notes           string
}

// BindResult reports what Bind did.
type BindResult struct {
	Assignment models.Assignment
	// NewlyAssigned lists trainees that were not already on the trainer's
	// active assignment. Empty on a fully redundant re-bind.
	NewlyAssigned []primitive.ObjectID
	Created       bool
}

// Bind attaches trainees to a trainer. If the trainer already has an active
// assignment the trainee set is unioned onto it, so re-binding the same
// trainees is idempotent; only newly added trainees get their
// assigned_trainer pointer written and a notification.
func (rc *Reconciler) Bind(ctx context.Context, req BindRequest) (*BindResult, error) {
	if len(req.TraineeIDs) == 0 {
		return nil, apperr.New(apperr.Validation, "At least one trainee is required.")
	}
	reqIDs := dedupe(req.TraineeIDs)

	trainer, err := rc.dir.GetTrainerByID(ctx, req.TrainerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "Trainer not found.", err)
	}
	if !trainer.IsActive {
		return nil, apperr.New(apperr.Validation, "Trainer is not active.")
	}

	trainees, err := rc.dir.GetByIDs(ctx, reqIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.User, len(trainees))
	for _, u := range trainees {
		byID[u.ID] = u
	}
	for _, id := range reqIDs {
		u, ok := byID[id]
		if !ok {
			return nil, apperr.Newf(apperr.NotFound, "Trainee %s not found.", id.Hex())
		}
		if u.Role != models.RoleTrainee {
			return nil, apperr.Newf(apperr.Validation, "User %s is not a trainee.", id.Hex())
		}
		if !u.IsActive {
			return nil, apperr.Newf(apperr.Validation, "Trainee %s is not active.", id.Hex())
		}
	}

	// A trainee already active under a different trainer blocks the bind;
	// the caller must complete that assignment first.
	for _, id := range reqIDs {
		other, err := rc.ledger.FindActiveByTrainee(ctx, id)
		if err != nil {
			return nil, err
		}
		if other != nil && other.TrainerID != req.TrainerID {
			return nil, apperr.Newf(apperr.Conflict,
				"Trainee %s is already in an active assignment with another trainer.", id.Hex())
		}
	}

	var result BindResult
	err = rc.run(ctx, func(ctx context.Context) error {
		for attempt := 0; ; attempt++ {
			existing, err := rc.ledger.FindActiveByTrainer(ctx, req.TrainerID)
			if err != nil {
				return err
			}

			if existing == nil {
				a, err := rc.ledger.Create(ctx, models.Assignment{
					MasterTrainerID: req.MasterTrainerID,
					TrainerID:       req.TrainerID,
					TraineeIDs:      reqIDs,
					Status:          models.AssignmentActive,
					Notes:           req.Notes,
					CreatedBy:       req.ActorID,
				})
				if err != nil {
					// A concurrent bind won the create race. The partial
					// unique index guarantees an active row exists now, so
					// re-read once and take the union path instead.
					if apperr.IsConflict(err) && attempt == 0 {
						continue
					}
					return err
				}
				result = BindResult{Assignment: a, NewlyAssigned: reqIDs, Created: true}
			} else {
				merged, newly := union(existing.TraineeIDs, reqIDs)
				if len(newly) > 0 {
					if err := rc.ledger.ReplaceTrainees(ctx, existing.ID, merged, req.ActorID); err != nil {
						return err
					}
				}
				a := *existing
				a.TraineeIDs = merged
				a.TotalTrainees = len(merged)
				a.ActiveTrainees = len(merged)
				result = BindResult{Assignment: a, NewlyAssigned: newly}
			}
			break
		}

		if len(result.NewlyAssigned) > 0 {
			if err := rc.dir.SetAssignedTrainer(ctx, result.NewlyAssigned, &req.TrainerID); err != nil {
				return err
			}
		}
		return rc.dir.SetAssignedTrainees(ctx, req.TrainerID, result.Assignment.TraineeIDs)
	})
	if err != nil {
		return nil, err
	}

	if len(result.NewlyAssigned) > 0 {
		rc.notifier.AssignmentBound(ctx, result.Assignment, trainer.FullName, result.NewlyAssigned)
	}
	return &result, nil
}

// Complete closes an active assignment and detaches both sides of the
// denormalized relationship: every trainee's assigned_trainer is cleared
// and the trainer's assigned_trainees is emptied. A nil endDate stamps the
// close with the current time.
func (rc *Reconciler) Complete(ctx context.Context, assignmentID, actorID primitive.ObjectID, status string, endDate *time.Time) (*models.Assignment, error) {
	if status != models.AssignmentCompleted && status != models.AssignmentCancelled {
		return nil, apperr.Newf(apperr.Validation, "Status must be %q or %q.", models.AssignmentCompleted, models.AssignmentCancelled)
	}
	end := time.Now().UTC()
	if endDate != nil {
		end = endDate.UTC()
	}

	var closed *models.Assignment
	err := rc.run(ctx, func(ctx context.Context) error {
		a, err := rc.ledger.Close(ctx, assignmentID, status, actorID, end)
		if err != nil {
			return err
		}
		closed = a

		if len(a.TraineeIDs) > 0 {
			if err := rc.dir.SetAssignedTrainer(ctx, a.TraineeIDs, nil); err != nil {
				return err
			}
		}
		return rc.dir.SetAssignedTrainees(ctx, a.TrainerID, nil)
	})
	if err != nil {
		return nil, err
	}

	rc.notifier.AssignmentCompleted(ctx, *closed)
	return closed, nil
}

// SyncReport summarizes what SyncFromLedger repaired.
type SyncReport struct {
	AssignmentsChecked int
	TrainersRepaired   int
	TraineesRelinked   int
	TraineesDetached   int
}

func (r SyncReport) String() string {
	return fmt.Sprintf("checked=%d trainers_repaired=%d trainees_relinked=%d trainees_detached=%d",
		r.AssignmentsChecked, r.TrainersRepaired, r.TraineesRelinked, r.TraineesDetached)
}

// SyncFromLedger rebuilds the denormalized fields from the assignment
// ledger, which is the source of truth. It relinks trainees whose pointer
// drifted, detaches trainees pointing at trainers with no active
// assignment covering them, and rewrites stale trainer lists. Running it
// on a consistent database changes nothing.
func (rc *Reconciler) SyncFromLedger(ctx context.Context) (*SyncReport, error) {
	active, err := rc.ledger.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{AssignmentsChecked: len(active)}
	wantTrainer := make(map[primitive.ObjectID]primitive.ObjectID) // trainee -> trainer
	byTrainer := make(map[primitive.ObjectID][]primitive.ObjectID) // trainer -> roster

	for _, a := range active {
		byTrainer[a.TrainerID] = a.TraineeIDs
		for _, id := range a.TraineeIDs {
			wantTrainer[id] = a.TrainerID
		}
	}

	// Pass 1: each active assignment's trainer and trainees.
	for trainerID, roster := range byTrainer {
		trainer, err := rc.dir.GetByID(ctx, trainerID)
		if err != nil {
			rc.log.Warn("sync: trainer in ledger missing from directory",
				zap.String("trainer_id", trainerID.Hex()), zap.Error(err))
			continue
		}
		if !sameIDSet(trainer.AssignedTrainees, roster) {
			if err := rc.dir.SetAssignedTrainees(ctx, trainerID, roster); err != nil {
				return report, err
			}
			report.TrainersRepaired++
		}

		trainees, err := rc.dir.GetByIDs(ctx, roster)
		if err != nil {
			return report, err
		}
		var relink []primitive.ObjectID
		for _, u := range trainees {
			if u.AssignedTrainer == nil || *u.AssignedTrainer != trainerID {
				relink = append(relink, u.ID)
			}
		}
		if len(relink) > 0 {
			if err := rc.dir.SetAssignedTrainer(ctx, relink, &trainerID); err != nil {
				return report, err
			}
			report.TraineesRelinked += len(relink)
		}

		// Trainees pointing here that the ledger doesn't back.
		linked, err := rc.dir.TraineesLinkedTo(ctx, trainerID)
		if err != nil {
			return report, err
		}
		var detach []primitive.ObjectID
		for _, u := range linked {
			if wantTrainer[u.ID] != trainerID {
				detach = append(detach, u.ID)
			}
		}
		if len(detach) > 0 {
			if err := rc.dir.SetAssignedTrainer(ctx, detach, nil); err != nil {
				return report, err
			}
			report.TraineesDetached += len(detach)
		}
	}

	// Pass 2: trainers carrying a roster with no active assignment behind it.
	staleTrainers, err := rc.dir.TrainersWithTrainees(ctx)
	if err != nil {
		return report, err
	}
	for _, trainer := range staleTrainers {
		if _, inLedger := byTrainer[trainer.ID]; inLedger {
			continue
		}
		if err := rc.dir.SetAssignedTrainees(ctx, trainer.ID, nil); err != nil {
			return report, err
		}
		report.TrainersRepaired++

		linked, err := rc.dir.TraineesLinkedTo(ctx, trainer.ID)
		if err != nil {
			return report, err
		}
		var detach []primitive.ObjectID
		for _, u := range linked {
			if _, stillWanted := wantTrainer[u.ID]; !stillWanted {
				detach = append(detach, u.ID)
			}
		}
		if len(detach) > 0 {
			if err := rc.dir.SetAssignedTrainer(ctx, detach, nil); err != nil {
				return report, err
			}
			report.TraineesDetached += len(detach)
		}
	}

	return report, nil
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// union merges add into base preserving base order, returning the merged
// set and the ids that were not already present.
func union(base, add []primitive.ObjectID) (merged, newly []primitive.ObjectID) {
	seen := make(map[primitive.ObjectID]struct{}, len(base))
	merged = make([]primitive.ObjectID, 0, len(base)+len(add))
	for _, id := range base {
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, id := range add {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
		newly = append(newly, id)
	}
	return merged, newly
}

func sameIDSet(a, b []primitive.ObjectID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[primitive.ObjectID]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
