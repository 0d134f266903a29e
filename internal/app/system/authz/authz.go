// Package authz exposes the current request's user identity and role checks
// built on top of the auth session context.
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "visitor", "", NilObjectID, false — so ok=true always means a
// valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsBOA reports whether the current request's user is back-office admin.
func IsBOA(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "boa"
}

// IsMasterTrainer reports whether the current request's user is a master trainer.
func IsMasterTrainer(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "master_trainer"
}

// IsTrainer reports whether the current request's user is a trainer.
func IsTrainer(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "trainer"
}

// IsTrainee reports whether the current request's user is a trainee.
func IsTrainee(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "trainee"
}

// CanManageAssignments reports whether the current user may create, complete,
// or sync assignments. Master trainers own the workflow; BOA and admin can
// act on any assignment.
func CanManageAssignments(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == "master_trainer" || role == "boa" || role == "admin"
}

// CanOverrideAssignment reports whether the current user may act on an
// assignment they do not own (complete another master trainer's assignment).
func CanOverrideAssignment(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == "boa" || role == "admin")
}
