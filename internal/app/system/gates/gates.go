// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, writing the JSON error
// envelope when checks fail.
//
// Route groups with uniform role requirements use auth.RequireRole
// middleware instead; gates are for handlers that sit on mixed-access
// routes or need the caller's identity alongside the check.
package gates

import (
	"net/http"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role   string
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireAuth ensures a user is authenticated.
// If not, it writes a 401 envelope and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireAnyRole ensures the user is authenticated and has one of the
// specified roles. Not signed in → 401; wrong role → 403 with forbiddenMsg.
func RequireAnyRole(w http.ResponseWriter, r *http.Request, forbiddenMsg string, allowedRoles ...string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w)
		return Result{OK: false}
	}

	for _, allowed := range allowedRoles {
		if role == allowed {
			return Result{Role: role, Name: name, UserID: uid, OK: true}
		}
	}

	uierrors.RenderForbidden(w, forbiddenMsg)
	return Result{OK: false}
}

// RequireAssignmentManager ensures the user may mutate assignments
// (master_trainer, boa, admin).
func RequireAssignmentManager(w http.ResponseWriter, r *http.Request) Result {
	return RequireAnyRole(w, r, "Only master trainers and back-office admins can manage assignments.",
		"master_trainer", "boa", "admin")
}

// RequireBackOffice ensures the user is BOA or admin.
func RequireBackOffice(w http.ResponseWriter, r *http.Request) Result {
	return RequireAnyRole(w, r, "Only back-office admins can perform this operation.",
		"boa", "admin")
}
