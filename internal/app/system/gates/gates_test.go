package gates_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRequireAuth_NoUser(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/assignments", nil)

	res := gates.RequireAuth(rec, req)
	if res.OK {
		t.Error("expected OK=false without a user")
	}
	if rec.Code != 401 {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAnyRole(t *testing.T) {
	uid := primitive.NewObjectID()

	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantOK   bool
		wantCode int
	}{
		{"match", "boa", []string{"boa", "admin"}, true, 200},
		{"no match", "trainee", []string{"boa", "admin"}, false, 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/assignments/sync", nil)
			req = auth.WithTestUser(req, &auth.SessionUser{ID: uid.Hex(), Name: "Sam", Role: tt.role})

			res := gates.RequireAnyRole(rec, req, "nope", tt.allowed...)
			if res.OK != tt.wantOK {
				t.Errorf("OK = %v, want %v", res.OK, tt.wantOK)
			}
			if !tt.wantOK && rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantOK && res.UserID != uid {
				t.Errorf("UserID = %v, want %v", res.UserID, uid)
			}
		})
	}
}

func TestRequireAssignmentManager(t *testing.T) {
	for role, want := range map[string]bool{"master_trainer": true, "boa": true, "admin": true, "trainer": false} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/assignments", nil)
		req = auth.WithTestUser(req, &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: role})
		if got := gates.RequireAssignmentManager(rec, req).OK; got != want {
			t.Errorf("RequireAssignmentManager(%s) = %v, want %v", role, got, want)
		}
	}
}
