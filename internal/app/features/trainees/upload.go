// internal/app/features/trainees/upload.go
package trainees

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	uierrors "github.com/dalemusser/trainhub/internal/app/features/errors"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/csvutil"
	"github.com/dalemusser/trainhub/internal/app/system/gates"
	"github.com/dalemusser/trainhub/internal/app/system/respond"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

type uploadResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// HandleUploadCSV handles POST /trainees/upload_csv (multipart field
// "file"): bulk onboarding from a Full Name,Email,Campus CSV. Rows that
// fail validation or collide on email are reported, not fatal; each created
// account gets a random initial password that must be reset out of band.
func (h *Handler) HandleUploadCSV(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireBackOffice(w, r)
	if !g.OK {
		return
	}

	if err := r.ParseMultipartForm(csvutil.MaxUploadSize); err != nil {
		uierrors.RenderBadRequest(w, "Upload is not valid multipart form data.")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		uierrors.RenderBadRequest(w, `A CSV file is required in the "file" field.`)
		return
	}
	defer file.Close()

	parsed, err := csvutil.ParseTraineeCSV(file)
	if err != nil {
		uierrors.RenderBadRequest(w, "Could not parse the CSV: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	result := uploadResult{Errors: parsed.Errors, Skipped: len(parsed.Errors)}
	for _, row := range parsed.Rows {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "trainees: upload hash", err, "Bulk onboarding failed.")
			return
		}
		_, err = h.Users.Create(ctx, models.User{
			FullName: row.FullName,
			Email:    row.Email,
			Password: string(hash),
			Role:     models.RoleTrainee,
			IsActive: true,
			Campus:   row.Campus,
		})
		switch {
		case err == userstore.ErrDuplicateEmail:
			result.Skipped++
			result.Errors = append(result.Errors, row.Email+": already exists")
		case err != nil:
			h.ErrLog.LogServerError(w, r, "trainees: upload create", err, "Bulk onboarding failed.")
			return
		default:
			result.Created++
		}
	}

	respond.Data(w, result)
}
