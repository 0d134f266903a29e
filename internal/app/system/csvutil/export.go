// internal/app/system/csvutil/export.go
package csvutil

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/trainhub/internal/domain/models"
)

// WriteAssignments streams assignments as CSV. resolveName maps a user id
// to a display name; unknown ids fall back to the hex id.
func WriteAssignments(w io.Writer, list []models.Assignment, resolveName func(primitive.ObjectID) string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Assignment ID", "Master Trainer", "Trainer", "Trainees", "Status",
		"Total Trainees", "Acknowledged", "Created At",
	}); err != nil {
		return err
	}

	name := func(id primitive.ObjectID) string {
		if resolveName != nil {
			if n := resolveName(id); n != "" {
				return n
			}
		}
		return id.Hex()
	}

	for _, a := range list {
		trainees := make([]string, len(a.TraineeIDs))
		for i, id := range a.TraineeIDs {
			trainees[i] = name(id)
		}
		if err := cw.Write([]string{
			a.ID.Hex(),
			name(a.MasterTrainerID),
			name(a.TrainerID),
			strings.Join(trainees, "; "),
			a.Status,
			strconv.Itoa(a.TotalTrainees),
			strconv.FormatBool(a.IsAcknowledged),
			a.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
