// internal/app/features/dayplans/views.go
package dayplans

import (
	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/domain/models"
)

type taskView struct {
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Remarks     string `json:"remarks,omitempty"`
}

type planViewData struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"owner_id"`
	OwnerRole string            `json:"owner_role"`
	PlanDate  string            `json:"plan_date"`
	Status    string            `json:"status"`
	Tasks     []taskView        `json:"tasks"`
	EODUpdate *models.EODUpdate `json:"eod_update,omitempty"`
	Review    *reviewView       `json:"review,omitempty"`
}

type reviewView struct {
	ReviewerID string `json:"reviewer_id"`
	Decision   string `json:"decision"`
	Feedback   string `json:"feedback,omitempty"`
	ReviewedAt string `json:"reviewed_at"`
}

func planView(p models.DayPlan) planViewData {
	tasks := make([]taskView, len(p.Tasks))
	for i, t := range p.Tasks {
		tasks[i] = taskView{
			TaskID:      t.TaskID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Remarks:     t.Remarks,
		}
	}
	v := planViewData{
		ID:        p.ID.Hex(),
		OwnerID:   p.OwnerID.Hex(),
		OwnerRole: p.OwnerRole,
		PlanDate:  p.PlanDate,
		Status:    p.Status,
		Tasks:     tasks,
		EODUpdate: p.EODUpdate,
	}
	if p.Review != nil {
		v.Review = &reviewView{
			ReviewerID: p.Review.ReviewerID.Hex(),
			Decision:   p.Review.Decision,
			Feedback:   p.Review.Feedback,
			ReviewedAt: p.Review.ReviewedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return v
}

func errValidation(msg string) error {
	return apperr.New(apperr.Validation, msg)
}
