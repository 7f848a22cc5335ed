package mailer

import (
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/notify"
)

const dueDateLayout = "2006-01-02"

// digestRequest is the JSON body accepted by the mail function.
type digestRequest struct {
	To     string       `json:"to"`
	Name   string       `json:"name"`
	Period string       `json:"period"`
	Tasks  []digestTask `json:"tasks"`
}

type digestTask struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	DueDate     *string `json:"due_date"`
}

func newDigestRequest(email, name string, tasks []domain.Task, isMorning bool) digestRequest {
	req := digestRequest{
		To:     email,
		Name:   name,
		Period: notify.Period(isMorning),
		Tasks:  make([]digestTask, 0, len(tasks)),
	}
	for _, t := range tasks {
		item := digestTask{
			ID:          t.ID.String(),
			Title:       t.Title,
			Description: t.Description,
		}
		if t.DueDate != nil {
			due := t.DueDate.Format(dueDateLayout)
			item.DueDate = &due
		}
		req.Tasks = append(req.Tasks, item)
	}
	return req
}
