package taskapimodels

import (
	"time"

	"estate-office-backend/models"
	apimodels "estate-office-backend/models/api"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
)

type TaskData struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	AssigneeID  string              `json:"assignee_id"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	Tags        []string            `json:"tags"`
}

func (r TaskData) Validate() error {
	if r.Title == "" {
		return errors.New("не указано название задачи")
	}
	if r.AssigneeID == "" {
		return errors.New("не указан исполнитель задачи")
	}
	if r.Priority != "" && !r.Priority.IsValid() {
		return errors.Errorf("неизвестный приоритет: %v", r.Priority)
	}
	return nil
}

type TaskTransitionData struct {
	Status models.TaskStatus `json:"status"`
}

func (r TaskTransitionData) Validate() error {
	if !r.Status.IsValid() {
		return errors.Errorf("неизвестный статус: %v", r.Status)
	}
	return nil
}

type TaskReportData struct {
	Description string   `json:"description"`
	Links       []string `json:"links"`
}

func (r TaskReportData) Validate() error {
	if r.Description == "" {
		return errors.New("не указано описание выполненной работы")
	}
	return nil
}

type TaskCommentData struct {
	Comment string `json:"comment"`
}

func (r TaskCommentData) Validate() error {
	if r.Comment == "" {
		return errors.New("пустой комментарий")
	}
	return nil
}

type TaskFilter struct {
	apimodels.Pagination
	AssigneeID string              `json:"assignee_id"`
	Status     models.TaskStatus   `json:"status"`
	Priority   models.TaskPriority `json:"priority"`
	Search     string              `json:"search"`  // поиск по названию
	Overdue    bool                `json:"overdue"` // только просроченные
}

func (r TaskFilter) Validate() error {
	if r.Status != "" && !r.Status.IsValid() {
		return errors.Errorf("неизвестный статус: %v", r.Status)
	}
	if r.Priority != "" && !r.Priority.IsValid() {
		return errors.Errorf("неизвестный приоритет: %v", r.Priority)
	}
	return nil
}

type TaskView struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	AssigneeID        string              `json:"assignee_id"`
	AssigneeName      string              `json:"assignee_name,omitempty"`
	Priority          models.TaskPriority `json:"priority"`
	PriorityName      string              `json:"priority_name"`
	Status            models.TaskStatus   `json:"status"`
	StatusName        string              `json:"status_name"`
	DueDate           *time.Time          `json:"due_date,omitempty"`
	CompletedAt       *time.Time          `json:"completed_at,omitempty"`
	Tags              []string            `json:"tags,omitempty"`
	ReportDescription string              `json:"report_description,omitempty"`
	ReportLinks       []string            `json:"report_links,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

func TaskConvert(rec dbmodels.Task) TaskView {
	view := TaskView{
		ID:                rec.ID,
		Title:             rec.Title,
		Description:       rec.Description,
		AssigneeID:        rec.AssigneeID,
		Priority:          rec.Priority,
		PriorityName:      rec.Priority.ToHuman(),
		Status:            rec.Status,
		StatusName:        rec.Status.ToHuman(),
		DueDate:           rec.DueDate,
		CompletedAt:       rec.CompletedAt,
		Tags:              rec.Tags,
		ReportDescription: rec.ReportDescription,
		ReportLinks:       rec.ReportLinks,
		CreatedAt:         rec.CreatedAt,
	}
	if rec.Assignee != nil && rec.Assignee.User != nil {
		view.AssigneeName = rec.Assignee.User.GetFullName()
	}
	return view
}

type TaskCommentView struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"author_name"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func TaskCommentConvert(rec dbmodels.TaskComment) TaskCommentView {
	return TaskCommentView{
		ID:         rec.ID,
		AuthorName: rec.AuthorName,
		Comment:    rec.Comment,
		CreatedAt:  rec.CreatedAt,
	}
}
