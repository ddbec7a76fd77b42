package dbmodels

import (
	"time"

	"estate-office-backend/models"

	"gorm.io/gorm"
)

type Task struct {
	BaseSpaceModel
	Title       string        `gorm:"type:varchar(255)"`
	Description string        `gorm:"type:text"`
	AssigneeID  string        `gorm:"type:varchar(36);index"`
	Assignee    *StaffProfile `gorm:"foreignKey:AssigneeID"`
	// создателем может быть администратор без профиля сотрудника
	CreatorUserID *string             `gorm:"type:varchar(36)"`
	Priority      models.TaskPriority `gorm:"type:varchar(10)"`
	Status        models.TaskStatus   `gorm:"type:varchar(20);index"`
	DueDate       *time.Time
	CompletedAt   *time.Time
	Tags          StringSlice `gorm:"type:jsonb"`
	// материалы, приложенные при отправке на проверку
	ReportDescription string         `gorm:"type:text"`
	ReportLinks       StringSlice    `gorm:"type:jsonb"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// IsOverdue - задача завершена позже срока либо не завершена после срока
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.CompletedAt != nil {
		return t.CompletedAt.After(*t.DueDate)
	}
	return now.After(*t.DueDate)
}

// DaysLate - на сколько полных и неполных дней просрочено завершение
func (t Task) DaysLate(completedAt time.Time) int {
	if t.DueDate == nil || !completedAt.After(*t.DueDate) {
		return 0
	}
	late := completedAt.Sub(*t.DueDate)
	days := int(late / (24 * time.Hour))
	if late%(24*time.Hour) > 0 {
		days++
	}
	return days
}

type TaskComment struct {
	BaseSpaceModel
	TaskID       string `gorm:"type:varchar(36);index"`
	AuthorUserID string `gorm:"type:varchar(36)"`
	AuthorName   string `gorm:"type:varchar(305)"`
	Comment      string `gorm:"type:text"`
}

type TaskHistory struct {
	BaseSpaceModel
	TaskID     string         `gorm:"type:varchar(36);index"`
	UserID     *string        `gorm:"type:varchar(36)"`
	UserName   string         `gorm:"type:varchar(305)"`
	ActionType TaskActionType `gorm:"type:varchar(50)"`
	Changes    EntityChanges  `gorm:"type:jsonb"`
}

type TaskActionType string

const (
	TaskHistoryCreated      TaskActionType = "created"       // Задача создана
	TaskHistoryStatusChange TaskActionType = "status_change" // Смена статуса
	TaskHistoryReport       TaskActionType = "report"        // Отправлена на проверку
	TaskHistoryReopened     TaskActionType = "reopened"      // Переоткрыта администратором
	TaskHistoryComment      TaskActionType = "comment"       // Добавлен комментарий
)
