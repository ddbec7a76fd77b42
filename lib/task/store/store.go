package taskstore

import (
	"estate-office-backend/models"
	taskapimodels "estate-office-backend/models/api/task"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Task) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.Task, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	Delete(spaceID, id string) error
	List(spaceID string, filter taskapimodels.TaskFilter) (list []dbmodels.Task, err error)
	ListCount(spaceID string, filter taskapimodels.TaskFilter) (count int64, err error)
	// ListOverdueOpen - незавершенные задачи с истекшим сроком по всем
	// пространствам, для фоновых напоминаний
	ListOverdueOpen(limit int) (list []dbmodels.Task, err error)
	CreateComment(rec dbmodels.TaskComment) (id string, err error)
	ListComments(spaceID, taskID string) (list []dbmodels.TaskComment, err error)
	CreateHistory(rec dbmodels.TaskHistory) error
	ListHistory(spaceID, taskID string) (list []dbmodels.TaskHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Task) (id string, err error) {
	err = i.db.
		Omit("Assignee").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Task, error) {
	rec := dbmodels.Task{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload("Assignee.User").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Task{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
}

func (i impl) Delete(spaceID, id string) error {
	rec := dbmodels.Task{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   spaceID,
		},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) listQuery(spaceID string, filter taskapimodels.TaskFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.Task{}).
		Where("space_id = ?", spaceID)
	if filter.AssigneeID != "" {
		tx = tx.Where("assignee_id = ?", filter.AssigneeID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		tx = tx.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		tx = tx.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Overdue {
		tx = tx.
			Where("due_date IS NOT NULL").
			Where("(completed_at IS NULL AND due_date < NOW()) OR completed_at > due_date")
	}
	return tx
}

func (i impl) List(spaceID string, filter taskapimodels.TaskFilter) (list []dbmodels.Task, err error) {
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	err = i.listQuery(spaceID, filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("Assignee.User").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter taskapimodels.TaskFilter) (count int64, err error) {
	err = i.listQuery(spaceID, filter).
		Count(&count).
		Error
	return count, err
}

func (i impl) ListOverdueOpen(limit int) (list []dbmodels.Task, err error) {
	err = i.db.
		Where("status <> ?", models.TaskStatusCompleted).
		Where("due_date IS NOT NULL").
		Where("due_date < NOW()").
		Order("due_date ASC").
		Limit(limit).
		Preload("Assignee").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) CreateComment(rec dbmodels.TaskComment) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListComments(spaceID, taskID string) (list []dbmodels.TaskComment, err error) {
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) CreateHistory(rec dbmodels.TaskHistory) error {
	return i.db.Create(&rec).Error
}

func (i impl) ListHistory(spaceID, taskID string) (list []dbmodels.TaskHistory, err error) {
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}
