package pushdatastore

import (
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.PushData) (id string, err error)
	ListByUser(userID string, onlyUnread bool) (list []dbmodels.PushData, err error)
	MarkRead(userID, id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.PushData) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListByUser(userID string, onlyUnread bool) (list []dbmodels.PushData, err error) {
	tx := i.db.
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if onlyUnread {
		tx = tx.Where("is_read = false")
	}
	err = tx.Find(&list).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) MarkRead(userID, id string) error {
	return i.db.
		Model(&dbmodels.PushData{}).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Update("is_read", true).
		Error
}
