package penaltyfactstore

import (
	"estate-office-backend/models"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.PenaltyFact) (id string, err error)
	GetByID(id string) (rec *dbmodels.PenaltyFact, err error)
	// ListUnprocessed - факты со статусом NEW и FAILED (не исчерпавшие попытки)
	// по всем пространствам, для фоновой дообработки
	ListUnprocessed(maxAttempts, limit int) (list []dbmodels.PenaltyFact, err error)
	MarkStatus(id string, status models.FactStatus, lastError string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.PenaltyFact) (id string, err error) {
	if rec.Status == "" {
		rec.Status = models.FactStatusNew
	}
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.PenaltyFact, error) {
	rec := dbmodels.PenaltyFact{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) ListUnprocessed(maxAttempts, limit int) (list []dbmodels.PenaltyFact, err error) {
	err = i.db.
		Where("status IN ?", []models.FactStatus{models.FactStatusNew, models.FactStatusFailed}).
		Where("attempts < ?", maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) MarkStatus(id string, status models.FactStatus, lastError string) error {
	return i.db.
		Model(&dbmodels.PenaltyFact{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"Status":    status,
			"LastError": lastError,
			"Attempts":  gorm.Expr("attempts + 1"),
		}).
		Error
}
