package hrpolicystore

import (
	"time"

	"estate-office-backend/models"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.HRPolicy) (id string, err error)
	Save(rec dbmodels.HRPolicy) error
	GetByID(spaceID, id string) (rec *dbmodels.HRPolicy, err error)
	SetActive(spaceID, id string, isActive bool) error
	List(spaceID string, policyType models.PolicyType) (list []dbmodels.HRPolicy, err error)
	// GetApplicable - действующая политика типа на момент now; при нескольких
	// подходящих побеждает ревизия с наиболее поздним effective_from
	GetApplicable(spaceID string, policyType models.PolicyType, now time.Time) (rec *dbmodels.HRPolicy, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.HRPolicy) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Save(rec dbmodels.HRPolicy) error {
	return i.db.Save(&rec).Error
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.HRPolicy, error) {
	rec := dbmodels.HRPolicy{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
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

func (i impl) SetActive(spaceID, id string, isActive bool) error {
	return i.db.
		Model(&dbmodels.HRPolicy{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Update("is_active", isActive).
		Error
}

func (i impl) List(spaceID string, policyType models.PolicyType) (list []dbmodels.HRPolicy, err error) {
	tx := i.db.
		Where("space_id = ?", spaceID).
		Order("type ASC, effective_from DESC")
	if policyType != "" {
		tx = tx.Where("type = ?", policyType)
	}
	err = tx.Find(&list).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) GetApplicable(spaceID string, policyType models.PolicyType, now time.Time) (*dbmodels.HRPolicy, error) {
	rec := dbmodels.HRPolicy{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("type = ?", policyType).
		Where("is_active = true").
		Where("effective_from <= ?", now).
		Where("effective_to IS NULL OR effective_to > ?", now).
		Order("effective_from DESC").
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
