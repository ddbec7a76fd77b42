package pushsettingsstore

import (
	"estate-office-backend/models"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetByCode(spaceUserID string, code models.SpacePushSettingCode) (rec *dbmodels.SpacePushSetting, err error)
	List(spaceID, spaceUserID string) (list []dbmodels.SpacePushSetting, err error)
	Save(rec dbmodels.SpacePushSetting) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByCode(spaceUserID string, code models.SpacePushSettingCode) (*dbmodels.SpacePushSetting, error) {
	rec := dbmodels.SpacePushSetting{}
	err := i.db.
		Where("space_user_id = ?", spaceUserID).
		Where("code = ?", code).
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

func (i impl) List(spaceID, spaceUserID string) (list []dbmodels.SpacePushSetting, err error) {
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("space_user_id = ?", spaceUserID).
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) Save(rec dbmodels.SpacePushSetting) error {
	return i.db.Save(&rec).Error
}
