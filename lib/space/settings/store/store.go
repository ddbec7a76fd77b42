package spacesettingsstore

import (
	"estate-office-backend/models"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetByCode(spaceID string, code models.SpaceSettingCode) (rec *dbmodels.SpaceSetting, err error)
	List(spaceID string) (list []dbmodels.SpaceSetting, err error)
	Set(spaceID string, code models.SpaceSettingCode, value string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByCode(spaceID string, code models.SpaceSettingCode) (*dbmodels.SpaceSetting, error) {
	rec := dbmodels.SpaceSetting{}
	err := i.db.
		Where("space_id = ?", spaceID).
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

func (i impl) List(spaceID string) (list []dbmodels.SpaceSetting, err error) {
	err = i.db.
		Where("space_id = ?", spaceID).
		Order("code ASC").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) Set(spaceID string, code models.SpaceSettingCode, value string) error {
	rec, err := i.GetByCode(spaceID, code)
	if err != nil {
		return err
	}
	if rec == nil {
		newRec := dbmodels.SpaceSetting{
			SpaceID: spaceID,
			Name:    dbmodels.DefaultSettingsMap[code].Name,
			Code:    code,
			Value:   value,
		}
		return i.db.Create(&newRec).Error
	}
	return i.db.
		Model(&dbmodels.SpaceSetting{}).
		Where("id = ?", rec.ID).
		Update("value", value).
		Error
}
