package dbmodels

import (
	"github.com/pkg/errors"
)

type Department struct {
	BaseSpaceModel
	ParentID string `gorm:"type:varchar(36);index"`
	Name     string `gorm:"type:varchar(255)"`
}

func (d *Department) Validate() error {
	if err := d.BaseSpaceModel.Validate(); err != nil {
		return err
	}
	if d.Name == "" {
		return errors.New("не указано название подразделения")
	}
	return nil
}
