package dbmodels

import (
	"estate-office-backend/models"
)

type SpaceSetting struct {
	BaseModel
	SpaceID string                  `gorm:"type:varchar(36);index:idx_setting_code"`
	Name    string                  `gorm:"type:varchar(255)"`
	Code    models.SpaceSettingCode `gorm:"type:varchar(255);index:idx_setting_code"`
	Value   string                  `gorm:"type:varchar(500)"`
}

var DefaultTaxPercentSetting = SpaceSetting{
	SpaceID: "",
	Name:    "процент налога от валового дохода",
	Code:    models.TaxPercentSetting,
	Value:   "",
}

var DefaultPensionPercentSetting = SpaceSetting{
	SpaceID: "",
	Name:    "процент пенсионных отчислений от валового дохода",
	Code:    models.PensionPercentSetting,
	Value:   "",
}

var DefaultSpaceSenderEmail = SpaceSetting{
	SpaceID: "",
	Name:    "почта, с которой отправляются уведомления сотрудникам",
	Code:    models.SpaceSenderEmail,
	Value:   "",
}

var DefaultSettingsMap = map[models.SpaceSettingCode]SpaceSetting{
	models.TaxPercentSetting:     DefaultTaxPercentSetting,
	models.PensionPercentSetting: DefaultPensionPercentSetting,
	models.SpaceSenderEmail:      DefaultSpaceSenderEmail,
}
