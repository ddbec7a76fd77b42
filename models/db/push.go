package dbmodels

import "estate-office-backend/models"

type SpacePushSetting struct {
	BaseSpaceModel
	SpaceUserID string                      `gorm:"type:varchar(36);index:idx_push_user"`
	Code        models.SpacePushSettingCode `gorm:"type:varchar(255);index:idx_push_user"`
	SystemValue *bool
	EmailValue  *bool
}

type PushData struct {
	BaseModel
	UserID string                      `gorm:"type:varchar(36);index:idx_push_data_user"`
	Code   models.SpacePushSettingCode `gorm:"type:varchar(255)"`
	Title  string
	Msg    string
	Link   string `gorm:"type:varchar(500)"`
	IsRead bool
}
