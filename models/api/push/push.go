package pushapimodels

import (
	"time"

	"estate-office-backend/models"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
)

type NotificationView struct {
	ID        string                      `json:"id"`
	Code      models.SpacePushSettingCode `json:"code"`
	Title     string                      `json:"title"`
	Msg       string                      `json:"msg"`
	Link      string                      `json:"link,omitempty"`
	IsRead    bool                        `json:"is_read"`
	CreatedAt time.Time                   `json:"created_at"`
}

func NotificationConvert(rec dbmodels.PushData) NotificationView {
	return NotificationView{
		ID:        rec.ID,
		Code:      rec.Code,
		Title:     rec.Title,
		Msg:       rec.Msg,
		Link:      rec.Link,
		IsRead:    rec.IsRead,
		CreatedAt: rec.CreatedAt,
	}
}

type SettingData struct {
	Code        models.SpacePushSettingCode `json:"code"`
	SystemValue *bool                       `json:"system_value"`
	EmailValue  *bool                       `json:"email_value"`
}

func (r SettingData) Validate() error {
	if _, exist := models.PushCodeMap[r.Code]; !exist {
		return errors.Errorf("неизвестный код события: %v", r.Code)
	}
	return nil
}

type SettingView struct {
	Code        models.SpacePushSettingCode `json:"code"`
	Name        string                      `json:"name"`
	SystemValue bool                        `json:"system_value"`
	EmailValue  bool                        `json:"email_value"`
}
