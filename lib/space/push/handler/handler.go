package pushhandler

import (
	"estate-office-backend/config"
	"estate-office-backend/db"
	"estate-office-backend/lib/smtp"
	pushdatastore "estate-office-backend/lib/space/push/data-store"
	pushsettingsstore "estate-office-backend/lib/space/push/settings-store"
	spacesettingsstore "estate-office-backend/lib/space/settings/store"
	spaceusersstore "estate-office-backend/lib/space/users/store"
	"estate-office-backend/models"
	pushapimodels "estate-office-backend/models/api/push"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider - сток уведомлений. Контракт строго fire-and-forget:
// любые ошибки доставки логируются и не возвращаются вызывающему,
// чтобы сбой доставки не ломал породившую его операцию.
type Provider interface {
	SendNotification(userID string, code models.SpacePushSettingCode, title, msg, link string)
	ListNotifications(userID string, onlyUnread bool) (list []pushapimodels.NotificationView, err error)
	MarkRead(userID, id string) error
	GetSettings(spaceID, userID string) (list []pushapimodels.SettingView, err error)
	SaveSetting(spaceID, userID string, data pushapimodels.SettingData) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		spaceUserStore:    spaceusersstore.NewInstance(db.DB),
		pushSettingsStore: pushsettingsstore.NewInstance(db.DB),
		pushDataStore:     pushdatastore.NewInstance(db.DB),
		settingsStore:     spacesettingsstore.NewInstance(db.DB),
	}
}

type impl struct {
	spaceUserStore    spaceusersstore.Provider
	pushSettingsStore pushsettingsstore.Provider
	pushDataStore     pushdatastore.Provider
	settingsStore     spacesettingsstore.Provider
}

func (i impl) getLogger(userID, code string) *log.Entry {
	logger := log.
		WithField("user_id", userID).
		WithField("event_code", code)
	return logger
}

func (i impl) SendNotification(userID string, code models.SpacePushSettingCode, title, msg, link string) {
	logger := i.getLogger(userID, string(code))
	user, err := i.spaceUserStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения пользователя")
		return
	}
	if user == nil {
		logger.Error("пользователь не найден")
		return
	}
	if !user.PushEnabled {
		return
	}
	rec := dbmodels.PushData{
		UserID: userID,
		Code:   code,
		Title:  title,
		Msg:    msg,
		Link:   link,
	}
	if _, err = i.pushDataStore.Create(rec); err != nil {
		logger.WithError(err).Error("ошибка сохранения уведомления")
	}

	pushSetting, err := i.pushSettingsStore.GetByCode(userID, code)
	if err != nil {
		logger.WithError(err).Error("ошибка получения настройки по событию")
		return
	}
	// настройки нет - шлем почту по умолчанию
	if pushSetting != nil && pushSetting.EmailValue != nil && !*pushSetting.EmailValue {
		return
	}
	i.sendEmail(logger, user.SpaceID, user.Email, title, msg)
}

func (i impl) ListNotifications(userID string, onlyUnread bool) (list []pushapimodels.NotificationView, err error) {
	recList, err := i.pushDataStore.ListByUser(userID, onlyUnread)
	if err != nil {
		log.WithField("user_id", userID).
			WithError(err).
			Error("ошибка получения уведомлений")
		return nil, err
	}
	result := make([]pushapimodels.NotificationView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, pushapimodels.NotificationConvert(rec))
	}
	return result, nil
}

func (i impl) MarkRead(userID, id string) error {
	return i.pushDataStore.MarkRead(userID, id)
}

func (i impl) GetSettings(spaceID, userID string) (list []pushapimodels.SettingView, err error) {
	recList, err := i.pushSettingsStore.List(spaceID, userID)
	if err != nil {
		log.WithField("user_id", userID).
			WithError(err).
			Error("ошибка получения настроек уведомлений")
		return nil, err
	}
	saved := map[models.SpacePushSettingCode]dbmodels.SpacePushSetting{}
	for _, rec := range recList {
		saved[rec.Code] = rec
	}
	// отсутствие настройки трактуется как включенная доставка
	result := make([]pushapimodels.SettingView, 0, len(models.PushCodeMap))
	for code, desc := range models.PushCodeMap {
		view := pushapimodels.SettingView{
			Code:        code,
			Name:        desc.Name,
			SystemValue: true,
			EmailValue:  true,
		}
		if rec, exist := saved[code]; exist {
			if rec.SystemValue != nil {
				view.SystemValue = *rec.SystemValue
			}
			if rec.EmailValue != nil {
				view.EmailValue = *rec.EmailValue
			}
		}
		result = append(result, view)
	}
	return result, nil
}

func (i impl) SaveSetting(spaceID, userID string, data pushapimodels.SettingData) error {
	if err := data.Validate(); err != nil {
		return errors.Wrap(models.ErrValidation, err.Error())
	}
	exist, err := i.pushSettingsStore.GetByCode(userID, data.Code)
	if err != nil {
		return err
	}
	rec := dbmodels.SpacePushSetting{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		SpaceUserID: userID,
		Code:        data.Code,
		SystemValue: data.SystemValue,
		EmailValue:  data.EmailValue,
	}
	if exist != nil {
		rec.BaseModel = exist.BaseModel
	}
	return i.pushSettingsStore.Save(rec)
}

func (i impl) sendEmail(logger *log.Entry, spaceID, email, title, msg string) {
	if email == "" {
		return
	}
	sender := config.Conf.Smtp.SenderEmail
	setting, err := i.settingsStore.GetByCode(spaceID, models.SpaceSenderEmail)
	if err != nil {
		logger.WithError(err).Error("ошибка получения почты отправителя")
	}
	if setting != nil && setting.Value != "" {
		sender = setting.Value
	}
	if err = smtp.Instance.SendEMail(sender, email, msg, title); err != nil {
		logger.WithError(err).Error("ошибка отправки письма с уведомлением")
	}
}
