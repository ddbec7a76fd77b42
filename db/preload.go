package db

import (
	dbmodels "estate-office-backend/models/db"

	log "github.com/sirupsen/logrus"
)

func InitPreload() {
	fillSpaceSettings()
}

// fillSpaceSettings - донастройка пространств: добавляем недостающие
// настройки с пустыми значениями, чтобы админка видела полный список
func fillSpaceSettings() {
	log.Info("предзаполнение настроек пространств")
	spaces := []dbmodels.Space{}
	if err := DB.Find(&spaces).Error; err != nil {
		log.WithError(err).Error("ошибка получения списка пространств")
		return
	}
	for _, space := range spaces {
		for code, def := range dbmodels.DefaultSettingsMap {
			var count int64
			err := DB.Model(&dbmodels.SpaceSetting{}).
				Where("space_id = ?", space.ID).
				Where("code = ?", code).
				Count(&count).Error
			if err != nil {
				log.WithError(err).Error("ошибка проверки настройки пространства")
				return
			}
			if count > 0 {
				continue
			}
			rec := def
			rec.SpaceID = space.ID
			if err = DB.Create(&rec).Error; err != nil {
				log.
					WithError(err).
					WithField("space_id", space.ID).
					WithField("code", code).
					Error("ошибка добавления настройки пространства")
				return
			}
		}
	}
	log.Info("настройки пространств заполнены")
}
