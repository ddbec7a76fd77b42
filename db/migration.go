package db

import (
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Space{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Space")
	}
	if err := DB.AutoMigrate(&dbmodels.SpaceUser{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SpaceUser")
	}
	if err := DB.AutoMigrate(&dbmodels.SpaceSetting{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SpaceSetting")
	}
	if err := DB.AutoMigrate(&dbmodels.SpacePushSetting{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SpacePushSetting")
	}
	if err := DB.AutoMigrate(&dbmodels.PushData{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PushData")
	}
	if err := DB.AutoMigrate(&dbmodels.Department{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Department")
	}
	if err := DB.AutoMigrate(&dbmodels.StaffProfile{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры StaffProfile")
	}
	if err := DB.AutoMigrate(&dbmodels.Task{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Task")
	}
	if err := DB.AutoMigrate(&dbmodels.TaskComment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры TaskComment")
	}
	if err := DB.AutoMigrate(&dbmodels.TaskHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры TaskHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.HRPolicy{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры HRPolicy")
	}
	if err := DB.AutoMigrate(&dbmodels.PenaltyFact{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PenaltyFact")
	}
	if err := DB.AutoMigrate(&dbmodels.PenaltyRecord{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PenaltyRecord")
	}
	if err := DB.AutoMigrate(&dbmodels.PayrollRecord{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PayrollRecord")
	}
	if err := DB.AutoMigrate(&dbmodels.FileStorage{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры FileStorage")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
