package staffhandler

import (
	"estate-office-backend/db"
	departmentstore "estate-office-backend/lib/dicts/department/store"
	staffstore "estate-office-backend/lib/staff/store"
	spaceusersstore "estate-office-backend/lib/space/users/store"
	"estate-office-backend/models"
	staffapimodels "estate-office-backend/models/api/staff"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(spaceID string, data staffapimodels.StaffProfileData) (id string, err error)
	GetByID(spaceID, id string) (item staffapimodels.StaffProfileView, err error)
	Update(spaceID, id string, data staffapimodels.StaffProfileData) error
	Deactivate(spaceID, id string) error
	List(spaceID string, filter staffapimodels.StaffFilter) (list []staffapimodels.StaffProfileView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:           staffstore.NewInstance(db.DB),
		spaceUserStore:  spaceusersstore.NewInstance(db.DB),
		departmentStore: departmentstore.NewInstance(db.DB),
	}
}

type impl struct {
	store           staffstore.Provider
	spaceUserStore  spaceusersstore.Provider
	departmentStore departmentstore.Provider
}

// предохранитель от поврежденной иерархии при обходе предков
const maxManagerChainDepth = 100

func (i impl) Create(spaceID string, data staffapimodels.StaffProfileData) (id string, err error) {
	logger := log.WithField("space_id", spaceID)
	user, err := i.spaceUserStore.GetByID(data.UserID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения пользователя")
		return "", err
	}
	if user == nil || user.SpaceID != spaceID {
		return "", errors.Wrap(models.ErrNotFound, "пользователь не найден")
	}
	exist, err := i.store.GetByUserID(spaceID, data.UserID)
	if err != nil {
		return "", err
	}
	if exist != nil {
		return "", errors.Wrap(models.ErrValidation, "профиль сотрудника уже существует")
	}
	rec := dbmodels.StaffProfile{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		UserID:             data.UserID,
		BaseSalary:         data.BaseSalary,
		Currency:           data.Currency,
		IsActive:           true,
		AnnualLeaveBalance: data.AnnualLeaveBalance,
		SickLeaveBalance:   data.SickLeaveBalance,
	}
	if data.DepartmentID != "" {
		if _, err = i.getDepartment(spaceID, data.DepartmentID); err != nil {
			return "", err
		}
		rec.DepartmentID = &data.DepartmentID
	}
	if data.ManagerID != "" {
		manager, err := i.store.GetByID(spaceID, data.ManagerID)
		if err != nil {
			return "", err
		}
		if manager == nil {
			return "", errors.Wrap(models.ErrNotFound, "руководитель не найден")
		}
		rec.ManagerID = &data.ManagerID
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания профиля сотрудника")
		return "", err
	}
	logger.WithField("rec_id", id).Info("создан профиль сотрудника")
	return id, nil
}

func (i impl) GetByID(spaceID, id string) (item staffapimodels.StaffProfileView, err error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return staffapimodels.StaffProfileView{}, err
	}
	return staffapimodels.StaffProfileConvert(*rec), nil
}

func (i impl) Update(spaceID, id string, data staffapimodels.StaffProfileData) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"BaseSalary":         data.BaseSalary,
		"Currency":           data.Currency,
		"AnnualLeaveBalance": data.AnnualLeaveBalance,
		"SickLeaveBalance":   data.SickLeaveBalance,
	}
	if data.DepartmentID != "" {
		if _, err = i.getDepartment(spaceID, data.DepartmentID); err != nil {
			return err
		}
		updMap["DepartmentID"] = data.DepartmentID
	}
	if data.ManagerID != "" {
		if err = i.checkManagerCycle(spaceID, rec.ID, data.ManagerID); err != nil {
			return err
		}
		updMap["ManagerID"] = data.ManagerID
	}
	err = i.store.Update(spaceID, id, updMap)
	if err != nil {
		logger.WithError(err).Error("ошибка обновления профиля сотрудника")
		return err
	}
	logger.Info("обновлен профиль сотрудника")
	return nil
}

// Deactivate - мягкая деактивация при увольнении; профиль не удаляется,
// пока на него ссылается история расчетов
func (i impl) Deactivate(spaceID, id string) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	if _, err := i.getRec(spaceID, id); err != nil {
		return err
	}
	err := i.store.Update(spaceID, id, map[string]interface{}{"IsActive": false})
	if err != nil {
		logger.WithError(err).Error("ошибка деактивации профиля сотрудника")
		return err
	}
	logger.Info("профиль сотрудника деактивирован")
	return nil
}

func (i impl) List(spaceID string, filter staffapimodels.StaffFilter) (list []staffapimodels.StaffProfileView, rowCount int64, err error) {
	logger := log.WithField("space_id", spaceID)
	rowCount, err = i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []staffapimodels.StaffProfileView{}, rowCount, nil
	}
	recList, err := i.store.List(spaceID, filter)
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка сотрудников")
		return nil, 0, err
	}
	result := make([]staffapimodels.StaffProfileView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, staffapimodels.StaffProfileConvert(rec))
	}
	return result, rowCount, nil
}

// checkManagerCycle - проверка при назначении руководителя: идем вверх по
// цепочке руководителей кандидата и отклоняем назначение, если в предках
// встречается сам сотрудник
func (i impl) checkManagerCycle(spaceID, staffID, managerID string) error {
	if staffID == managerID {
		return errors.Wrap(models.ErrValidation, "сотрудник не может быть руководителем самому себе")
	}
	currentID := managerID
	for depth := 0; depth < maxManagerChainDepth; depth++ {
		manager, err := i.store.GetByID(spaceID, currentID)
		if err != nil {
			return err
		}
		if manager == nil {
			return errors.Wrap(models.ErrNotFound, "руководитель не найден")
		}
		if manager.ManagerID == nil {
			return nil
		}
		if *manager.ManagerID == staffID {
			return errors.Wrap(models.ErrValidation, "назначение создает цикл в иерархии руководителей")
		}
		currentID = *manager.ManagerID
	}
	return errors.Wrap(models.ErrValidation, "цепочка руководителей слишком длинная")
}

func (i impl) getRec(spaceID, id string) (*dbmodels.StaffProfile, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithField("rec_id", id).
			WithError(err).
			Error("ошибка получения профиля сотрудника")
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "профиль сотрудника не найден")
	}
	return rec, nil
}

func (i impl) getDepartment(spaceID, id string) (*dbmodels.Department, error) {
	rec, err := i.departmentStore.GetByID(spaceID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "подразделение не найдено")
	}
	return rec, nil
}
