package departmentprovider

import (
	"estate-office-backend/db"
	departmentstore "estate-office-backend/lib/dicts/department/store"
	"estate-office-backend/models"
	dictapimodels "estate-office-backend/models/api/dict"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(spaceID string, data dictapimodels.DepartmentData) (id string, err error)
	Update(spaceID, id string, data dictapimodels.DepartmentData) error
	Get(spaceID, id string) (item dictapimodels.DepartmentView, err error)
	Delete(spaceID, id string) error
	List(spaceID string) (list []dictapimodels.DepartmentView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: departmentstore.NewInstance(db.DB),
	}
}

type impl struct {
	store departmentstore.Provider
}

func (i impl) Create(spaceID string, data dictapimodels.DepartmentData) (id string, err error) {
	logger := log.WithField("space_id", spaceID)
	if err = data.Validate(); err != nil {
		return "", errors.Wrap(models.ErrValidation, err.Error())
	}
	rec := dbmodels.Department{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		ParentID: data.ParentID,
		Name:     data.Name,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания подразделения")
		return "", err
	}
	return id, nil
}

func (i impl) Update(spaceID, id string, data dictapimodels.DepartmentData) error {
	if err := data.Validate(); err != nil {
		return errors.Wrap(models.ErrValidation, err.Error())
	}
	if _, err := i.getRec(spaceID, id); err != nil {
		return err
	}
	return i.store.Update(spaceID, id, map[string]interface{}{
		"Name":     data.Name,
		"ParentID": data.ParentID,
	})
}

func (i impl) Get(spaceID, id string) (dictapimodels.DepartmentView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return dictapimodels.DepartmentView{}, err
	}
	return dictapimodels.DepartmentConvert(*rec), nil
}

func (i impl) Delete(spaceID, id string) error {
	if _, err := i.getRec(spaceID, id); err != nil {
		return err
	}
	return i.store.Delete(spaceID, id)
}

func (i impl) List(spaceID string) (list []dictapimodels.DepartmentView, err error) {
	recList, err := i.store.List(spaceID)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithError(err).
			Error("ошибка получения списка подразделений")
		return nil, err
	}
	result := make([]dictapimodels.DepartmentView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.DepartmentConvert(rec))
	}
	return result, nil
}

func (i impl) getRec(spaceID, id string) (*dbmodels.Department, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithField("rec_id", id).
			WithError(err).
			Error("ошибка получения подразделения")
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "подразделение не найдено")
	}
	return rec, nil
}
