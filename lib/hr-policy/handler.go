package hrpolicyhandler

import (
	"time"

	"estate-office-backend/config"
	"estate-office-backend/db"
	hrpolicystore "estate-office-backend/lib/hr-policy/store"
	penaltystore "estate-office-backend/lib/penalty/store"
	"estate-office-backend/lib/utils/cache"
	"estate-office-backend/models"
	hrapimodels "estate-office-backend/models/api/hr"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(spaceID string, data hrapimodels.PolicyData) (id string, err error)
	GetByID(spaceID, id string) (item hrapimodels.PolicyView, err error)
	// Update - правка допустима, пока по политике нет удержанных штрафов;
	// после первого удержания политика меняется только новой версией через Create
	Update(spaceID, id string, data hrapimodels.PolicyData) error
	SetActive(spaceID, id string, isActive bool) error
	List(spaceID string, policyType models.PolicyType) (list []hrapimodels.PolicyView, err error)
	GetApplicable(spaceID string, policyType models.PolicyType, now time.Time) (rec *dbmodels.HRPolicy, err error)
}

var Instance Provider

func NewHandler() {
	ttl := time.Duration(config.Conf.Payroll.PolicyCacheTTLSec) * time.Second
	Instance = impl{
		store:           hrpolicystore.NewInstance(db.DB),
		penaltyStore:    penaltystore.NewInstance(db.DB),
		applicableCache: cache.New[*dbmodels.HRPolicy](ttl),
	}
}

type impl struct {
	store        hrpolicystore.Provider
	penaltyStore penaltystore.Provider
	// кэш разрешенных политик; короткий TTL, чтобы правки политик
	// подхватывались без перезапуска
	applicableCache *cache.TTLCache[*dbmodels.HRPolicy]
}

func (i impl) Create(spaceID string, data hrapimodels.PolicyData) (id string, err error) {
	logger := log.WithField("space_id", spaceID)
	rec := data.ToRecord(spaceID)
	if err = rec.Validate(); err != nil {
		return "", errors.Wrap(models.ErrValidation, err.Error())
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания политики")
		return "", err
	}
	i.applicableCache.Delete(i.cacheKey(spaceID, rec.Type))
	logger.WithField("rec_id", id).
		WithField("policy_type", rec.Type).
		Info("создана политика удержаний")
	return id, nil
}

func (i impl) GetByID(spaceID, id string) (hrapimodels.PolicyView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return hrapimodels.PolicyView{}, err
	}
	return hrapimodels.PolicyConvert(*rec), nil
}

func (i impl) Update(spaceID, id string, data hrapimodels.PolicyData) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	settled, err := i.penaltyStore.CountSettledByPolicy(spaceID, id)
	if err != nil {
		logger.WithError(err).Error("ошибка проверки применений политики")
		return err
	}
	if settled > 0 {
		return errors.Wrap(models.ErrValidation,
			"по политике уже есть удержанные штрафы, правка запрещена: создайте новую версию")
	}
	upd := data.ToRecord(spaceID)
	upd.ID = rec.ID
	upd.CreatedAt = rec.CreatedAt
	if err = upd.Validate(); err != nil {
		return errors.Wrap(models.ErrValidation, err.Error())
	}
	if err = i.store.Save(upd); err != nil {
		logger.WithError(err).Error("ошибка обновления политики")
		return err
	}
	i.applicableCache.Delete(i.cacheKey(spaceID, rec.Type))
	i.applicableCache.Delete(i.cacheKey(spaceID, upd.Type))
	logger.Info("обновлена политика удержаний")
	return nil
}

func (i impl) SetActive(spaceID, id string, isActive bool) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if err = i.store.SetActive(spaceID, id, isActive); err != nil {
		logger.WithError(err).Error("ошибка смены активности политики")
		return err
	}
	i.applicableCache.Delete(i.cacheKey(spaceID, rec.Type))
	logger.WithField("is_active", isActive).Info("изменена активность политики")
	return nil
}

func (i impl) List(spaceID string, policyType models.PolicyType) (list []hrapimodels.PolicyView, err error) {
	recList, err := i.store.List(spaceID, policyType)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithError(err).
			Error("ошибка получения списка политик")
		return nil, err
	}
	result := make([]hrapimodels.PolicyView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, hrapimodels.PolicyConvert(rec))
	}
	return result, nil
}

func (i impl) GetApplicable(spaceID string, policyType models.PolicyType, now time.Time) (*dbmodels.HRPolicy, error) {
	key := i.cacheKey(spaceID, policyType)
	if cached, ok := i.applicableCache.Get(key); ok {
		// отрицательный результат тоже кэшируется
		if cached == nil || cached.InForce(now) {
			return cached, nil
		}
		// версия в кэше вышла из окна действия, могла вступить следующая
		i.applicableCache.Delete(key)
	}
	rec, err := i.store.GetApplicable(spaceID, policyType, now)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithField("policy_type", policyType).
			WithError(err).
			Error("ошибка поиска действующей политики")
		return nil, err
	}
	i.applicableCache.Set(key, rec)
	return rec, nil
}

func (i impl) cacheKey(spaceID string, policyType models.PolicyType) string {
	return spaceID + ":" + string(policyType)
}

func (i impl) getRec(spaceID, id string) (*dbmodels.HRPolicy, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithField("rec_id", id).
			WithError(err).
			Error("ошибка получения политики")
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "политика не найдена")
	}
	return rec, nil
}
