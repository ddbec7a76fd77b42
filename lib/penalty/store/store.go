package penaltystore

import (
	"time"

	"estate-office-backend/models"
	hrapimodels "estate-office-backend/models/api/hr"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	// CreateIdempotent - вставка под уникальным ключом источника; при
	// гонке возвращается ранее созданная запись и models.ErrDuplicateFact
	CreateIdempotent(rec dbmodels.PenaltyRecord) (saved *dbmodels.PenaltyRecord, err error)
	GetByID(spaceID, id string) (rec *dbmodels.PenaltyRecord, err error)
	GetBySource(spaceID, policyID string, sourceType models.PenaltySourceType, sourceID string) (rec *dbmodels.PenaltyRecord, err error)
	// CountOccurrences - число учтенных применений политики к сотруднику;
	// пустой periodKey означает подсчет за всю историю
	CountOccurrences(spaceID, staffProfileID, policyID, periodKey string) (count int64, err error)
	// CountSettledByPolicy - число удержанных штрафов, ссылающихся на политику
	CountSettledByPolicy(spaceID, policyID string) (count int64, err error)
	List(spaceID string, filter hrapimodels.PenaltyFilter) (list []dbmodels.PenaltyRecord, err error)
	ListCount(spaceID string, filter hrapimodels.PenaltyFilter) (count int64, err error)
	// ListPendingForPeriods - неудержанные штрафы сотрудника по ключам периодов
	ListPendingForPeriods(spaceID, staffProfileID string, periodKeys []string) (list []dbmodels.PenaltyRecord, err error)
	// MarkSettledByIDs - перевод перечисленных штрафов в удержанные;
	// уже аннулированные и удержанные записи не трогаются
	MarkSettledByIDs(spaceID string, ids []string, settledAt time.Time) error
	MarkVoidedBySource(spaceID string, sourceType models.PenaltySourceType, sourceID string, voidedAt time.Time) (voided int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateIdempotent(rec dbmodels.PenaltyRecord) (*dbmodels.PenaltyRecord, error) {
	err := i.db.Create(&rec).Error
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}
	exist, err := i.GetBySource(rec.SpaceID, rec.PolicyID, rec.SourceType, rec.SourceID)
	if err != nil {
		return nil, err
	}
	if exist == nil {
		return nil, errors.New("дубликат штрафа не найден после конфликта вставки")
	}
	return exist, errors.Wrap(models.ErrDuplicateFact, "штраф по источнику уже начислен")
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.PenaltyRecord, error) {
	rec := dbmodels.PenaltyRecord{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload("Policy").
		Preload("StaffProfile.User").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetBySource(spaceID, policyID string, sourceType models.PenaltySourceType, sourceID string) (*dbmodels.PenaltyRecord, error) {
	rec := dbmodels.PenaltyRecord{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("policy_id = ?", policyID).
		Where("source_type = ?", sourceType).
		Where("source_id = ?", sourceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) CountOccurrences(spaceID, staffProfileID, policyID, periodKey string) (count int64, err error) {
	tx := i.db.
		Model(&dbmodels.PenaltyRecord{}).
		Where("space_id = ?", spaceID).
		Where("staff_profile_id = ?", staffProfileID).
		Where("policy_id = ?", policyID).
		Where("status <> ?", models.PenaltyStatusVoided)
	if periodKey != "" {
		tx = tx.Where("period_key = ?", periodKey)
	}
	err = tx.Count(&count).Error
	return count, err
}

func (i impl) CountSettledByPolicy(spaceID, policyID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.PenaltyRecord{}).
		Where("space_id = ?", spaceID).
		Where("policy_id = ?", policyID).
		Where("status = ?", models.PenaltyStatusSettled).
		Count(&count).
		Error
	return count, err
}

func (i impl) listQuery(spaceID string, filter hrapimodels.PenaltyFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.PenaltyRecord{}).
		Where("space_id = ?", spaceID)
	if filter.StaffProfileID != "" {
		tx = tx.Where("staff_profile_id = ?", filter.StaffProfileID)
	}
	if filter.PeriodKey != "" {
		tx = tx.Where("period_key = ?", filter.PeriodKey)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	return tx
}

func (i impl) List(spaceID string, filter hrapimodels.PenaltyFilter) (list []dbmodels.PenaltyRecord, err error) {
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	err = i.listQuery(spaceID, filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("Policy").
		Preload("StaffProfile.User").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter hrapimodels.PenaltyFilter) (count int64, err error) {
	err = i.listQuery(spaceID, filter).
		Count(&count).
		Error
	return count, err
}

func (i impl) ListPendingForPeriods(spaceID, staffProfileID string, periodKeys []string) (list []dbmodels.PenaltyRecord, err error) {
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("staff_profile_id = ?", staffProfileID).
		Where("period_key IN ?", periodKeys).
		Where("status = ?", models.PenaltyStatusPending).
		Order("created_at").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) MarkSettledByIDs(spaceID string, ids []string, settledAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.PenaltyRecord{}).
		Where("space_id = ?", spaceID).
		Where("id IN ?", ids).
		Where("status = ?", models.PenaltyStatusPending).
		Updates(map[string]interface{}{
			"Status":    models.PenaltyStatusSettled,
			"SettledAt": settledAt,
		}).
		Error
}

func (i impl) MarkVoidedBySource(spaceID string, sourceType models.PenaltySourceType, sourceID string, voidedAt time.Time) (int64, error) {
	tx := i.db.
		Model(&dbmodels.PenaltyRecord{}).
		Where("space_id = ?", spaceID).
		Where("source_type = ?", sourceType).
		Where("source_id = ?", sourceID).
		Where("status = ?", models.PenaltyStatusPending).
		Updates(map[string]interface{}{
			"Status":   models.PenaltyStatusVoided,
			"VoidedAt": voidedAt,
		})
	return tx.RowsAffected, tx.Error
}
