package payrollstore

import (
	"time"

	payrollapimodels "estate-office-backend/models/api/payroll"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	// CreateIdempotent - вставка под уникальным ключом периода;
	// при повторном прогоне существующая запись не перезаписывается
	CreateIdempotent(rec dbmodels.PayrollRecord) (saved *dbmodels.PayrollRecord, isNew bool, err error)
	GetByID(spaceID, id string) (rec *dbmodels.PayrollRecord, err error)
	GetByPeriod(spaceID, staffProfileID string, periodStart, periodEnd time.Time) (rec *dbmodels.PayrollRecord, err error)
	Save(rec dbmodels.PayrollRecord) error
	List(spaceID string, filter payrollapimodels.PayrollFilter) (list []dbmodels.PayrollRecord, err error)
	ListCount(spaceID string, filter payrollapimodels.PayrollFilter) (count int64, err error)
	ListForPeriod(spaceID string, periodStart, periodEnd time.Time) (list []dbmodels.PayrollRecord, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateIdempotent(rec dbmodels.PayrollRecord) (*dbmodels.PayrollRecord, bool, error) {
	err := i.db.
		Omit("StaffProfile").
		Create(&rec).
		Error
	if err == nil {
		return &rec, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}
	exist, err := i.GetByPeriod(rec.SpaceID, rec.StaffProfileID, rec.PeriodStart, rec.PeriodEnd)
	if err != nil {
		return nil, false, err
	}
	if exist == nil {
		return nil, false, errors.New("расчетный лист не найден после конфликта вставки")
	}
	return exist, false, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.PayrollRecord, error) {
	rec := dbmodels.PayrollRecord{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
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

func (i impl) GetByPeriod(spaceID, staffProfileID string, periodStart, periodEnd time.Time) (*dbmodels.PayrollRecord, error) {
	rec := dbmodels.PayrollRecord{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("staff_profile_id = ?", staffProfileID).
		Where("period_start = ?", periodStart).
		Where("period_end = ?", periodEnd).
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

func (i impl) Save(rec dbmodels.PayrollRecord) error {
	return i.db.
		Omit("StaffProfile").
		Save(&rec).
		Error
}

func (i impl) listQuery(spaceID string, filter payrollapimodels.PayrollFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.PayrollRecord{}).
		Where("payroll_records.space_id = ?", spaceID)
	if filter.StaffProfileID != "" {
		tx = tx.Where("staff_profile_id = ?", filter.StaffProfileID)
	}
	if filter.DepartmentID != "" {
		tx = tx.
			Joins("JOIN staff_profiles ON staff_profiles.id = payroll_records.staff_profile_id").
			Where("staff_profiles.department_id = ?", filter.DepartmentID)
	}
	if filter.PeriodStart != nil {
		tx = tx.Where("period_start >= ?", *filter.PeriodStart)
	}
	if filter.PeriodEnd != nil {
		tx = tx.Where("period_end <= ?", *filter.PeriodEnd)
	}
	if filter.Status != "" {
		tx = tx.Where("payroll_records.status = ?", filter.Status)
	}
	return tx
}

func (i impl) List(spaceID string, filter payrollapimodels.PayrollFilter) (list []dbmodels.PayrollRecord, err error) {
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	err = i.listQuery(spaceID, filter).
		Order("period_start DESC, created_at ASC").
		Offset(offset).
		Limit(limit).
		Preload("StaffProfile.User").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter payrollapimodels.PayrollFilter) (count int64, err error) {
	err = i.listQuery(spaceID, filter).
		Count(&count).
		Error
	return count, err
}

func (i impl) ListForPeriod(spaceID string, periodStart, periodEnd time.Time) (list []dbmodels.PayrollRecord, err error) {
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("period_start = ?", periodStart).
		Where("period_end = ?", periodEnd).
		Order("created_at ASC").
		Preload("StaffProfile.User").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}
