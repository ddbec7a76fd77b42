package staffstore

import (
	staffapimodels "estate-office-backend/models/api/staff"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.StaffProfile) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.StaffProfile, err error)
	GetByUserID(spaceID, userID string) (rec *dbmodels.StaffProfile, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	List(spaceID string, filter staffapimodels.StaffFilter) (list []dbmodels.StaffProfile, err error)
	ListCount(spaceID string, filter staffapimodels.StaffFilter) (count int64, err error)
	ListActive(spaceID string) (list []dbmodels.StaffProfile, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.StaffProfile) (id string, err error) {
	err = i.db.
		Omit("User", "Department", "Manager").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.StaffProfile, error) {
	rec := dbmodels.StaffProfile{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload("User").
		Preload("Department").
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

func (i impl) GetByUserID(spaceID, userID string) (*dbmodels.StaffProfile, error) {
	rec := dbmodels.StaffProfile{}
	err := i.db.
		Where("user_id = ?", userID).
		Where("space_id = ?", spaceID).
		Preload("User").
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

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.StaffProfile{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
}

func (i impl) listQuery(spaceID string, filter staffapimodels.StaffFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.StaffProfile{}).
		Where("staff_profiles.space_id = ?", spaceID)
	if filter.DepartmentID != "" {
		tx = tx.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.OnlyActive {
		tx = tx.Where("staff_profiles.is_active = true")
	}
	if filter.Search != "" {
		tx = tx.
			Joins("JOIN space_users ON space_users.id = staff_profiles.user_id").
			Where("space_users.first_name ILIKE ? OR space_users.last_name ILIKE ?",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return tx
}

func (i impl) List(spaceID string, filter staffapimodels.StaffFilter) (list []dbmodels.StaffProfile, err error) {
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	err = i.listQuery(spaceID, filter).
		Order("staff_profiles.created_at ASC").
		Offset(offset).
		Limit(limit).
		Preload("User").
		Preload("Department").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter staffapimodels.StaffFilter) (count int64, err error) {
	err = i.listQuery(spaceID, filter).
		Count(&count).
		Error
	return count, err
}

func (i impl) ListActive(spaceID string) (list []dbmodels.StaffProfile, err error) {
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("is_active = true").
		Preload("User").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}
