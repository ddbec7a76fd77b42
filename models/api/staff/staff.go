package staffapimodels

import (
	"time"

	apimodels "estate-office-backend/models/api"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type StaffProfileData struct {
	UserID             string          `json:"user_id"`
	DepartmentID       string          `json:"department_id"`
	ManagerID          string          `json:"manager_id"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	Currency           string          `json:"currency"`
	AnnualLeaveBalance int             `json:"annual_leave_balance"`
	SickLeaveBalance   int             `json:"sick_leave_balance"`
}

func (r StaffProfileData) Validate() error {
	if r.UserID == "" {
		return errors.New("не указан пользователь")
	}
	if r.BaseSalary.IsNegative() {
		return errors.New("оклад не может быть отрицательным")
	}
	return nil
}

type StaffFilter struct {
	apimodels.Pagination
	DepartmentID string `json:"department_id"`
	OnlyActive   bool   `json:"only_active"`
	Search       string `json:"search"` // поиск по ФИО
}

func (r StaffFilter) Validate() error {
	return nil
}

type StaffProfileView struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	FullName           string          `json:"full_name,omitempty"`
	DepartmentID       string          `json:"department_id,omitempty"`
	DepartmentName     string          `json:"department_name,omitempty"`
	ManagerID          string          `json:"manager_id,omitempty"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	Currency           string          `json:"currency"`
	IsActive           bool            `json:"is_active"`
	AnnualLeaveBalance int             `json:"annual_leave_balance"`
	SickLeaveBalance   int             `json:"sick_leave_balance"`
	CreatedAt          time.Time       `json:"created_at"`
}

func StaffProfileConvert(rec dbmodels.StaffProfile) StaffProfileView {
	view := StaffProfileView{
		ID:                 rec.ID,
		UserID:             rec.UserID,
		BaseSalary:         rec.BaseSalary,
		Currency:           rec.Currency,
		IsActive:           rec.IsActive,
		AnnualLeaveBalance: rec.AnnualLeaveBalance,
		SickLeaveBalance:   rec.SickLeaveBalance,
		CreatedAt:          rec.CreatedAt,
	}
	if rec.User != nil {
		view.FullName = rec.User.GetFullName()
	}
	if rec.DepartmentID != nil {
		view.DepartmentID = *rec.DepartmentID
	}
	if rec.Department != nil {
		view.DepartmentName = rec.Department.Name
	}
	if rec.ManagerID != nil {
		view.ManagerID = *rec.ManagerID
	}
	return view
}
