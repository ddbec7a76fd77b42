package dbmodels

import (
	"estate-office-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StaffProfile struct {
	BaseSpaceModel
	UserID             string          `gorm:"type:varchar(36);uniqueIndex"`
	User               *SpaceUser      `gorm:"foreignKey:UserID"`
	DepartmentID       *string         `gorm:"type:varchar(36);index"`
	Department         *Department
	ManagerID          *string         `gorm:"type:varchar(36);index"`
	Manager            *StaffProfile   `gorm:"foreignKey:ManagerID"`
	BaseSalary         decimal.Decimal `gorm:"type:decimal(14,2)"`
	Currency           string          `gorm:"type:varchar(3);default:RUB"`
	IsActive           bool
	AnnualLeaveBalance int
	SickLeaveBalance   int
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

// среднее число рабочих дней в месяце и часов в рабочем дне
const (
	workingDaysPerMonth = 21
	workingHoursPerDay  = 8
)

// SalaryBasis - база для процентного штрафа
func (r StaffProfile) SalaryBasis(basis models.PenaltyBasis) decimal.Decimal {
	switch basis {
	case models.PenaltyBasisMonthlySalary:
		return r.BaseSalary
	case models.PenaltyBasisDailySalary:
		return r.BaseSalary.Div(decimal.NewFromInt(workingDaysPerMonth))
	case models.PenaltyBasisHourlyRate:
		return r.BaseSalary.
			Div(decimal.NewFromInt(workingDaysPerMonth)).
			Div(decimal.NewFromInt(workingHoursPerDay))
	}
	return decimal.Zero
}
