package dbmodels

import (
	"time"

	"estate-office-backend/models"

	"github.com/shopspring/decimal"
)

// ключ агрегированных штрафов в OtherDeductions
const DeductionKeyPolicyPenalties = "policyPenalties"

// ключ удержаний за неоплачиваемые отпуска
const DeductionKeyUnpaidLeave = "unpaidLeave"

// PayrollRecord - расчетный лист сотрудника за период.
// Пара (staff_profile_id, period_start, period_end) уникальна:
// повторная генерация за тот же период пропускает существующие записи.
// PenaltyIDs фиксирует штрафы, вошедшие в лист при генерации:
// при утверждении удержанными помечаются ровно они.
type PayrollRecord struct {
	BaseSpaceModel
	StaffProfileID  string               `gorm:"type:varchar(36);uniqueIndex:idx_payroll_period"`
	StaffProfile    *StaffProfile        `gorm:"foreignKey:StaffProfileID"`
	PeriodStart     time.Time            `gorm:"type:date;uniqueIndex:idx_payroll_period"`
	PeriodEnd       time.Time            `gorm:"type:date;uniqueIndex:idx_payroll_period"`
	BaseSalary      decimal.Decimal      `gorm:"type:decimal(14,2)"`
	Overtime        decimal.Decimal      `gorm:"type:decimal(14,2)"`
	Bonus           decimal.Decimal      `gorm:"type:decimal(14,2)"`
	Allowances      MoneyMap             `gorm:"type:jsonb"`
	GrossPay        decimal.Decimal      `gorm:"type:decimal(14,2)"`
	Tax             decimal.Decimal      `gorm:"type:decimal(14,2)"`
	Pension         decimal.Decimal      `gorm:"type:decimal(14,2)"`
	OtherDeductions MoneyMap             `gorm:"type:jsonb"`
	PenaltyIDs      StringSlice          `gorm:"type:jsonb"`
	TotalDeductions decimal.Decimal      `gorm:"type:decimal(14,2)"`
	NetPay          decimal.Decimal      `gorm:"type:decimal(14,2)"`
	Currency        string               `gorm:"type:varchar(3)"`
	Status          models.PayrollStatus `gorm:"type:varchar(20);index"`
	ApprovedAt      *time.Time
	PaidAt          *time.Time
}

// Recalculate - производные суммы по формулам расчетного листа
func (r *PayrollRecord) Recalculate() {
	r.GrossPay = r.BaseSalary.
		Add(r.Overtime).
		Add(r.Bonus).
		Add(r.Allowances.Sum())
	r.TotalDeductions = r.Tax.
		Add(r.Pension).
		Add(r.OtherDeductions.Sum())
	r.NetPay = r.GrossPay.Sub(r.TotalDeductions)
}
