package payrollapimodels

import (
	"time"

	"estate-office-backend/models"
	apimodels "estate-office-backend/models/api"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type GenerateData struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

func (r GenerateData) Validate() error {
	if r.PeriodStart.IsZero() || r.PeriodEnd.IsZero() {
		return errors.New("не указаны границы периода")
	}
	if !r.PeriodEnd.After(r.PeriodStart) {
		return errors.New("окончание периода раньше начала")
	}
	return nil
}

// AdjustData - ручные корректировки черновика расчетного листа
type AdjustData struct {
	Overtime        decimal.Decimal            `json:"overtime"`
	Bonus           decimal.Decimal            `json:"bonus"`
	Allowances      map[string]decimal.Decimal `json:"allowances"`
	OtherDeductions map[string]decimal.Decimal `json:"other_deductions"`
}

func (r AdjustData) Validate() error {
	if r.Overtime.IsNegative() || r.Bonus.IsNegative() {
		return errors.New("переработка и премия не могут быть отрицательными")
	}
	for key, v := range r.Allowances {
		if v.IsNegative() {
			return errors.Errorf("отрицательная надбавка: %s", key)
		}
	}
	for key, v := range r.OtherDeductions {
		if v.IsNegative() {
			return errors.Errorf("отрицательное удержание: %s", key)
		}
	}
	return nil
}

// GenerateResult - итог прогона генерации за период
type GenerateResult struct {
	GeneratedCount int            `json:"generated_count"`
	SkippedCount   int            `json:"skipped_count"`
	Failures       []StaffFailure `json:"failures,omitempty"`
}

// StaffFailure - отказ по конкретному сотруднику, не прерывающий прогон
type StaffFailure struct {
	StaffProfileID string `json:"staff_profile_id"`
	Error          string `json:"error"`
}

// BulkResult - итог пакетной операции утверждения/выплаты
type BulkResult struct {
	SucceededCount int            `json:"succeeded_count"`
	Failures       []StaffFailure `json:"failures,omitempty"`
}

type PayrollFilter struct {
	apimodels.Pagination
	StaffProfileID string               `json:"staff_profile_id"`
	DepartmentID   string               `json:"department_id"`
	PeriodStart    *time.Time           `json:"period_start"`
	PeriodEnd      *time.Time           `json:"period_end"`
	Status         models.PayrollStatus `json:"status"`
}

func (r PayrollFilter) Validate() error {
	return nil
}

type PayrollView struct {
	ID              string                     `json:"id"`
	StaffProfileID  string                     `json:"staff_profile_id"`
	StaffName       string                     `json:"staff_name,omitempty"`
	PeriodStart     time.Time                  `json:"period_start"`
	PeriodEnd       time.Time                  `json:"period_end"`
	BaseSalary      decimal.Decimal            `json:"base_salary"`
	Overtime        decimal.Decimal            `json:"overtime"`
	Bonus           decimal.Decimal            `json:"bonus"`
	Allowances      map[string]decimal.Decimal `json:"allowances,omitempty"`
	GrossPay        decimal.Decimal            `json:"gross_pay"`
	Tax             decimal.Decimal            `json:"tax"`
	Pension         decimal.Decimal            `json:"pension"`
	OtherDeductions map[string]decimal.Decimal `json:"other_deductions,omitempty"`
	TotalDeductions decimal.Decimal            `json:"total_deductions"`
	NetPay          decimal.Decimal            `json:"net_pay"`
	Currency        string                     `json:"currency"`
	Status          models.PayrollStatus       `json:"status"`
	StatusName      string                     `json:"status_name"`
	ApprovedAt      *time.Time                 `json:"approved_at,omitempty"`
	PaidAt          *time.Time                 `json:"paid_at,omitempty"`
}

func PayrollConvert(rec dbmodels.PayrollRecord) PayrollView {
	view := PayrollView{
		ID:              rec.ID,
		StaffProfileID:  rec.StaffProfileID,
		PeriodStart:     rec.PeriodStart,
		PeriodEnd:       rec.PeriodEnd,
		BaseSalary:      rec.BaseSalary,
		Overtime:        rec.Overtime,
		Bonus:           rec.Bonus,
		Allowances:      rec.Allowances,
		GrossPay:        rec.GrossPay,
		Tax:             rec.Tax,
		Pension:         rec.Pension,
		OtherDeductions: rec.OtherDeductions,
		TotalDeductions: rec.TotalDeductions,
		NetPay:          rec.NetPay,
		Currency:        rec.Currency,
		Status:          rec.Status,
		StatusName:      rec.Status.ToHuman(),
		ApprovedAt:      rec.ApprovedAt,
		PaidAt:          rec.PaidAt,
	}
	if rec.StaffProfile != nil && rec.StaffProfile.User != nil {
		view.StaffName = rec.StaffProfile.User.GetFullName()
	}
	return view
}

// PeriodSummary - сводка по периоду для дашборда и выгрузки
type PeriodSummary struct {
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
	StaffCount      int             `json:"staff_count"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	TotalPenalties  decimal.Decimal `json:"total_penalties"`
}
