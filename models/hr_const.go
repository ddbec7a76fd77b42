package models

import "time"

type PolicyType string

const (
	PolicyTypeLateness       PolicyType = "LATENESS"
	PolicyTypeAbsence        PolicyType = "ABSENCE"
	PolicyTypeLateTask       PolicyType = "LATE_TASK"
	PolicyTypeEarlyDeparture PolicyType = "EARLY_DEPARTURE"
	PolicyTypeDressCode      PolicyType = "DRESS_CODE"
	PolicyTypeMisconduct     PolicyType = "MISCONDUCT"
	PolicyTypeOther          PolicyType = "OTHER"
)

var policyTypeHumanName = map[PolicyType]string{
	PolicyTypeLateness:       "Опоздание",
	PolicyTypeAbsence:        "Прогул",
	PolicyTypeLateTask:       "Просроченная задача",
	PolicyTypeEarlyDeparture: "Ранний уход",
	PolicyTypeDressCode:      "Нарушение дресс-кода",
	PolicyTypeMisconduct:     "Дисциплинарное нарушение",
	PolicyTypeOther:          "Прочее",
}

func (t PolicyType) ToHuman() string {
	if human, exist := policyTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

func (t PolicyType) IsValid() bool {
	_, exist := policyTypeHumanName[t]
	return exist
}

// IsMinuteBased - величина факта интерпретируется в минутах (для грейс-периода)
func (t PolicyType) IsMinuteBased() bool {
	return t == PolicyTypeLateness || t == PolicyTypeEarlyDeparture
}

type PenaltyType string

const (
	PenaltyTypeFixed      PenaltyType = "fixed"
	PenaltyTypePercentage PenaltyType = "percentage"
)

type PenaltyBasis string

const (
	PenaltyBasisDailySalary   PenaltyBasis = "daily_salary"
	PenaltyBasisMonthlySalary PenaltyBasis = "monthly_salary"
	PenaltyBasisHourlyRate    PenaltyBasis = "hourly_rate"
)

func (b PenaltyBasis) IsValid() bool {
	switch b {
	case PenaltyBasisDailySalary, PenaltyBasisMonthlySalary, PenaltyBasisHourlyRate:
		return true
	}
	return false
}

type OccurrenceWindow string

const (
	// OccurrenceWindowPeriod - счетчик повторов в пределах расчетного периода
	OccurrenceWindowPeriod OccurrenceWindow = "period"
	// OccurrenceWindowAllTime - счетчик повторов за всю историю сотрудника
	OccurrenceWindowAllTime OccurrenceWindow = "all_time"
)

type PenaltyStatus string

const (
	PenaltyStatusPending PenaltyStatus = "PENDING"
	PenaltyStatusSettled PenaltyStatus = "SETTLED"
	PenaltyStatusVoided  PenaltyStatus = "VOIDED"
)

type PenaltySourceType string

const (
	PenaltySourceTask       PenaltySourceType = "TASK"
	PenaltySourceAttendance PenaltySourceType = "ATTENDANCE"
	PenaltySourceManual     PenaltySourceType = "MANUAL"
)

type FactStatus string

const (
	FactStatusNew     FactStatus = "NEW"
	FactStatusDone    FactStatus = "DONE"
	FactStatusSkipped FactStatus = "SKIPPED"
	FactStatusFailed  FactStatus = "FAILED"
)

type PayrollStatus string

const (
	PayrollStatusDraft           PayrollStatus = "DRAFT"
	PayrollStatusPendingApproval PayrollStatus = "PENDING_APPROVAL"
	PayrollStatusApproved        PayrollStatus = "APPROVED"
	PayrollStatusPaid            PayrollStatus = "PAID"
)

var payrollStatusHumanName = map[PayrollStatus]string{
	PayrollStatusDraft:           "Черновик",
	PayrollStatusPendingApproval: "На утверждении",
	PayrollStatusApproved:        "Утвержден",
	PayrollStatusPaid:            "Выплачен",
}

func (s PayrollStatus) ToHuman() string {
	if human, exist := payrollStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

var payrollTransitions = map[PayrollStatus][]PayrollStatus{
	PayrollStatusDraft:           {PayrollStatusPendingApproval, PayrollStatusApproved},
	PayrollStatusPendingApproval: {PayrollStatusApproved},
	PayrollStatusApproved:        {PayrollStatusPaid},
	PayrollStatusPaid:            {},
}

func (s PayrollStatus) IsAllowChange(target PayrollStatus) bool {
	for _, allowed := range payrollTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// PeriodKeyFor - ключ расчетного периода, к которому относится дата
func PeriodKeyFor(t time.Time) string {
	return t.Format("2006-01")
}

// PeriodKeysForRange - ключи расчетных периодов, пересекающих [start, end).
// Период генерации может охватывать несколько месяцев
func PeriodKeysForRange(start, end time.Time) []string {
	keys := []string{}
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for cur.Before(end) {
		keys = append(keys, PeriodKeyFor(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return keys
}
