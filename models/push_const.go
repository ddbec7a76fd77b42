package models

type SpacePushSettingCode string

const (
	PushTaskAssigned    SpacePushSettingCode = "task_assigned"
	PushTaskSubmitted   SpacePushSettingCode = "task_submitted"
	PushTaskApproved    SpacePushSettingCode = "task_approved"
	PushTaskReopened    SpacePushSettingCode = "task_reopened"
	PushPenaltyApplied  SpacePushSettingCode = "penalty_applied"
	PushPayrollApproved SpacePushSettingCode = "payroll_approved"
	PushPayrollPaid     SpacePushSettingCode = "payroll_paid"
)

type PushCodeDescription struct {
	Name string
}

var PushCodeMap = map[SpacePushSettingCode]PushCodeDescription{
	PushTaskAssigned:    {Name: "Назначена задача"},
	PushTaskSubmitted:   {Name: "Задача отправлена на проверку"},
	PushTaskApproved:    {Name: "Задача принята"},
	PushTaskReopened:    {Name: "Задача переоткрыта"},
	PushPenaltyApplied:  {Name: "Применен штраф"},
	PushPayrollApproved: {Name: "Расчетный лист утвержден"},
	PushPayrollPaid:     {Name: "Расчетный лист выплачен"},
}
