package models

type SpaceSettingCode string

const (
	// процент налога от валового дохода
	TaxPercentSetting SpaceSettingCode = "tax_percent"
	// процент пенсионных отчислений от валового дохода
	PensionPercentSetting SpaceSettingCode = "pension_percent"
	// почта, с которой отправляются уведомления сотрудникам
	SpaceSenderEmail SpaceSettingCode = "sender_email"
)
