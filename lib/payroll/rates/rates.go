package payrollrates

import (
	"estate-office-backend/config"
	spacesettingsstore "estate-office-backend/lib/space/settings/store"
	"estate-office-backend/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Provider - проценты налога и пенсионных отчислений пространства.
// Настройка пространства перекрывает значение из конфигурации.
type Provider interface {
	TaxPercent(spaceID string) decimal.Decimal
	PensionPercent(spaceID string) decimal.Decimal
}

func NewInstance(settingsStore spacesettingsstore.Provider) Provider {
	return &impl{
		settingsStore: settingsStore,
	}
}

type impl struct {
	settingsStore spacesettingsstore.Provider
}

func (i impl) TaxPercent(spaceID string) decimal.Decimal {
	return i.percent(spaceID, models.TaxPercentSetting, config.Conf.Payroll.DefaultTaxPercent)
}

func (i impl) PensionPercent(spaceID string) decimal.Decimal {
	return i.percent(spaceID, models.PensionPercentSetting, config.Conf.Payroll.DefaultPensionPercent)
}

func (i impl) percent(spaceID string, code models.SpaceSettingCode, fallback string) decimal.Decimal {
	logger := log.WithField("space_id", spaceID).
		WithField("setting_code", code)
	raw := fallback
	setting, err := i.settingsStore.GetByCode(spaceID, code)
	if err != nil {
		logger.WithError(err).Error("ошибка получения настройки пространства")
	}
	if setting != nil && setting.Value != "" {
		raw = setting.Value
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		logger.WithField("raw_value", raw).Error("некорректный процент в настройке")
		return decimal.Zero
	}
	return value
}
