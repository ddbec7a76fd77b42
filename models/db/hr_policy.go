package dbmodels

import (
	"time"

	"estate-office-backend/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HRPolicy - правило удержания. Политики ведутся как append-only ревизии:
// действующая выбирается по окну [EffectiveFrom, EffectiveTo) на момент оценки.
type HRPolicy struct {
	BaseSpaceModel
	Name          string            `gorm:"type:varchar(255)"`
	Type          models.PolicyType `gorm:"type:varchar(20);index"`
	IsActive      bool
	IsAutomatic   bool
	PenaltyType   models.PenaltyType   `gorm:"type:varchar(10)"`
	PenaltyAmount decimal.Decimal      `gorm:"type:decimal(14,2)"`
	PenaltyBasis  *models.PenaltyBasis `gorm:"type:varchar(20)"`
	GraceMinutes  *int
	// предел числа автоматических применений за окно подсчета
	MaxOccurrences *int
	// множитель за каждый повтор сверх первого, >= 1
	EscalationRate   *decimal.Decimal        `gorm:"type:decimal(6,2)"`
	OccurrenceWindow models.OccurrenceWindow `gorm:"type:varchar(10);default:period"`
	EffectiveFrom    time.Time               `gorm:"index"`
	EffectiveTo      *time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (p HRPolicy) Validate() error {
	if err := p.BaseSpaceModel.Validate(); err != nil {
		return err
	}
	if !p.Type.IsValid() {
		return errors.Errorf("неизвестный тип политики: %v", p.Type)
	}
	if p.PenaltyType != models.PenaltyTypeFixed && p.PenaltyType != models.PenaltyTypePercentage {
		return errors.Errorf("неизвестный тип штрафа: %v", p.PenaltyType)
	}
	if p.PenaltyType == models.PenaltyTypePercentage {
		if p.PenaltyBasis == nil || !p.PenaltyBasis.IsValid() {
			return errors.New("для процентного штрафа требуется база расчета")
		}
	}
	if p.PenaltyAmount.IsNegative() {
		return errors.New("размер штрафа не может быть отрицательным")
	}
	if p.GraceMinutes != nil && *p.GraceMinutes < 0 {
		return errors.New("грейс-период не может быть отрицательным")
	}
	if p.MaxOccurrences != nil && *p.MaxOccurrences < 1 {
		return errors.New("предел повторов должен быть не меньше 1")
	}
	// эскалация ниже единицы уменьшала бы штраф с каждым повтором
	if p.EscalationRate != nil && p.EscalationRate.LessThan(decimal.NewFromInt(1)) {
		return errors.New("коэффициент эскалации должен быть не меньше 1")
	}
	if p.OccurrenceWindow != "" &&
		p.OccurrenceWindow != models.OccurrenceWindowPeriod &&
		p.OccurrenceWindow != models.OccurrenceWindowAllTime {
		return errors.Errorf("неизвестное окно подсчета повторов: %v", p.OccurrenceWindow)
	}
	if p.EffectiveTo != nil && !p.EffectiveTo.After(p.EffectiveFrom) {
		return errors.New("окончание действия политики раньше начала")
	}
	return nil
}

// InForce - окно действия политики содержит момент now, граница окончания исключается
func (p HRPolicy) InForce(now time.Time) bool {
	if now.Before(p.EffectiveFrom) {
		return false
	}
	if p.EffectiveTo != nil && !now.Before(*p.EffectiveTo) {
		return false
	}
	return true
}
