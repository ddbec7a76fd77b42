package dbmodels

import (
	"time"

	"estate-office-backend/models"

	"github.com/shopspring/decimal"
)

// PenaltyRecord - рассчитанное удержание за одно нарушение.
// Пара (policy_id, source_type, source_id) уникальна: один факт
// штрафуется ровно один раз, гонки гасятся ограничением БД.
type PenaltyRecord struct {
	BaseSpaceModel
	StaffProfileID string                   `gorm:"type:varchar(36);index"`
	StaffProfile   *StaffProfile            `gorm:"foreignKey:StaffProfileID"`
	PolicyID       string                   `gorm:"type:varchar(36);uniqueIndex:idx_penalty_source"`
	Policy         *HRPolicy                `gorm:"foreignKey:PolicyID"`
	SourceType     models.PenaltySourceType `gorm:"type:varchar(20);uniqueIndex:idx_penalty_source"`
	SourceID       string                   `gorm:"type:varchar(36);uniqueIndex:idx_penalty_source"`
	// порядковый номер применения политики к сотруднику в окне подсчета, с 1
	OccurrenceIndex int
	Amount          decimal.Decimal      `gorm:"type:decimal(14,2)"`
	Currency        string               `gorm:"type:varchar(3)"`
	PeriodKey       string               `gorm:"type:varchar(7);index"`
	Status          models.PenaltyStatus `gorm:"type:varchar(10);index"`
	SettledAt       *time.Time
	VoidedAt        *time.Time
}

// PenaltyFact - входящий факт нарушения для движка штрафов.
// Очередь фактов дает повторную обработку вне транзакции задачи.
type PenaltyFact struct {
	BaseSpaceModel
	PolicyType     models.PolicyType        `gorm:"type:varchar(20)"`
	StaffProfileID string                   `gorm:"type:varchar(36);index"`
	SourceType     models.PenaltySourceType `gorm:"type:varchar(20)"`
	SourceID       string                   `gorm:"type:varchar(36)"`
	PeriodKey      string                   `gorm:"type:varchar(7)"`
	// величина нарушения: дни просрочки либо минуты опоздания
	Magnitude int
	Status    models.FactStatus `gorm:"type:varchar(10);index"`
	Attempts  int
	LastError string `gorm:"type:text"`
}
