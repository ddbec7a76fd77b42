package hrapimodels

import (
	"time"

	"estate-office-backend/models"
	apimodels "estate-office-backend/models/api"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PenaltyFactData - факт нарушения, поступающий от учета посещаемости
// либо от ручной фиксации; факты задач движок получает сам.
type PenaltyFactData struct {
	PolicyType     models.PolicyType        `json:"policy_type"`
	StaffProfileID string                   `json:"staff_profile_id"`
	SourceType     models.PenaltySourceType `json:"source_type"`
	SourceID       string                   `json:"source_id"`
	Magnitude      int                      `json:"magnitude"`
	OccurredAt     time.Time                `json:"occurred_at"`
}

func (r PenaltyFactData) Validate() error {
	if !r.PolicyType.IsValid() {
		return errors.Errorf("неизвестный тип политики: %v", r.PolicyType)
	}
	if r.StaffProfileID == "" {
		return errors.New("не указан сотрудник")
	}
	if r.SourceID == "" {
		return errors.New("не указан источник факта")
	}
	if r.Magnitude < 0 {
		return errors.New("величина нарушения не может быть отрицательной")
	}
	return nil
}

type PenaltyFilter struct {
	apimodels.Pagination
	StaffProfileID string               `json:"staff_profile_id"`
	PeriodKey      string               `json:"period_key"`
	Status         models.PenaltyStatus `json:"status"`
}

func (r PenaltyFilter) Validate() error {
	return nil
}

type PenaltyView struct {
	ID              string                   `json:"id"`
	StaffProfileID  string                   `json:"staff_profile_id"`
	StaffName       string                   `json:"staff_name,omitempty"`
	PolicyID        string                   `json:"policy_id"`
	PolicyName      string                   `json:"policy_name,omitempty"`
	PolicyType      models.PolicyType        `json:"policy_type,omitempty"`
	SourceType      models.PenaltySourceType `json:"source_type"`
	SourceID        string                   `json:"source_id"`
	OccurrenceIndex int                      `json:"occurrence_index"`
	Amount          decimal.Decimal          `json:"amount"`
	Currency        string                   `json:"currency"`
	PeriodKey       string                   `json:"period_key"`
	Status          models.PenaltyStatus     `json:"status"`
	SettledAt       *time.Time               `json:"settled_at,omitempty"`
	VoidedAt        *time.Time               `json:"voided_at,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

func PenaltyConvert(rec dbmodels.PenaltyRecord) PenaltyView {
	view := PenaltyView{
		ID:              rec.ID,
		StaffProfileID:  rec.StaffProfileID,
		PolicyID:        rec.PolicyID,
		SourceType:      rec.SourceType,
		SourceID:        rec.SourceID,
		OccurrenceIndex: rec.OccurrenceIndex,
		Amount:          rec.Amount,
		Currency:        rec.Currency,
		PeriodKey:       rec.PeriodKey,
		Status:          rec.Status,
		SettledAt:       rec.SettledAt,
		VoidedAt:        rec.VoidedAt,
		CreatedAt:       rec.CreatedAt,
	}
	if rec.StaffProfile != nil && rec.StaffProfile.User != nil {
		view.StaffName = rec.StaffProfile.User.GetFullName()
	}
	if rec.Policy != nil {
		view.PolicyName = rec.Policy.Name
		view.PolicyType = rec.Policy.Type
	}
	return view
}
