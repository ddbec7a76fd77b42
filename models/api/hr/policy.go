package hrapimodels

import (
	"time"

	"estate-office-backend/models"
	dbmodels "estate-office-backend/models/db"

	"github.com/shopspring/decimal"
)

type PolicyData struct {
	Name             string                  `json:"name"`
	Type             models.PolicyType       `json:"type"`
	IsActive         bool                    `json:"is_active"`
	IsAutomatic      bool                    `json:"is_automatic"`
	PenaltyType      models.PenaltyType      `json:"penalty_type"`
	PenaltyAmount    decimal.Decimal         `json:"penalty_amount"`
	PenaltyBasis     *models.PenaltyBasis    `json:"penalty_basis,omitempty"`
	GraceMinutes     *int                    `json:"grace_minutes,omitempty"`
	MaxOccurrences   *int                    `json:"max_occurrences,omitempty"`
	EscalationRate   *decimal.Decimal        `json:"escalation_rate,omitempty"`
	OccurrenceWindow models.OccurrenceWindow `json:"occurrence_window,omitempty"`
	EffectiveFrom    time.Time               `json:"effective_from"`
	EffectiveTo      *time.Time              `json:"effective_to,omitempty"`
}

func (r PolicyData) ToRecord(spaceID string) dbmodels.HRPolicy {
	rec := dbmodels.HRPolicy{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Name:             r.Name,
		Type:             r.Type,
		IsActive:         r.IsActive,
		IsAutomatic:      r.IsAutomatic,
		PenaltyType:      r.PenaltyType,
		PenaltyAmount:    r.PenaltyAmount,
		PenaltyBasis:     r.PenaltyBasis,
		GraceMinutes:     r.GraceMinutes,
		MaxOccurrences:   r.MaxOccurrences,
		EscalationRate:   r.EscalationRate,
		OccurrenceWindow: r.OccurrenceWindow,
		EffectiveFrom:    r.EffectiveFrom,
		EffectiveTo:      r.EffectiveTo,
	}
	if rec.OccurrenceWindow == "" {
		rec.OccurrenceWindow = models.OccurrenceWindowPeriod
	}
	return rec
}

type PolicyView struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Type             models.PolicyType       `json:"type"`
	TypeName         string                  `json:"type_name"`
	IsActive         bool                    `json:"is_active"`
	IsAutomatic      bool                    `json:"is_automatic"`
	PenaltyType      models.PenaltyType      `json:"penalty_type"`
	PenaltyAmount    decimal.Decimal         `json:"penalty_amount"`
	PenaltyBasis     *models.PenaltyBasis    `json:"penalty_basis,omitempty"`
	GraceMinutes     *int                    `json:"grace_minutes,omitempty"`
	MaxOccurrences   *int                    `json:"max_occurrences,omitempty"`
	EscalationRate   *decimal.Decimal        `json:"escalation_rate,omitempty"`
	OccurrenceWindow models.OccurrenceWindow `json:"occurrence_window"`
	EffectiveFrom    time.Time               `json:"effective_from"`
	EffectiveTo      *time.Time              `json:"effective_to,omitempty"`
}

func PolicyConvert(rec dbmodels.HRPolicy) PolicyView {
	return PolicyView{
		ID:               rec.ID,
		Name:             rec.Name,
		Type:             rec.Type,
		TypeName:         rec.Type.ToHuman(),
		IsActive:         rec.IsActive,
		IsAutomatic:      rec.IsAutomatic,
		PenaltyType:      rec.PenaltyType,
		PenaltyAmount:    rec.PenaltyAmount,
		PenaltyBasis:     rec.PenaltyBasis,
		GraceMinutes:     rec.GraceMinutes,
		MaxOccurrences:   rec.MaxOccurrences,
		EscalationRate:   rec.EscalationRate,
		OccurrenceWindow: rec.OccurrenceWindow,
		EffectiveFrom:    rec.EffectiveFrom,
		EffectiveTo:      rec.EffectiveTo,
	}
}
