package penaltyhandler

import (
	"fmt"
	"time"

	"estate-office-backend/db"
	hrpolicyhandler "estate-office-backend/lib/hr-policy"
	penaltyfactstore "estate-office-backend/lib/penalty/fact-store"
	penaltystore "estate-office-backend/lib/penalty/store"
	pushhandler "estate-office-backend/lib/space/push/handler"
	staffstore "estate-office-backend/lib/staff/store"
	"estate-office-backend/models"
	hrapimodels "estate-office-backend/models/api/hr"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// ReportFact - прием факта нарушения извне (посещаемость, ручная фиксация);
	// факт сохраняется в очередь и сразу оценивается
	ReportFact(spaceID string, data hrapimodels.PenaltyFactData) (rec *dbmodels.PenaltyRecord, err error)
	// Evaluate - оценка факта движком. Возвращает nil без ошибки, когда
	// удержание не положено: нет действующей политики, политика ручная
	// либо величина в пределах грейс-периода
	Evaluate(fact dbmodels.PenaltyFact) (rec *dbmodels.PenaltyRecord, err error)
	// EvaluateQueued - оценка факта из очереди с проставлением его статуса
	EvaluateQueued(fact dbmodels.PenaltyFact) error
	// VoidBySource - аннулирование неудержанных штрафов по источнику,
	// вызывается при переоткрытии задачи
	VoidBySource(spaceID string, sourceType models.PenaltySourceType, sourceID string) (voided int64, err error)
	GetByID(spaceID, id string) (item hrapimodels.PenaltyView, err error)
	List(spaceID string, filter hrapimodels.PenaltyFilter) (list []hrapimodels.PenaltyView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:       penaltystore.NewInstance(db.DB),
		factStore:   penaltyfactstore.NewInstance(db.DB),
		staffStore:  staffstore.NewInstance(db.DB),
		policies:    hrpolicyhandler.Instance,
		pushHandler: pushhandler.Instance,
	}
}

type impl struct {
	store       penaltystore.Provider
	factStore   penaltyfactstore.Provider
	staffStore  staffstore.Provider
	policies    hrpolicyhandler.Provider
	pushHandler pushhandler.Provider
}

func (i impl) ReportFact(spaceID string, data hrapimodels.PenaltyFactData) (*dbmodels.PenaltyRecord, error) {
	logger := log.WithField("space_id", spaceID).
		WithField("source_id", data.SourceID)
	if err := data.Validate(); err != nil {
		return nil, errors.Wrap(models.ErrValidation, err.Error())
	}
	staff, err := i.staffStore.GetByID(spaceID, data.StaffProfileID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, errors.Wrap(models.ErrNotFound, "профиль сотрудника не найден")
	}
	occurredAt := data.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	fact := dbmodels.PenaltyFact{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		PolicyType:     data.PolicyType,
		StaffProfileID: data.StaffProfileID,
		SourceType:     data.SourceType,
		SourceID:       data.SourceID,
		PeriodKey:      models.PeriodKeyFor(occurredAt),
		Magnitude:      data.Magnitude,
		Status:         models.FactStatusNew,
	}
	factID, err := i.factStore.Create(fact)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения факта нарушения")
		return nil, err
	}
	fact.ID = factID
	rec, err := i.Evaluate(fact)
	if err != nil {
		// факт остается в очереди, воркер дообработает
		if markErr := i.factStore.MarkStatus(factID, models.FactStatusFailed, err.Error()); markErr != nil {
			logger.WithError(markErr).Error("ошибка смены статуса факта")
		}
		return nil, err
	}
	status := models.FactStatusDone
	if rec == nil {
		status = models.FactStatusSkipped
	}
	if err = i.factStore.MarkStatus(factID, status, ""); err != nil {
		logger.WithError(err).Error("ошибка смены статуса факта")
	}
	return rec, nil
}

func (i impl) Evaluate(fact dbmodels.PenaltyFact) (*dbmodels.PenaltyRecord, error) {
	logger := log.WithField("space_id", fact.SpaceID).
		WithField("fact_id", fact.ID).
		WithField("policy_type", fact.PolicyType)

	policy, err := i.policies.GetApplicable(fact.SpaceID, fact.PolicyType, time.Now())
	if err != nil {
		return nil, err
	}
	if policy == nil || !policy.IsAutomatic {
		return nil, nil
	}
	// проверка до расчета: факт уже мог быть оштрафован другим путем
	exist, err := i.store.GetBySource(fact.SpaceID, policy.ID, fact.SourceType, fact.SourceID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return exist, nil
	}
	if policy.Type.IsMinuteBased() && policy.GraceMinutes != nil && fact.Magnitude <= *policy.GraceMinutes {
		logger.WithField("magnitude", fact.Magnitude).Info("нарушение в пределах грейс-периода")
		return nil, nil
	}
	staff, err := i.staffStore.GetByID(fact.SpaceID, fact.StaffProfileID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, errors.Wrap(models.ErrNotFound, "профиль сотрудника не найден")
	}

	countKey := fact.PeriodKey
	if policy.OccurrenceWindow == models.OccurrenceWindowAllTime {
		countKey = ""
	}
	count, err := i.store.CountOccurrences(fact.SpaceID, fact.StaffProfileID, policy.ID, countKey)
	if err != nil {
		return nil, err
	}
	occurrence := int(count) + 1
	amount := i.calcAmount(*policy, *staff, occurrence)

	rec := dbmodels.PenaltyRecord{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: fact.SpaceID,
		},
		StaffProfileID:  fact.StaffProfileID,
		PolicyID:        policy.ID,
		SourceType:      fact.SourceType,
		SourceID:        fact.SourceID,
		OccurrenceIndex: occurrence,
		Amount:          amount,
		Currency:        staff.Currency,
		PeriodKey:       fact.PeriodKey,
		Status:          models.PenaltyStatusPending,
	}
	saved, err := i.store.CreateIdempotent(rec)
	if err != nil {
		// гонка с параллельной оценкой того же источника
		if errors.Is(err, models.ErrDuplicateFact) {
			return saved, nil
		}
		logger.WithError(err).Error("ошибка сохранения штрафа")
		return nil, err
	}
	logger.WithField("rec_id", saved.ID).
		WithField("occurrence", occurrence).
		WithField("amount", amount.String()).
		Info("начислено удержание")
	i.notifyStaff(*staff, *policy, amount)
	return saved, nil
}

func (i impl) EvaluateQueued(fact dbmodels.PenaltyFact) error {
	rec, err := i.Evaluate(fact)
	if err != nil {
		if markErr := i.factStore.MarkStatus(fact.ID, models.FactStatusFailed, err.Error()); markErr != nil {
			log.WithField("fact_id", fact.ID).
				WithError(markErr).
				Error("ошибка смены статуса факта")
		}
		return err
	}
	status := models.FactStatusDone
	if rec == nil {
		status = models.FactStatusSkipped
	}
	return i.factStore.MarkStatus(fact.ID, status, "")
}

func (i impl) VoidBySource(spaceID string, sourceType models.PenaltySourceType, sourceID string) (int64, error) {
	logger := log.WithField("space_id", spaceID).
		WithField("source_id", sourceID)
	voided, err := i.store.MarkVoidedBySource(spaceID, sourceType, sourceID, time.Now())
	if err != nil {
		logger.WithError(err).Error("ошибка аннулирования штрафов")
		return 0, err
	}
	if voided > 0 {
		logger.WithField("voided", voided).Info("аннулированы штрафы по источнику")
	}
	return voided, nil
}

func (i impl) GetByID(spaceID, id string) (hrapimodels.PenaltyView, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return hrapimodels.PenaltyView{}, err
	}
	if rec == nil {
		return hrapimodels.PenaltyView{}, errors.Wrap(models.ErrNotFound, "штраф не найден")
	}
	return hrapimodels.PenaltyConvert(*rec), nil
}

func (i impl) List(spaceID string, filter hrapimodels.PenaltyFilter) (list []hrapimodels.PenaltyView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := i.store.List(spaceID, filter)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithError(err).
			Error("ошибка получения списка штрафов")
		return nil, 0, err
	}
	result := make([]hrapimodels.PenaltyView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, hrapimodels.PenaltyConvert(rec))
	}
	return result, rowCount, nil
}

// calcAmount - размер удержания с учетом эскалации за повторы.
// Повтор сверх предела штрафуется по размеру предельного повтора,
// запись при этом все равно создается
func (i impl) calcAmount(policy dbmodels.HRPolicy, staff dbmodels.StaffProfile, occurrence int) decimal.Decimal {
	base := policy.PenaltyAmount
	if policy.PenaltyType == models.PenaltyTypePercentage && policy.PenaltyBasis != nil {
		base = staff.SalaryBasis(*policy.PenaltyBasis).
			Mul(policy.PenaltyAmount).
			Div(decimal.NewFromInt(100))
	}
	effective := occurrence
	if policy.MaxOccurrences != nil && effective > *policy.MaxOccurrences {
		effective = *policy.MaxOccurrences
	}
	amount := base
	if policy.EscalationRate != nil && effective > 1 {
		amount = base.Mul(policy.EscalationRate.Pow(decimal.NewFromInt(int64(effective - 1))))
	}
	return amount.RoundBank(2)
}

func (i impl) notifyStaff(staff dbmodels.StaffProfile, policy dbmodels.HRPolicy, amount decimal.Decimal) {
	msg := fmt.Sprintf("Начислено удержание «%s» на сумму %s %s",
		policy.Name, amount.StringFixed(2), staff.Currency)
	go i.pushHandler.SendNotification(staff.UserID, models.PushPenaltyApplied,
		"Новое удержание", msg, "")
}
