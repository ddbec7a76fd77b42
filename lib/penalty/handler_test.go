package penaltyhandler

import (
	"fmt"
	"testing"
	"time"

	"estate-office-backend/models"
	hrapimodels "estate-office-backend/models/api/hr"
	pushapimodels "estate-office-backend/models/api/push"
	staffapimodels "estate-office-backend/models/api/staff"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakePenaltyStore struct {
	recs []dbmodels.PenaltyRecord
	// вставка натыкается на параллельно созданную запись
	raceWith *dbmodels.PenaltyRecord
}

func (f *fakePenaltyStore) CreateIdempotent(rec dbmodels.PenaltyRecord) (*dbmodels.PenaltyRecord, error) {
	if f.raceWith != nil {
		return f.raceWith, errors.Wrap(models.ErrDuplicateFact, "штраф по источнику уже начислен")
	}
	exist, _ := f.GetBySource(rec.SpaceID, rec.PolicyID, rec.SourceType, rec.SourceID)
	if exist != nil {
		return exist, errors.Wrap(models.ErrDuplicateFact, "штраф по источнику уже начислен")
	}
	rec.ID = fmt.Sprintf("pen-%d", len(f.recs)+1)
	f.recs = append(f.recs, rec)
	return &rec, nil
}

func (f *fakePenaltyStore) GetByID(spaceID, id string) (*dbmodels.PenaltyRecord, error) {
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakePenaltyStore) GetBySource(spaceID, policyID string, sourceType models.PenaltySourceType, sourceID string) (*dbmodels.PenaltyRecord, error) {
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.PolicyID == policyID &&
			rec.SourceType == sourceType && rec.SourceID == sourceID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakePenaltyStore) CountOccurrences(spaceID, staffProfileID, policyID, periodKey string) (int64, error) {
	count := int64(0)
	for _, rec := range f.recs {
		if rec.SpaceID != spaceID || rec.StaffProfileID != staffProfileID ||
			rec.PolicyID != policyID || rec.Status == models.PenaltyStatusVoided {
			continue
		}
		if periodKey != "" && rec.PeriodKey != periodKey {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakePenaltyStore) List(spaceID string, filter hrapimodels.PenaltyFilter) ([]dbmodels.PenaltyRecord, error) {
	list := []dbmodels.PenaltyRecord{}
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (f *fakePenaltyStore) ListCount(spaceID string, filter hrapimodels.PenaltyFilter) (int64, error) {
	list, _ := f.List(spaceID, filter)
	return int64(len(list)), nil
}

func (f *fakePenaltyStore) CountSettledByPolicy(spaceID, policyID string) (int64, error) {
	count := int64(0)
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.PolicyID == policyID &&
			rec.Status == models.PenaltyStatusSettled {
			count++
		}
	}
	return count, nil
}

func (f *fakePenaltyStore) ListPendingForPeriods(spaceID, staffProfileID string, periodKeys []string) ([]dbmodels.PenaltyRecord, error) {
	list := []dbmodels.PenaltyRecord{}
	for _, rec := range f.recs {
		if rec.SpaceID != spaceID || rec.StaffProfileID != staffProfileID ||
			rec.Status != models.PenaltyStatusPending {
			continue
		}
		for _, key := range periodKeys {
			if rec.PeriodKey == key {
				list = append(list, rec)
				break
			}
		}
	}
	return list, nil
}

func (f *fakePenaltyStore) MarkSettledByIDs(spaceID string, ids []string, settledAt time.Time) error {
	for idx, rec := range f.recs {
		for _, id := range ids {
			if rec.SpaceID == spaceID && rec.ID == id && rec.Status == models.PenaltyStatusPending {
				f.recs[idx].Status = models.PenaltyStatusSettled
				f.recs[idx].SettledAt = &settledAt
			}
		}
	}
	return nil
}

func (f *fakePenaltyStore) MarkVoidedBySource(spaceID string, sourceType models.PenaltySourceType, sourceID string, voidedAt time.Time) (int64, error) {
	voided := int64(0)
	for idx, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.SourceType == sourceType &&
			rec.SourceID == sourceID && rec.Status == models.PenaltyStatusPending {
			f.recs[idx].Status = models.PenaltyStatusVoided
			f.recs[idx].VoidedAt = &voidedAt
			voided++
		}
	}
	return voided, nil
}

type fakeFactStore struct {
	facts map[string]dbmodels.PenaltyFact
}

func newFakeFactStore() *fakeFactStore {
	return &fakeFactStore{
		facts: map[string]dbmodels.PenaltyFact{},
	}
}

func (f *fakeFactStore) Create(rec dbmodels.PenaltyFact) (string, error) {
	if rec.Status == "" {
		rec.Status = models.FactStatusNew
	}
	rec.ID = fmt.Sprintf("fact-%d", len(f.facts)+1)
	f.facts[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeFactStore) GetByID(id string) (*dbmodels.PenaltyFact, error) {
	rec, exist := f.facts[id]
	if !exist {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeFactStore) ListUnprocessed(maxAttempts, limit int) ([]dbmodels.PenaltyFact, error) {
	list := []dbmodels.PenaltyFact{}
	for _, rec := range f.facts {
		if (rec.Status == models.FactStatusNew || rec.Status == models.FactStatusFailed) &&
			rec.Attempts < maxAttempts {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (f *fakeFactStore) MarkStatus(id string, status models.FactStatus, lastError string) error {
	rec, exist := f.facts[id]
	if !exist {
		return errors.New("факт не найден")
	}
	rec.Status = status
	rec.LastError = lastError
	rec.Attempts++
	f.facts[id] = rec
	return nil
}

type fakeStaffStore struct {
	recs map[string]dbmodels.StaffProfile
}

func (f *fakeStaffStore) Create(rec dbmodels.StaffProfile) (string, error) {
	f.recs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeStaffStore) GetByID(spaceID, id string) (*dbmodels.StaffProfile, error) {
	rec, exist := f.recs[id]
	if !exist || rec.SpaceID != spaceID {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeStaffStore) GetByUserID(spaceID, userID string) (*dbmodels.StaffProfile, error) {
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.UserID == userID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeStaffStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}

func (f *fakeStaffStore) List(spaceID string, filter staffapimodels.StaffFilter) ([]dbmodels.StaffProfile, error) {
	return nil, nil
}

func (f *fakeStaffStore) ListCount(spaceID string, filter staffapimodels.StaffFilter) (int64, error) {
	return 0, nil
}

func (f *fakeStaffStore) ListActive(spaceID string) ([]dbmodels.StaffProfile, error) {
	list := []dbmodels.StaffProfile{}
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.IsActive {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fakePolicies struct {
	applicable map[models.PolicyType]*dbmodels.HRPolicy
}

func (f *fakePolicies) Create(spaceID string, data hrapimodels.PolicyData) (string, error) {
	return "", nil
}

func (f *fakePolicies) GetByID(spaceID, id string) (hrapimodels.PolicyView, error) {
	return hrapimodels.PolicyView{}, nil
}

func (f *fakePolicies) Update(spaceID, id string, data hrapimodels.PolicyData) error {
	return nil
}

func (f *fakePolicies) SetActive(spaceID, id string, isActive bool) error {
	return nil
}

func (f *fakePolicies) List(spaceID string, policyType models.PolicyType) ([]hrapimodels.PolicyView, error) {
	return nil, nil
}

func (f *fakePolicies) GetApplicable(spaceID string, policyType models.PolicyType, now time.Time) (*dbmodels.HRPolicy, error) {
	return f.applicable[policyType], nil
}

type fakePushHandler struct{}

func (f fakePushHandler) SendNotification(userID string, code models.SpacePushSettingCode, title, msg, link string) {
}

func (f fakePushHandler) ListNotifications(userID string, onlyUnread bool) ([]pushapimodels.NotificationView, error) {
	return nil, nil
}

func (f fakePushHandler) MarkRead(userID, id string) error {
	return nil
}

func (f fakePushHandler) GetSettings(spaceID, userID string) ([]pushapimodels.SettingView, error) {
	return nil, nil
}

func (f fakePushHandler) SaveSetting(spaceID, userID string, data pushapimodels.SettingData) error {
	return nil
}

type penaltyEnv struct {
	handler   impl
	store     *fakePenaltyStore
	factStore *fakeFactStore
	policies  *fakePolicies
}

func getPenaltyEnv() penaltyEnv {
	store := &fakePenaltyStore{}
	factStore := newFakeFactStore()
	policies := &fakePolicies{
		applicable: map[models.PolicyType]*dbmodels.HRPolicy{},
	}
	staffStore := &fakeStaffStore{
		recs: map[string]dbmodels.StaffProfile{
			"staff-1": {
				BaseSpaceModel: dbmodels.BaseSpaceModel{
					BaseModel: dbmodels.BaseModel{ID: "staff-1"},
					SpaceID:   "space-1",
				},
				UserID:     "user-1",
				BaseSalary: decimal.NewFromInt(210000),
				Currency:   "RUB",
				IsActive:   true,
			},
		},
	}
	return penaltyEnv{
		handler: impl{
			store:       store,
			factStore:   factStore,
			staffStore:  staffStore,
			policies:    policies,
			pushHandler: fakePushHandler{},
		},
		store:     store,
		factStore: factStore,
		policies:  policies,
	}
}

func latenessPolicy() *dbmodels.HRPolicy {
	grace := 15
	return &dbmodels.HRPolicy{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: "policy-1"},
			SpaceID:   "space-1",
		},
		Name:             "Опоздание",
		Type:             models.PolicyTypeLateness,
		IsActive:         true,
		IsAutomatic:      true,
		PenaltyType:      models.PenaltyTypeFixed,
		PenaltyAmount:    decimal.NewFromInt(1000),
		GraceMinutes:     &grace,
		OccurrenceWindow: models.OccurrenceWindowPeriod,
		EffectiveFrom:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func latenessFact(magnitude int) hrapimodels.PenaltyFactData {
	return hrapimodels.PenaltyFactData{
		PolicyType:     models.PolicyTypeLateness,
		StaffProfileID: "staff-1",
		SourceType:     models.PenaltySourceAttendance,
		SourceID:       "att-1",
		Magnitude:      magnitude,
		OccurredAt:     time.Date(2026, 3, 2, 9, 40, 0, 0, time.UTC),
	}
}

func seedPenalty(store *fakePenaltyStore, sourceID, periodKey string, status models.PenaltyStatus) {
	store.recs = append(store.recs, dbmodels.PenaltyRecord{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: "pen-seed-" + sourceID},
			SpaceID:   "space-1",
		},
		StaffProfileID: "staff-1",
		PolicyID:       "policy-1",
		SourceType:     models.PenaltySourceAttendance,
		SourceID:       sourceID,
		Amount:         decimal.NewFromInt(1000),
		Currency:       "RUB",
		PeriodKey:      periodKey,
		Status:         status,
	})
}

func TestReportFact(t *testing.T) {
	t.Run(`validation check`, func(t *testing.T) {
		env := getPenaltyEnv()
		data := latenessFact(20)
		data.StaffProfileID = ""
		_, err := env.handler.ReportFact("space-1", data)
		require.Equal(t, true, errors.Is(err, models.ErrValidation))
	})

	t.Run(`unknown staff check`, func(t *testing.T) {
		env := getPenaltyEnv()
		data := latenessFact(20)
		data.StaffProfileID = "staff-missing"
		_, err := env.handler.ReportFact("space-1", data)
		require.Equal(t, true, errors.Is(err, models.ErrNotFound))
	})

	t.Run(`no policy check`, func(t *testing.T) {
		env := getPenaltyEnv()
		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.Nil(t, rec)
		fact, err := env.factStore.GetByID("fact-1")
		require.Nil(t, err)
		require.Equal(t, models.FactStatusSkipped, fact.Status)
	})

	t.Run(`manual policy check`, func(t *testing.T) {
		env := getPenaltyEnv()
		policy := latenessPolicy()
		policy.IsAutomatic = false
		env.policies.applicable[models.PolicyTypeLateness] = policy
		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.Nil(t, rec)
		require.Len(t, env.store.recs, 0)
	})

	t.Run(`grace period check`, func(t *testing.T) {
		env := getPenaltyEnv()
		env.policies.applicable[models.PolicyTypeLateness] = latenessPolicy()

		// 10 минут при грейсе 15 - без удержания
		rec, err := env.handler.ReportFact("space-1", latenessFact(10))
		require.Nil(t, err)
		require.Nil(t, rec)
		fact, err := env.factStore.GetByID("fact-1")
		require.Nil(t, err)
		require.Equal(t, models.FactStatusSkipped, fact.Status)

		// 20 минут - удержание начисляется
		rec, err = env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, "1000", rec.Amount.String())
		require.Equal(t, 1, rec.OccurrenceIndex)
		require.Equal(t, models.PenaltyStatusPending, rec.Status)
		require.Equal(t, "2026-03", rec.PeriodKey)
		fact, err = env.factStore.GetByID("fact-2")
		require.Nil(t, err)
		require.Equal(t, models.FactStatusDone, fact.Status)
	})

	t.Run(`grace not applied to day based check`, func(t *testing.T) {
		env := getPenaltyEnv()
		policy := latenessPolicy()
		policy.Type = models.PolicyTypeLateTask
		env.policies.applicable[models.PolicyTypeLateTask] = policy

		// грейс в днях не интерпретируется: 1 день просрочки штрафуется
		data := latenessFact(1)
		data.PolicyType = models.PolicyTypeLateTask
		data.SourceType = models.PenaltySourceTask
		rec, err := env.handler.ReportFact("space-1", data)
		require.Nil(t, err)
		require.NotNil(t, rec)
	})

	t.Run(`duplicate source check`, func(t *testing.T) {
		env := getPenaltyEnv()
		env.policies.applicable[models.PolicyTypeLateness] = latenessPolicy()
		seedPenalty(env.store, "att-1", "2026-03", models.PenaltyStatusPending)

		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, "pen-seed-att-1", rec.ID)
		require.Len(t, env.store.recs, 1)
	})

	t.Run(`insert race returns existing check`, func(t *testing.T) {
		env := getPenaltyEnv()
		env.policies.applicable[models.PolicyTypeLateness] = latenessPolicy()
		env.store.raceWith = &dbmodels.PenaltyRecord{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				BaseModel: dbmodels.BaseModel{ID: "pen-race"},
				SpaceID:   "space-1",
			},
			Status: models.PenaltyStatusPending,
		}

		// конфликт вставки для вызывающего не ошибка
		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, "pen-race", rec.ID)
		require.Len(t, env.store.recs, 0)
		fact, err := env.factStore.GetByID("fact-1")
		require.Nil(t, err)
		require.Equal(t, models.FactStatusDone, fact.Status)
	})
}

func TestEvaluateEscalation(t *testing.T) {
	t.Run(`escalation check`, func(t *testing.T) {
		env := getPenaltyEnv()
		policy := latenessPolicy()
		base := decimal.NewFromInt(5000)
		rate := decimal.NewFromFloat(1.5)
		policy.PenaltyAmount = base
		policy.EscalationRate = &rate
		env.policies.applicable[models.PolicyTypeLateness] = policy
		seedPenalty(env.store, "att-0", "2026-03", models.PenaltyStatusPending)

		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, 2, rec.OccurrenceIndex)
		require.Equal(t, "7500", rec.Amount.String())
	})

	t.Run(`escalation cap check`, func(t *testing.T) {
		env := getPenaltyEnv()
		policy := latenessPolicy()
		rate := decimal.NewFromInt(2)
		maxOcc := 3
		policy.EscalationRate = &rate
		policy.MaxOccurrences = &maxOcc
		env.policies.applicable[models.PolicyTypeLateness] = policy
		for n := 0; n < 5; n++ {
			seedPenalty(env.store, fmt.Sprintf("att-seed-%d", n), "2026-03", models.PenaltyStatusPending)
		}

		// номер повтора растет, размер заморожен на пределе
		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, 6, rec.OccurrenceIndex)
		require.Equal(t, "4000", rec.Amount.String())
	})

	t.Run(`voided excluded from count check`, func(t *testing.T) {
		env := getPenaltyEnv()
		env.policies.applicable[models.PolicyTypeLateness] = latenessPolicy()
		seedPenalty(env.store, "att-0", "2026-03", models.PenaltyStatusVoided)

		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.Equal(t, 1, rec.OccurrenceIndex)
	})

	t.Run(`period window check`, func(t *testing.T) {
		env := getPenaltyEnv()
		env.policies.applicable[models.PolicyTypeLateness] = latenessPolicy()
		// прошлый период в окне period не считается
		seedPenalty(env.store, "att-0", "2026-02", models.PenaltyStatusPending)

		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.Equal(t, 1, rec.OccurrenceIndex)
	})

	t.Run(`all time window check`, func(t *testing.T) {
		env := getPenaltyEnv()
		policy := latenessPolicy()
		policy.OccurrenceWindow = models.OccurrenceWindowAllTime
		env.policies.applicable[models.PolicyTypeLateness] = policy
		seedPenalty(env.store, "att-0", "2026-02", models.PenaltyStatusPending)

		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.Equal(t, 2, rec.OccurrenceIndex)
	})
}

func TestEvaluatePercentage(t *testing.T) {
	t.Run(`percentage of daily salary check`, func(t *testing.T) {
		env := getPenaltyEnv()
		policy := latenessPolicy()
		basis := models.PenaltyBasisDailySalary
		policy.PenaltyType = models.PenaltyTypePercentage
		policy.PenaltyBasis = &basis
		policy.PenaltyAmount = decimal.NewFromInt(10)
		env.policies.applicable[models.PolicyTypeLateness] = policy

		// 10% дневного оклада: 210000 / 21 = 10000, удержание 1000
		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, "1000", rec.Amount.String())
	})

	t.Run(`banker rounding check`, func(t *testing.T) {
		env := getPenaltyEnv()
		policy := latenessPolicy()
		basis := models.PenaltyBasisHourlyRate
		policy.PenaltyType = models.PenaltyTypePercentage
		policy.PenaltyBasis = &basis
		policy.PenaltyAmount = decimal.NewFromFloat(0.33)
		env.policies.applicable[models.PolicyTypeLateness] = policy

		// 0.33% часовой ставки: 1250 * 0.0033 = 4.125 -> 4.12
		rec, err := env.handler.ReportFact("space-1", latenessFact(20))
		require.Nil(t, err)
		require.Equal(t, "4.12", rec.Amount.String())
	})
}

func TestVoidBySource(t *testing.T) {
	t.Run(`void pending only check`, func(t *testing.T) {
		env := getPenaltyEnv()
		seedPenalty(env.store, "task-1", "2026-03", models.PenaltyStatusPending)
		env.store.recs[0].SourceType = models.PenaltySourceTask
		seedPenalty(env.store, "task-1", "2026-02", models.PenaltyStatusSettled)
		env.store.recs[1].SourceType = models.PenaltySourceTask

		voided, err := env.handler.VoidBySource("space-1", models.PenaltySourceTask, "task-1")
		require.Nil(t, err)
		require.Equal(t, int64(1), voided)
		require.Equal(t, models.PenaltyStatusVoided, env.store.recs[0].Status)
		require.Equal(t, models.PenaltyStatusSettled, env.store.recs[1].Status)
	})
}

func TestEvaluateQueued(t *testing.T) {
	t.Run(`queued fact marked check`, func(t *testing.T) {
		env := getPenaltyEnv()
		env.policies.applicable[models.PolicyTypeLateness] = latenessPolicy()
		factID, err := env.factStore.Create(dbmodels.PenaltyFact{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: "space-1",
			},
			PolicyType:     models.PolicyTypeLateness,
			StaffProfileID: "staff-1",
			SourceType:     models.PenaltySourceAttendance,
			SourceID:       "att-9",
			PeriodKey:      "2026-03",
			Magnitude:      30,
		})
		require.Nil(t, err)
		fact, err := env.factStore.GetByID(factID)
		require.Nil(t, err)

		require.Nil(t, env.handler.EvaluateQueued(*fact))
		fact, err = env.factStore.GetByID(factID)
		require.Nil(t, err)
		require.Equal(t, models.FactStatusDone, fact.Status)
		require.Equal(t, 1, fact.Attempts)
		require.Len(t, env.store.recs, 1)
	})
}
