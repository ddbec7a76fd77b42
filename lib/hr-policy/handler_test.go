package hrpolicyhandler

import (
	"testing"
	"time"

	"estate-office-backend/lib/utils/cache"
	"estate-office-backend/models"
	hrapimodels "estate-office-backend/models/api/hr"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakePolicyStore struct {
	recs            map[string]dbmodels.HRPolicy
	applicable      *dbmodels.HRPolicy
	applicableCalls int
}

func newFakePolicyStore() *fakePolicyStore {
	return &fakePolicyStore{
		recs: map[string]dbmodels.HRPolicy{},
	}
}

func (f *fakePolicyStore) Create(rec dbmodels.HRPolicy) (string, error) {
	rec.ID = "policy-1"
	f.recs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakePolicyStore) Save(rec dbmodels.HRPolicy) error {
	f.recs[rec.ID] = rec
	return nil
}

func (f *fakePolicyStore) GetByID(spaceID, id string) (*dbmodels.HRPolicy, error) {
	rec, exist := f.recs[id]
	if !exist || rec.SpaceID != spaceID {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakePolicyStore) SetActive(spaceID, id string, isActive bool) error {
	rec, exist := f.recs[id]
	if !exist {
		return errors.New("запись не найдена")
	}
	rec.IsActive = isActive
	f.recs[id] = rec
	return nil
}

func (f *fakePolicyStore) List(spaceID string, policyType models.PolicyType) ([]dbmodels.HRPolicy, error) {
	list := []dbmodels.HRPolicy{}
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (f *fakePolicyStore) GetApplicable(spaceID string, policyType models.PolicyType, now time.Time) (*dbmodels.HRPolicy, error) {
	f.applicableCalls++
	return f.applicable, nil
}

// fakePenaltyLedger - счетчик удержанных штрафов по политике
type fakePenaltyLedger struct {
	settledByPolicy map[string]int64
}

func (f *fakePenaltyLedger) CreateIdempotent(rec dbmodels.PenaltyRecord) (*dbmodels.PenaltyRecord, error) {
	return &rec, nil
}

func (f *fakePenaltyLedger) GetByID(spaceID, id string) (*dbmodels.PenaltyRecord, error) {
	return nil, nil
}

func (f *fakePenaltyLedger) GetBySource(spaceID, policyID string, sourceType models.PenaltySourceType, sourceID string) (*dbmodels.PenaltyRecord, error) {
	return nil, nil
}

func (f *fakePenaltyLedger) CountOccurrences(spaceID, staffProfileID, policyID, periodKey string) (int64, error) {
	return 0, nil
}

func (f *fakePenaltyLedger) CountSettledByPolicy(spaceID, policyID string) (int64, error) {
	return f.settledByPolicy[policyID], nil
}

func (f *fakePenaltyLedger) List(spaceID string, filter hrapimodels.PenaltyFilter) ([]dbmodels.PenaltyRecord, error) {
	return nil, nil
}

func (f *fakePenaltyLedger) ListCount(spaceID string, filter hrapimodels.PenaltyFilter) (int64, error) {
	return 0, nil
}

func (f *fakePenaltyLedger) ListPendingForPeriods(spaceID, staffProfileID string, periodKeys []string) ([]dbmodels.PenaltyRecord, error) {
	return nil, nil
}

func (f *fakePenaltyLedger) MarkSettledByIDs(spaceID string, ids []string, settledAt time.Time) error {
	return nil
}

func (f *fakePenaltyLedger) MarkVoidedBySource(spaceID string, sourceType models.PenaltySourceType, sourceID string, voidedAt time.Time) (int64, error) {
	return 0, nil
}

func getPolicyHandler(store *fakePolicyStore) impl {
	return impl{
		store:           store,
		penaltyStore:    &fakePenaltyLedger{settledByPolicy: map[string]int64{}},
		applicableCache: cache.New[*dbmodels.HRPolicy](time.Minute),
	}
}

func policyData() hrapimodels.PolicyData {
	return hrapimodels.PolicyData{
		Name:          "Опоздание",
		Type:          models.PolicyTypeLateness,
		IsActive:      true,
		IsAutomatic:   true,
		PenaltyType:   models.PenaltyTypeFixed,
		PenaltyAmount: decimal.NewFromInt(1000),
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPolicyHandler(t *testing.T) {
	t.Run(`create validation check`, func(t *testing.T) {
		i := getPolicyHandler(newFakePolicyStore())
		data := policyData()
		data.Type = "SMOKING"
		_, err := i.Create("space-1", data)
		require.Equal(t, true, errors.Is(err, models.ErrValidation))

		data = policyData()
		data.PenaltyType = models.PenaltyTypePercentage
		_, err = i.Create("space-1", data)
		require.Equal(t, true, errors.Is(err, models.ErrValidation))
	})

	t.Run(`create and get check`, func(t *testing.T) {
		store := newFakePolicyStore()
		i := getPolicyHandler(store)
		id, err := i.Create("space-1", policyData())
		require.Nil(t, err)
		require.NotEmpty(t, id)

		view, err := i.GetByID("space-1", id)
		require.Nil(t, err)
		require.Equal(t, "Опоздание", view.Name)
		require.Equal(t, models.OccurrenceWindowPeriod, view.OccurrenceWindow)

		_, err = i.GetByID("space-2", id)
		require.Equal(t, true, errors.Is(err, models.ErrNotFound))
	})

	t.Run(`applicable cached check`, func(t *testing.T) {
		store := newFakePolicyStore()
		policy := policyData().ToRecord("space-1")
		policy.ID = "policy-1"
		store.applicable = &policy
		i := getPolicyHandler(store)

		now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
		rec, err := i.GetApplicable("space-1", models.PolicyTypeLateness, now)
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, 1, store.applicableCalls)

		// повторный запрос идет из кэша
		rec, err = i.GetApplicable("space-1", models.PolicyTypeLateness, now)
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, 1, store.applicableCalls)

		// другой тип политики кэшем не накрыт
		_, err = i.GetApplicable("space-1", models.PolicyTypeAbsence, now)
		require.Nil(t, err)
		require.Equal(t, 2, store.applicableCalls)
	})

	t.Run(`negative result cached check`, func(t *testing.T) {
		store := newFakePolicyStore()
		i := getPolicyHandler(store)
		now := time.Now()

		rec, err := i.GetApplicable("space-1", models.PolicyTypeLateness, now)
		require.Nil(t, err)
		require.Nil(t, rec)
		require.Equal(t, 1, store.applicableCalls)

		rec, err = i.GetApplicable("space-1", models.PolicyTypeLateness, now)
		require.Nil(t, err)
		require.Nil(t, rec)
		require.Equal(t, 1, store.applicableCalls)
	})

	t.Run(`cached policy out of force check`, func(t *testing.T) {
		store := newFakePolicyStore()
		policy := policyData().ToRecord("space-1")
		policy.ID = "policy-1"
		to := policy.EffectiveFrom.AddDate(0, 1, 0)
		policy.EffectiveTo = &to
		store.applicable = &policy
		i := getPolicyHandler(store)

		inWindow := policy.EffectiveFrom.Add(time.Hour)
		rec, err := i.GetApplicable("space-1", models.PolicyTypeLateness, inWindow)
		require.Nil(t, err)
		require.Equal(t, "policy-1", rec.ID)
		require.Equal(t, 1, store.applicableCalls)

		// окно действия закончилось раньше, чем протух кэш:
		// вступившая следом версия перечитывается из хранилища
		successor := policyData().ToRecord("space-1")
		successor.ID = "policy-2"
		successor.EffectiveFrom = to
		store.applicable = &successor
		rec, err = i.GetApplicable("space-1", models.PolicyTypeLateness, to.Add(time.Hour))
		require.Nil(t, err)
		require.Equal(t, "policy-2", rec.ID)
		require.Equal(t, 2, store.applicableCalls)
	})

	t.Run(`update invalidates cache check`, func(t *testing.T) {
		store := newFakePolicyStore()
		i := getPolicyHandler(store)
		id, err := i.Create("space-1", policyData())
		require.Nil(t, err)

		policy := store.recs[id]
		store.applicable = &policy
		now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
		_, err = i.GetApplicable("space-1", models.PolicyTypeLateness, now)
		require.Nil(t, err)
		require.Equal(t, 1, store.applicableCalls)

		data := policyData()
		data.PenaltyAmount = decimal.NewFromInt(2000)
		require.Nil(t, i.Update("space-1", id, data))

		_, err = i.GetApplicable("space-1", models.PolicyTypeLateness, now)
		require.Nil(t, err)
		require.Equal(t, 2, store.applicableCalls)
		require.Equal(t, "2000", store.recs[id].PenaltyAmount.String())
	})

	t.Run(`update locked by settled penalties check`, func(t *testing.T) {
		store := newFakePolicyStore()
		i := getPolicyHandler(store)
		id, err := i.Create("space-1", policyData())
		require.Nil(t, err)

		// после первого удержания политика правится только новой версией
		i.penaltyStore = &fakePenaltyLedger{settledByPolicy: map[string]int64{id: 1}}
		data := policyData()
		data.PenaltyAmount = decimal.NewFromInt(2000)
		err = i.Update("space-1", id, data)
		require.Equal(t, true, errors.Is(err, models.ErrValidation))
		require.Equal(t, "1000", store.recs[id].PenaltyAmount.String())
	})

	t.Run(`set active check`, func(t *testing.T) {
		store := newFakePolicyStore()
		i := getPolicyHandler(store)
		id, err := i.Create("space-1", policyData())
		require.Nil(t, err)

		require.Nil(t, i.SetActive("space-1", id, false))
		require.Equal(t, false, store.recs[id].IsActive)

		err = i.SetActive("space-1", "missing", false)
		require.Equal(t, true, errors.Is(err, models.ErrNotFound))
	})
}
