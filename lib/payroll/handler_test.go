package payrollhandler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"estate-office-backend/models"
	hrapimodels "estate-office-backend/models/api/hr"
	payrollapimodels "estate-office-backend/models/api/payroll"
	pushapimodels "estate-office-backend/models/api/push"
	staffapimodels "estate-office-backend/models/api/staff"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakePayrollStore struct {
	recs     []dbmodels.PayrollRecord
	failSave bool
}

func (f *fakePayrollStore) CreateIdempotent(rec dbmodels.PayrollRecord) (*dbmodels.PayrollRecord, bool, error) {
	exist, _ := f.GetByPeriod(rec.SpaceID, rec.StaffProfileID, rec.PeriodStart, rec.PeriodEnd)
	if exist != nil {
		return exist, false, nil
	}
	rec.ID = fmt.Sprintf("pay-%d", len(f.recs)+1)
	f.recs = append(f.recs, rec)
	return &rec, true, nil
}

func (f *fakePayrollStore) GetByID(spaceID, id string) (*dbmodels.PayrollRecord, error) {
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakePayrollStore) GetByPeriod(spaceID, staffProfileID string, periodStart, periodEnd time.Time) (*dbmodels.PayrollRecord, error) {
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.StaffProfileID == staffProfileID &&
			rec.PeriodStart.Equal(periodStart) && rec.PeriodEnd.Equal(periodEnd) {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakePayrollStore) Save(rec dbmodels.PayrollRecord) error {
	if f.failSave {
		return errors.New("сбой сохранения")
	}
	for idx, exist := range f.recs {
		if exist.ID == rec.ID {
			f.recs[idx] = rec
			return nil
		}
	}
	return errors.New("запись не найдена")
}

func (f *fakePayrollStore) List(spaceID string, filter payrollapimodels.PayrollFilter) ([]dbmodels.PayrollRecord, error) {
	list := []dbmodels.PayrollRecord{}
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (f *fakePayrollStore) ListCount(spaceID string, filter payrollapimodels.PayrollFilter) (int64, error) {
	list, _ := f.List(spaceID, filter)
	return int64(len(list)), nil
}

func (f *fakePayrollStore) ListForPeriod(spaceID string, periodStart, periodEnd time.Time) ([]dbmodels.PayrollRecord, error) {
	list := []dbmodels.PayrollRecord{}
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.PeriodStart.Equal(periodStart) && rec.PeriodEnd.Equal(periodEnd) {
			list = append(list, rec)
		}
	}
	return list, nil
}

type fakeStaffStore struct {
	recs []dbmodels.StaffProfile
}

func (f *fakeStaffStore) Create(rec dbmodels.StaffProfile) (string, error) {
	f.recs = append(f.recs, rec)
	return rec.ID, nil
}

func (f *fakeStaffStore) GetByID(spaceID, id string) (*dbmodels.StaffProfile, error) {
	for _, rec := range f.recs {
		if rec.SpaceID == spaceID && rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeStaffStore) GetByUserID(spaceID, userID string) (*dbmodels.StaffProfile, error) {
	return nil, nil
}

func (f *fakeStaffStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}

func (f *fakeStaffStore) List(spaceID string, filter staffapimodels.StaffFilter) ([]dbmodels.StaffProfile, error) {
	return f.recs, nil
}

func (f *fakeStaffStore) ListCount(spaceID string, filter staffapimodels.StaffFilter) (int64, error) {
	return int64(len(f.recs)), nil
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

// fakePenaltyLedger - штрафы сотрудников для генерации и удержания
type fakePenaltyLedger struct {
	recs    []dbmodels.PenaltyRecord
	settled []string
	failFor string
}

func (f *fakePenaltyLedger) add(id, staffProfileID, periodKey string, amount int64) {
	f.recs = append(f.recs, dbmodels.PenaltyRecord{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   "space-1",
		},
		StaffProfileID: staffProfileID,
		PeriodKey:      periodKey,
		Amount:         decimal.NewFromInt(amount),
		Status:         models.PenaltyStatusPending,
	})
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

func (f *fakePenaltyLedger) List(spaceID string, filter hrapimodels.PenaltyFilter) ([]dbmodels.PenaltyRecord, error) {
	return nil, nil
}

func (f *fakePenaltyLedger) ListCount(spaceID string, filter hrapimodels.PenaltyFilter) (int64, error) {
	return 0, nil
}

func (f *fakePenaltyLedger) CountSettledByPolicy(spaceID, policyID string) (int64, error) {
	return 0, nil
}

func (f *fakePenaltyLedger) ListPendingForPeriods(spaceID, staffProfileID string, periodKeys []string) ([]dbmodels.PenaltyRecord, error) {
	if f.failFor != "" && f.failFor == staffProfileID {
		return nil, errors.New("сбой получения штрафов")
	}
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

func (f *fakePenaltyLedger) MarkSettledByIDs(spaceID string, ids []string, settledAt time.Time) error {
	for idx, rec := range f.recs {
		for _, id := range ids {
			if rec.SpaceID == spaceID && rec.ID == id && rec.Status == models.PenaltyStatusPending {
				f.recs[idx].Status = models.PenaltyStatusSettled
				f.recs[idx].SettledAt = &settledAt
				f.settled = append(f.settled, id)
			}
		}
	}
	return nil
}

func (f *fakePenaltyLedger) MarkVoidedBySource(spaceID string, sourceType models.PenaltySourceType, sourceID string, voidedAt time.Time) (int64, error) {
	return 0, nil
}

type fakeRates struct{}

func (f fakeRates) TaxPercent(spaceID string) decimal.Decimal {
	return decimal.NewFromInt(13)
}

func (f fakeRates) PensionPercent(spaceID string) decimal.Decimal {
	return decimal.NewFromInt(5)
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

type payrollEnv struct {
	handler   impl
	store     *fakePayrollStore
	penalties *fakePenaltyLedger
}

func getPayrollEnv() payrollEnv {
	store := &fakePayrollStore{}
	penalties := &fakePenaltyLedger{}
	staffStore := &fakeStaffStore{
		recs: []dbmodels.StaffProfile{
			{
				BaseSpaceModel: dbmodels.BaseSpaceModel{
					BaseModel: dbmodels.BaseModel{ID: "staff-1"},
					SpaceID:   "space-1",
				},
				UserID:     "user-1",
				BaseSalary: decimal.NewFromInt(300000),
				Currency:   "RUB",
				IsActive:   true,
			},
			{
				BaseSpaceModel: dbmodels.BaseSpaceModel{
					BaseModel: dbmodels.BaseModel{ID: "staff-2"},
					SpaceID:   "space-1",
				},
				UserID:     "user-2",
				BaseSalary: decimal.NewFromInt(100000),
				Currency:   "RUB",
				IsActive:   true,
			},
			{
				BaseSpaceModel: dbmodels.BaseSpaceModel{
					BaseModel: dbmodels.BaseModel{ID: "staff-3"},
					SpaceID:   "space-1",
				},
				UserID:     "user-3",
				BaseSalary: decimal.NewFromInt(100000),
				Currency:   "RUB",
				IsActive:   false,
			},
		},
	}
	return payrollEnv{
		handler: impl{
			store:        store,
			staffStore:   staffStore,
			penaltyStore: penalties,
			rates:        fakeRates{},
			pushHandler:  fakePushHandler{},
		},
		store:     store,
		penalties: penalties,
	}
}

func marchPeriod() payrollapimodels.GenerateData {
	return payrollapimodels.GenerateData{
		PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerate(t *testing.T) {
	t.Run(`validation check`, func(t *testing.T) {
		env := getPayrollEnv()
		data := marchPeriod()
		data.PeriodEnd = data.PeriodStart
		_, err := env.handler.Generate(context.TODO(), "space-1", data)
		require.Equal(t, true, errors.Is(err, models.ErrValidation))
	})

	t.Run(`generate drafts check`, func(t *testing.T) {
		env := getPayrollEnv()
		env.penalties.add("pen-1", "staff-1", "2026-03", 8500)

		result, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)
		require.Equal(t, 2, result.GeneratedCount)
		require.Equal(t, 0, result.SkippedCount)
		require.Len(t, result.Failures, 0)
		// деактивированный сотрудник не попадает в прогон
		require.Len(t, env.store.recs, 2)

		rec := env.store.recs[0]
		require.Equal(t, "staff-1", rec.StaffProfileID)
		require.Equal(t, models.PayrollStatusDraft, rec.Status)
		require.Equal(t, "300000", rec.GrossPay.String())
		require.Equal(t, "39000", rec.Tax.String())
		require.Equal(t, "15000", rec.Pension.String())
		require.Equal(t, "8500", rec.OtherDeductions[dbmodels.DeductionKeyPolicyPenalties].String())
		require.Equal(t, "62500", rec.TotalDeductions.String())
		require.Equal(t, "237500", rec.NetPay.String())

		rec = env.store.recs[1]
		require.Equal(t, "staff-2", rec.StaffProfileID)
		_, exist := rec.OtherDeductions[dbmodels.DeductionKeyPolicyPenalties]
		require.Equal(t, false, exist)
		require.Len(t, rec.PenaltyIDs, 0)
		require.Equal(t, "82000", rec.NetPay.String())
	})

	t.Run(`multi month period check`, func(t *testing.T) {
		env := getPayrollEnv()
		env.penalties.add("pen-1", "staff-1", "2026-03", 8500)
		env.penalties.add("pen-2", "staff-1", "2026-04", 4000)

		// период на два месяца собирает штрафы обоих ключей
		data := payrollapimodels.GenerateData{
			PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		}
		_, err := env.handler.Generate(context.TODO(), "space-1", data)
		require.Nil(t, err)

		rec := env.store.recs[0]
		require.Equal(t, "12500", rec.OtherDeductions[dbmodels.DeductionKeyPolicyPenalties].String())
		require.Equal(t, dbmodels.StringSlice{"pen-1", "pen-2"}, rec.PenaltyIDs)

		require.Nil(t, env.handler.Approve("space-1", rec.ID))
		require.Equal(t, models.PenaltyStatusSettled, env.penalties.recs[0].Status)
		require.Equal(t, models.PenaltyStatusSettled, env.penalties.recs[1].Status)
	})

	t.Run(`rerun skips existing check`, func(t *testing.T) {
		env := getPayrollEnv()
		env.penalties.add("pen-1", "staff-1", "2026-03", 8500)
		_, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)

		// штрафы изменились, но существующие листы не пересчитываются
		env.penalties.add("pen-2", "staff-1", "2026-03", 20000)
		result, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)
		require.Equal(t, 0, result.GeneratedCount)
		require.Equal(t, 2, result.SkippedCount)
		require.Len(t, env.store.recs, 2)
		require.Equal(t, "8500",
			env.store.recs[0].OtherDeductions[dbmodels.DeductionKeyPolicyPenalties].String())
	})

	t.Run(`staff failure does not abort run check`, func(t *testing.T) {
		env := getPayrollEnv()
		env.penalties.failFor = "staff-1"

		result, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)
		require.Equal(t, 1, result.GeneratedCount)
		require.Len(t, result.Failures, 1)
		require.Equal(t, "staff-1", result.Failures[0].StaffProfileID)
	})
}

func TestAdjust(t *testing.T) {
	t.Run(`adjust draft check`, func(t *testing.T) {
		env := getPayrollEnv()
		env.penalties.add("pen-1", "staff-1", "2026-03", 8500)
		_, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)
		id := env.store.recs[0].ID

		err = env.handler.Adjust("space-1", id, payrollapimodels.AdjustData{
			Overtime: decimal.NewFromInt(20000),
			Bonus:    decimal.NewFromInt(25000),
			Allowances: map[string]decimal.Decimal{
				"transport": decimal.NewFromInt(5000),
			},
			OtherDeductions: map[string]decimal.Decimal{
				dbmodels.DeductionKeyUnpaidLeave: decimal.NewFromInt(3000),
			},
		})
		require.Nil(t, err)

		rec := env.store.recs[0]
		require.Equal(t, "350000", rec.GrossPay.String())
		require.Equal(t, "45500", rec.Tax.String())
		require.Equal(t, "17500", rec.Pension.String())
		// рассчитанные штрафы переживают корректировку удержаний
		require.Equal(t, "8500", rec.OtherDeductions[dbmodels.DeductionKeyPolicyPenalties].String())
		require.Equal(t, "3000", rec.OtherDeductions[dbmodels.DeductionKeyUnpaidLeave].String())
		require.Equal(t, "275500", rec.NetPay.String())
	})

	t.Run(`adjust validation check`, func(t *testing.T) {
		env := getPayrollEnv()
		err := env.handler.Adjust("space-1", "pay-1", payrollapimodels.AdjustData{
			Overtime: decimal.NewFromInt(-1),
		})
		require.Equal(t, true, errors.Is(err, models.ErrValidation))
	})

	t.Run(`adjust non draft check`, func(t *testing.T) {
		env := getPayrollEnv()
		_, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)
		id := env.store.recs[0].ID
		require.Nil(t, env.handler.Approve("space-1", id))

		err = env.handler.Adjust("space-1", id, payrollapimodels.AdjustData{})
		require.Equal(t, true, errors.Is(err, models.ErrInvalidPayrollTransition))
	})
}

func TestApproveFlow(t *testing.T) {
	t.Run(`approve settles penalties check`, func(t *testing.T) {
		env := getPayrollEnv()
		env.penalties.add("pen-1", "staff-1", "2026-03", 8500)
		_, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)
		id := env.store.recs[0].ID
		require.Equal(t, dbmodels.StringSlice{"pen-1"}, env.store.recs[0].PenaltyIDs)

		require.Nil(t, env.handler.SubmitForApproval("space-1", id))
		require.Equal(t, models.PayrollStatusPendingApproval, env.store.recs[0].Status)

		require.Nil(t, env.handler.Approve("space-1", id))
		require.Equal(t, models.PayrollStatusApproved, env.store.recs[0].Status)
		require.NotNil(t, env.store.recs[0].ApprovedAt)
		require.Equal(t, []string{"pen-1"}, env.penalties.settled)

		require.Nil(t, env.handler.MarkPaid("space-1", id))
		require.Equal(t, models.PayrollStatusPaid, env.store.recs[0].Status)
		require.NotNil(t, env.store.recs[0].PaidAt)
	})

	t.Run(`late penalty stays pending check`, func(t *testing.T) {
		env := getPayrollEnv()
		env.penalties.add("pen-1", "staff-1", "2026-03", 8500)
		_, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)
		id := env.store.recs[0].ID

		// штраф, начисленный после генерации, в лист не входил
		// и при утверждении не удерживается
		env.penalties.add("pen-2", "staff-1", "2026-03", 7500)
		require.Nil(t, env.handler.Approve("space-1", id))

		require.Equal(t, "8500",
			env.store.recs[0].OtherDeductions[dbmodels.DeductionKeyPolicyPenalties].String())
		require.Equal(t, []string{"pen-1"}, env.penalties.settled)
		require.Equal(t, models.PenaltyStatusPending, env.penalties.recs[1].Status)
	})

	t.Run(`save failure keeps penalties pending check`, func(t *testing.T) {
		env := getPayrollEnv()
		env.penalties.add("pen-1", "staff-1", "2026-03", 8500)
		_, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)
		id := env.store.recs[0].ID

		env.store.failSave = true
		require.NotNil(t, env.handler.Approve("space-1", id))
		require.Len(t, env.penalties.settled, 0)
		require.Equal(t, models.PenaltyStatusPending, env.penalties.recs[0].Status)
	})

	t.Run(`invalid transition check`, func(t *testing.T) {
		env := getPayrollEnv()
		_, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)
		id := env.store.recs[0].ID

		// выплата возможна только после утверждения
		err = env.handler.MarkPaid("space-1", id)
		require.Equal(t, true, errors.Is(err, models.ErrInvalidPayrollTransition))

		require.Nil(t, env.handler.Approve("space-1", id))
		require.Nil(t, env.handler.MarkPaid("space-1", id))

		err = env.handler.Approve("space-1", id)
		require.Equal(t, true, errors.Is(err, models.ErrInvalidPayrollTransition))
	})

	t.Run(`not found check`, func(t *testing.T) {
		env := getPayrollEnv()
		err := env.handler.Approve("space-1", "missing")
		require.Equal(t, true, errors.Is(err, models.ErrNotFound))
	})
}

func TestBulkOperations(t *testing.T) {
	t.Run(`bulk partial failure check`, func(t *testing.T) {
		env := getPayrollEnv()
		_, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)

		result := env.handler.BulkApprove("space-1", []string{
			env.store.recs[0].ID, "missing", env.store.recs[1].ID,
		})
		require.Equal(t, 2, result.SucceededCount)
		require.Len(t, result.Failures, 1)
		require.Equal(t, "missing", result.Failures[0].StaffProfileID)
		require.Equal(t, models.PayrollStatusApproved, env.store.recs[0].Status)
		require.Equal(t, models.PayrollStatusApproved, env.store.recs[1].Status)
	})
}

func TestSummary(t *testing.T) {
	t.Run(`summary totals check`, func(t *testing.T) {
		env := getPayrollEnv()
		env.penalties.add("pen-1", "staff-1", "2026-03", 8500)
		_, err := env.handler.Generate(context.TODO(), "space-1", marchPeriod())
		require.Nil(t, err)

		summary, err := env.handler.Summary("space-1", marchPeriod())
		require.Nil(t, err)
		require.Equal(t, 2, summary.StaffCount)
		require.Equal(t, "400000", summary.TotalGross.String())
		require.Equal(t, "80500", summary.TotalDeductions.String())
		require.Equal(t, "319500", summary.TotalNet.String())
		require.Equal(t, "8500", summary.TotalPenalties.String())
	})
}
