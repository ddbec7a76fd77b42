package payrollhandler

import (
	"context"
	"fmt"
	"time"

	"estate-office-backend/db"
	pdfexport "estate-office-backend/lib/export/pdf"
	xlsexport "estate-office-backend/lib/export/xls"
	payrollrates "estate-office-backend/lib/payroll/rates"
	payrollstore "estate-office-backend/lib/payroll/store"
	penaltystore "estate-office-backend/lib/penalty/store"
	pushhandler "estate-office-backend/lib/space/push/handler"
	spacesettingsstore "estate-office-backend/lib/space/settings/store"
	staffstore "estate-office-backend/lib/staff/store"
	"estate-office-backend/lib/utils/lock"
	"estate-office-backend/models"
	payrollapimodels "estate-office-backend/models/api/payroll"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// время ожидания, если генерация за период уже идет
const generateLockWait = 3 * time.Second

type Provider interface {
	// Generate - генерация черновиков расчетных листов по всем активным
	// сотрудникам. Повторный прогон за тот же период пропускает уже
	// созданные записи, отказ по одному сотруднику не прерывает прогон
	Generate(ctx context.Context, spaceID string, data payrollapimodels.GenerateData) (result payrollapimodels.GenerateResult, err error)
	GetByID(spaceID, id string) (item payrollapimodels.PayrollView, err error)
	List(spaceID string, filter payrollapimodels.PayrollFilter) (list []payrollapimodels.PayrollView, rowCount int64, err error)
	// Adjust - ручные корректировки; допускаются только в черновике
	Adjust(spaceID, id string, data payrollapimodels.AdjustData) error
	SubmitForApproval(spaceID, id string) error
	// Approve - утверждение листа; штрафы, вошедшие в лист при
	// генерации, помечаются удержанными
	Approve(spaceID, id string) error
	MarkPaid(spaceID, id string) error
	BulkApprove(spaceID string, ids []string) payrollapimodels.BulkResult
	BulkMarkPaid(spaceID string, ids []string) payrollapimodels.BulkResult
	Summary(spaceID string, data payrollapimodels.GenerateData) (summary payrollapimodels.PeriodSummary, err error)
	ExportPeriod(spaceID string, data payrollapimodels.GenerateData) (file []byte, err error)
	Payslip(spaceID, id string) (file []byte, err error)
}

var Instance Provider

func NewHandler() {
	settingsStore := spacesettingsstore.NewInstance(db.DB)
	Instance = impl{
		store:        payrollstore.NewInstance(db.DB),
		staffStore:   staffstore.NewInstance(db.DB),
		penaltyStore: penaltystore.NewInstance(db.DB),
		rates:        payrollrates.NewInstance(settingsStore),
		pushHandler:  pushhandler.Instance,
	}
}

type impl struct {
	store        payrollstore.Provider
	staffStore   staffstore.Provider
	penaltyStore penaltystore.Provider
	rates        payrollrates.Provider
	pushHandler  pushhandler.Provider
}

func (i impl) Generate(ctx context.Context, spaceID string, data payrollapimodels.GenerateData) (payrollapimodels.GenerateResult, error) {
	logger := log.WithField("space_id", spaceID).
		WithField("period_key", models.PeriodKeyFor(data.PeriodStart))
	if err := data.Validate(); err != nil {
		return payrollapimodels.GenerateResult{}, errors.Wrap(models.ErrValidation, err.Error())
	}
	result := payrollapimodels.GenerateResult{}
	lockKey := fmt.Sprintf("payroll-generate:%s:%s", spaceID, models.PeriodKeyFor(data.PeriodStart))
	success, err := lock.WithDelay(ctx, lockKey, generateLockWait, func() error {
		runResult, runErr := i.generate(spaceID, data)
		if runErr != nil {
			return runErr
		}
		result = runResult
		logger.WithField("generated", result.GeneratedCount).
			WithField("skipped", result.SkippedCount).
			WithField("failures", len(result.Failures)).
			Info("прогон генерации завершен")
		return nil
	})
	if err != nil {
		return payrollapimodels.GenerateResult{}, err
	}
	if !success {
		return payrollapimodels.GenerateResult{}, errors.Wrap(models.ErrValidation,
			"генерация за период уже выполняется")
	}
	return result, nil
}

func (i impl) generate(spaceID string, data payrollapimodels.GenerateData) (payrollapimodels.GenerateResult, error) {
	logger := log.WithField("space_id", spaceID)
	result := payrollapimodels.GenerateResult{}
	staffList, err := i.staffStore.ListActive(spaceID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения активных сотрудников")
		return result, err
	}
	taxPercent := i.rates.TaxPercent(spaceID)
	pensionPercent := i.rates.PensionPercent(spaceID)
	periodKeys := models.PeriodKeysForRange(data.PeriodStart, data.PeriodEnd)
	for _, staff := range staffList {
		rec, err := i.buildRecord(spaceID, staff, data, periodKeys, taxPercent, pensionPercent)
		if err != nil {
			logger.WithField("staff_id", staff.ID).
				WithError(err).
				Error("ошибка расчета листа сотрудника")
			result.Failures = append(result.Failures, payrollapimodels.StaffFailure{
				StaffProfileID: staff.ID,
				Error:          err.Error(),
			})
			continue
		}
		_, isNew, err := i.store.CreateIdempotent(rec)
		if err != nil {
			logger.WithField("staff_id", staff.ID).
				WithError(err).
				Error("ошибка сохранения расчетного листа")
			result.Failures = append(result.Failures, payrollapimodels.StaffFailure{
				StaffProfileID: staff.ID,
				Error:          err.Error(),
			})
			continue
		}
		if isNew {
			result.GeneratedCount++
		} else {
			result.SkippedCount++
		}
	}
	return result, nil
}

func (i impl) buildRecord(spaceID string, staff dbmodels.StaffProfile, data payrollapimodels.GenerateData,
	periodKeys []string, taxPercent, pensionPercent decimal.Decimal) (dbmodels.PayrollRecord, error) {
	pending, err := i.penaltyStore.ListPendingForPeriods(spaceID, staff.ID, periodKeys)
	if err != nil {
		return dbmodels.PayrollRecord{}, err
	}
	rec := dbmodels.PayrollRecord{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		StaffProfileID:  staff.ID,
		PeriodStart:     data.PeriodStart,
		PeriodEnd:       data.PeriodEnd,
		BaseSalary:      staff.BaseSalary,
		Overtime:        decimal.Zero,
		Bonus:           decimal.Zero,
		Allowances:      dbmodels.MoneyMap{},
		OtherDeductions: dbmodels.MoneyMap{},
		Currency:        staff.Currency,
		Status:          models.PayrollStatusDraft,
	}
	penalties := decimal.Zero
	for _, penalty := range pending {
		penalties = penalties.Add(penalty.Amount)
		rec.PenaltyIDs = append(rec.PenaltyIDs, penalty.ID)
	}
	if penalties.IsPositive() {
		rec.OtherDeductions[dbmodels.DeductionKeyPolicyPenalties] = penalties
	}
	gross := rec.BaseSalary.Add(rec.Overtime).Add(rec.Bonus).Add(rec.Allowances.Sum())
	rec.Tax = gross.Mul(taxPercent).Div(decimal.NewFromInt(100)).RoundBank(2)
	rec.Pension = gross.Mul(pensionPercent).Div(decimal.NewFromInt(100)).RoundBank(2)
	rec.Recalculate()
	return rec, nil
}

func (i impl) GetByID(spaceID, id string) (payrollapimodels.PayrollView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return payrollapimodels.PayrollView{}, err
	}
	return payrollapimodels.PayrollConvert(*rec), nil
}

func (i impl) List(spaceID string, filter payrollapimodels.PayrollFilter) (list []payrollapimodels.PayrollView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := i.store.List(spaceID, filter)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithError(err).
			Error("ошибка получения списка расчетных листов")
		return nil, 0, err
	}
	result := make([]payrollapimodels.PayrollView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, payrollapimodels.PayrollConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Adjust(spaceID, id string, data payrollapimodels.AdjustData) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	if err := data.Validate(); err != nil {
		return errors.Wrap(models.ErrValidation, err.Error())
	}
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if rec.Status != models.PayrollStatusDraft {
		return errors.Wrap(models.ErrInvalidPayrollTransition,
			"корректировки допустимы только в черновике")
	}
	rec.Overtime = data.Overtime
	rec.Bonus = data.Bonus
	rec.Allowances = dbmodels.MoneyMap(data.Allowances)
	if rec.Allowances == nil {
		rec.Allowances = dbmodels.MoneyMap{}
	}
	// рассчитанные штрафы не перекрываются ручными корректировками
	penalties, hasPenalties := rec.OtherDeductions[dbmodels.DeductionKeyPolicyPenalties]
	rec.OtherDeductions = dbmodels.MoneyMap(data.OtherDeductions)
	if rec.OtherDeductions == nil {
		rec.OtherDeductions = dbmodels.MoneyMap{}
	}
	if hasPenalties {
		rec.OtherDeductions[dbmodels.DeductionKeyPolicyPenalties] = penalties
	}
	taxPercent := i.rates.TaxPercent(spaceID)
	pensionPercent := i.rates.PensionPercent(spaceID)
	gross := rec.BaseSalary.Add(rec.Overtime).Add(rec.Bonus).Add(rec.Allowances.Sum())
	rec.Tax = gross.Mul(taxPercent).Div(decimal.NewFromInt(100)).RoundBank(2)
	rec.Pension = gross.Mul(pensionPercent).Div(decimal.NewFromInt(100)).RoundBank(2)
	rec.Recalculate()
	if err = i.store.Save(*rec); err != nil {
		logger.WithError(err).Error("ошибка сохранения корректировок")
		return err
	}
	logger.Info("скорректирован расчетный лист")
	return nil
}

func (i impl) SubmitForApproval(spaceID, id string) error {
	return i.changeStatus(spaceID, id, models.PayrollStatusPendingApproval, nil)
}

func (i impl) Approve(spaceID, id string) error {
	now := time.Now()
	var consumed []string
	err := i.changeStatus(spaceID, id, models.PayrollStatusApproved, func(rec *dbmodels.PayrollRecord) error {
		rec.ApprovedAt = &now
		consumed = rec.PenaltyIDs
		i.notifyStaff(rec, models.PushPayrollApproved, "Расчетный лист утвержден",
			"Ваш расчетный лист за период %s утвержден")
		return nil
	})
	if err != nil {
		return err
	}
	// удержание фиксируется после смены статуса: при отказе сохранения
	// штрафы остаются неудержанными
	if err = i.penaltyStore.MarkSettledByIDs(spaceID, consumed, now); err != nil {
		return errors.Wrap(err, "ошибка удержания штрафов")
	}
	return nil
}

func (i impl) MarkPaid(spaceID, id string) error {
	now := time.Now()
	return i.changeStatus(spaceID, id, models.PayrollStatusPaid, func(rec *dbmodels.PayrollRecord) error {
		rec.PaidAt = &now
		i.notifyStaff(rec, models.PushPayrollPaid, "Выплата произведена",
			"Выплата по расчетному листу за период %s произведена")
		return nil
	})
}

func (i impl) BulkApprove(spaceID string, ids []string) payrollapimodels.BulkResult {
	return i.bulk(spaceID, ids, i.Approve)
}

func (i impl) BulkMarkPaid(spaceID string, ids []string) payrollapimodels.BulkResult {
	return i.bulk(spaceID, ids, i.MarkPaid)
}

// bulk - пакетная операция: отказ по одной записи не прерывает остальные
func (i impl) bulk(spaceID string, ids []string, op func(spaceID, id string) error) payrollapimodels.BulkResult {
	result := payrollapimodels.BulkResult{}
	for _, id := range ids {
		if err := op(spaceID, id); err != nil {
			result.Failures = append(result.Failures, payrollapimodels.StaffFailure{
				StaffProfileID: id,
				Error:          err.Error(),
			})
			continue
		}
		result.SucceededCount++
	}
	return result
}

func (i impl) Summary(spaceID string, data payrollapimodels.GenerateData) (payrollapimodels.PeriodSummary, error) {
	if err := data.Validate(); err != nil {
		return payrollapimodels.PeriodSummary{}, errors.Wrap(models.ErrValidation, err.Error())
	}
	list, err := i.store.ListForPeriod(spaceID, data.PeriodStart, data.PeriodEnd)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithError(err).
			Error("ошибка получения листов периода")
		return payrollapimodels.PeriodSummary{}, err
	}
	summary := payrollapimodels.PeriodSummary{
		PeriodStart:     data.PeriodStart,
		PeriodEnd:       data.PeriodEnd,
		StaffCount:      len(list),
		TotalGross:      decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNet:        decimal.Zero,
		TotalPenalties:  decimal.Zero,
	}
	for _, rec := range list {
		summary.TotalGross = summary.TotalGross.Add(rec.GrossPay)
		summary.TotalDeductions = summary.TotalDeductions.Add(rec.TotalDeductions)
		summary.TotalNet = summary.TotalNet.Add(rec.NetPay)
		if penalties, exist := rec.OtherDeductions[dbmodels.DeductionKeyPolicyPenalties]; exist {
			summary.TotalPenalties = summary.TotalPenalties.Add(penalties)
		}
	}
	return summary, nil
}

func (i impl) ExportPeriod(spaceID string, data payrollapimodels.GenerateData) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, errors.Wrap(models.ErrValidation, err.Error())
	}
	list, err := i.store.ListForPeriod(spaceID, data.PeriodStart, data.PeriodEnd)
	if err != nil {
		return nil, err
	}
	return xlsexport.PayrollSheet(list)
}

func (i impl) Payslip(spaceID, id string) ([]byte, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return nil, err
	}
	return pdfexport.Payslip(*rec)
}

func (i impl) changeStatus(spaceID, id string, target models.PayrollStatus, onChange func(rec *dbmodels.PayrollRecord) error) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id).
		WithField("target_status", target)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !rec.Status.IsAllowChange(target) {
		return errors.Wrapf(models.ErrInvalidPayrollTransition,
			"переход %s -> %s недопустим", rec.Status, target)
	}
	oldStatus := rec.Status
	rec.Status = target
	if onChange != nil {
		if err = onChange(rec); err != nil {
			return err
		}
	}
	if err = i.store.Save(*rec); err != nil {
		logger.WithError(err).Error("ошибка смены статуса расчетного листа")
		return err
	}
	logger.WithField("old_status", oldStatus).Info("изменен статус расчетного листа")
	return nil
}

func (i impl) notifyStaff(rec *dbmodels.PayrollRecord, code models.SpacePushSettingCode, title, msgTemplate string) {
	if rec.StaffProfile == nil {
		return
	}
	period := fmt.Sprintf("%s - %s",
		rec.PeriodStart.Format("02.01.2006"), rec.PeriodEnd.Format("02.01.2006"))
	go i.pushHandler.SendNotification(rec.StaffProfile.UserID, code,
		title, fmt.Sprintf(msgTemplate, period), "")
}

func (i impl) getRec(spaceID, id string) (*dbmodels.PayrollRecord, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithField("rec_id", id).
			WithError(err).
			Error("ошибка получения расчетного листа")
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "расчетный лист не найден")
	}
	return rec, nil
}
