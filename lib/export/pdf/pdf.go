package pdfexport

import (
	"bytes"
	"fmt"
	"sort"

	dbmodels "estate-office-backend/models/db"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Payslip - расчетный лист сотрудника в формате pdf.
// Кириллица идет через транслятор cp1251, без подключения внешних шрифтов.
func Payslip(rec dbmodels.PayrollRecord) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1251")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Расчетный лист"), "", 1, "C", false, 0, "")

	staffName := rec.StaffProfileID
	if rec.StaffProfile != nil && rec.StaffProfile.User != nil {
		staffName = rec.StaffProfile.User.GetFullName()
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, tr("Сотрудник: "+staffName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Период: %s - %s",
		rec.PeriodStart.Format("02.01.2006"), rec.PeriodEnd.Format("02.01.2006"))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr("Статус: "+rec.Status.ToHuman()), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeRow := func(name string, amount decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(120, 7, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, amount.StringFixed(2)+" "+rec.Currency, "1", 1, "R", false, 0, "")
	}

	writeRow("Оклад", rec.BaseSalary, false)
	writeRow("Переработка", rec.Overtime, false)
	writeRow("Премия", rec.Bonus, false)
	for _, key := range sortedKeys(rec.Allowances) {
		writeRow("Надбавка: "+key, rec.Allowances[key], false)
	}
	writeRow("Начислено", rec.GrossPay, true)
	writeRow("Налог", rec.Tax.Neg(), false)
	writeRow("Пенсионные отчисления", rec.Pension.Neg(), false)
	for _, key := range sortedKeys(rec.OtherDeductions) {
		writeRow("Удержание: "+deductionName(key), rec.OtherDeductions[key].Neg(), false)
	}
	writeRow("Удержано всего", rec.TotalDeductions.Neg(), true)
	writeRow("К выплате", rec.NetPay, true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования pdf")
	}
	return buf.Bytes(), nil
}

func sortedKeys(m dbmodels.MoneyMap) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func deductionName(key string) string {
	switch key {
	case dbmodels.DeductionKeyPolicyPenalties:
		return "штрафы"
	case dbmodels.DeductionKeyUnpaidLeave:
		return "отпуск без содержания"
	}
	return key
}
