package xlsexport

import (
	"fmt"

	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Зарплатная ведомость"

var headers = []string{
	"Сотрудник", "Период с", "Период по", "Оклад", "Переработка", "Премия",
	"Надбавки", "Начислено", "Налог", "Пенсионные", "Прочие удержания",
	"Удержано всего", "К выплате", "Валюта", "Статус",
}

// PayrollSheet - зарплатная ведомость периода в формате xlsx
func PayrollSheet(list []dbmodels.PayrollRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания листа")
	}
	f.SetActiveSheet(index)
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return nil, errors.Wrap(err, "ошибка удаления листа по умолчанию")
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err = f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}
	for rowIdx, rec := range list {
		staffName := rec.StaffProfileID
		if rec.StaffProfile != nil && rec.StaffProfile.User != nil {
			staffName = rec.StaffProfile.User.GetFullName()
		}
		values := []interface{}{
			staffName,
			rec.PeriodStart.Format("02.01.2006"),
			rec.PeriodEnd.Format("02.01.2006"),
			rec.BaseSalary.InexactFloat64(),
			rec.Overtime.InexactFloat64(),
			rec.Bonus.InexactFloat64(),
			rec.Allowances.Sum().InexactFloat64(),
			rec.GrossPay.InexactFloat64(),
			rec.Tax.InexactFloat64(),
			rec.Pension.InexactFloat64(),
			rec.OtherDeductions.Sum().InexactFloat64(),
			rec.TotalDeductions.InexactFloat64(),
			rec.NetPay.InexactFloat64(),
			rec.Currency,
			rec.Status.ToHuman(),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err = f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("ошибка записи ячейки %s: %w", cell, err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования файла")
	}
	return buf.Bytes(), nil
}
