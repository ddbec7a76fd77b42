package dbmodels

import (
	"testing"

	"estate-office-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPayrollRecalculate(t *testing.T) {
	t.Run(`Recalculate check`, func(t *testing.T) {
		rec := PayrollRecord{
			BaseSalary: decimal.NewFromInt(250000),
			Overtime:   decimal.NewFromInt(20000),
			Bonus:      decimal.NewFromInt(25000),
			Allowances: MoneyMap{
				"transport": decimal.NewFromInt(5000),
			},
			Tax:     decimal.NewFromInt(39000),
			Pension: decimal.NewFromInt(15000),
			OtherDeductions: MoneyMap{
				DeductionKeyPolicyPenalties: decimal.NewFromInt(7500),
			},
		}
		rec.Recalculate()
		require.Equal(t, "300000", rec.GrossPay.String())
		require.Equal(t, "61500", rec.TotalDeductions.String())
		require.Equal(t, "238500", rec.NetPay.String())
	})

	t.Run(`empty record check`, func(t *testing.T) {
		rec := PayrollRecord{}
		rec.Recalculate()
		require.Equal(t, true, rec.GrossPay.IsZero())
		require.Equal(t, true, rec.NetPay.IsZero())
	})
}

func TestSalaryBasis(t *testing.T) {
	t.Run(`SalaryBasis check`, func(t *testing.T) {
		staff := StaffProfile{
			BaseSalary: decimal.NewFromInt(210000),
		}
		require.Equal(t, "210000",
			staff.SalaryBasis(models.PenaltyBasisMonthlySalary).String())
		// 21 рабочий день в месяце
		require.Equal(t, "10000",
			staff.SalaryBasis(models.PenaltyBasisDailySalary).String())
		// 8 часов в рабочем дне
		require.Equal(t, "1250",
			staff.SalaryBasis(models.PenaltyBasisHourlyRate).String())
		require.Equal(t, true,
			staff.SalaryBasis(models.PenaltyBasis("unknown")).IsZero())
	})
}

func TestMoneyMapSum(t *testing.T) {
	t.Run(`Sum check`, func(t *testing.T) {
		require.Equal(t, true, MoneyMap{}.Sum().IsZero())
		require.Equal(t, true, MoneyMap(nil).Sum().IsZero())
		m := MoneyMap{
			"a": decimal.NewFromFloat(10.50),
			"b": decimal.NewFromFloat(0.25),
		}
		require.Equal(t, "10.75", m.Sum().String())
	})
}
