package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPayrollStatus(t *testing.T) {
	t.Run(`IsAllowChange check`, func(t *testing.T) {
		require.Equal(t, true, PayrollStatusDraft.IsAllowChange(PayrollStatusPendingApproval))
		// утверждение напрямую из черновика допустимо
		require.Equal(t, true, PayrollStatusDraft.IsAllowChange(PayrollStatusApproved))
		require.Equal(t, true, PayrollStatusPendingApproval.IsAllowChange(PayrollStatusApproved))
		require.Equal(t, true, PayrollStatusApproved.IsAllowChange(PayrollStatusPaid))

		require.Equal(t, false, PayrollStatusDraft.IsAllowChange(PayrollStatusPaid))
		require.Equal(t, false, PayrollStatusPendingApproval.IsAllowChange(PayrollStatusPaid))
		require.Equal(t, false, PayrollStatusApproved.IsAllowChange(PayrollStatusDraft))
		for _, target := range []PayrollStatus{PayrollStatusDraft, PayrollStatusPendingApproval,
			PayrollStatusApproved, PayrollStatusPaid} {
			require.Equal(t, false, PayrollStatusPaid.IsAllowChange(target))
		}
	})
}

func TestPolicyType(t *testing.T) {
	t.Run(`IsMinuteBased check`, func(t *testing.T) {
		require.Equal(t, true, PolicyTypeLateness.IsMinuteBased())
		require.Equal(t, true, PolicyTypeEarlyDeparture.IsMinuteBased())
		require.Equal(t, false, PolicyTypeLateTask.IsMinuteBased())
		require.Equal(t, false, PolicyTypeAbsence.IsMinuteBased())
	})

	t.Run(`IsValid check`, func(t *testing.T) {
		require.Equal(t, true, PolicyTypeDressCode.IsValid())
		require.Equal(t, false, PolicyType("SMOKING").IsValid())
		require.Equal(t, true, PenaltyBasisHourlyRate.IsValid())
		require.Equal(t, false, PenaltyBasis("weekly_salary").IsValid())
	})
}

func TestPeriodKeyFor(t *testing.T) {
	t.Run(`PeriodKeyFor check`, func(t *testing.T) {
		require.Equal(t, "2026-01", PeriodKeyFor(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)))
		require.Equal(t, "2026-01", PeriodKeyFor(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)))
		require.Equal(t, "2026-02", PeriodKeyFor(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run(`PeriodKeysForRange check`, func(t *testing.T) {
		require.Equal(t, []string{"2026-03"}, PeriodKeysForRange(
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
		// правая граница исключается
		require.Equal(t, []string{"2026-03"}, PeriodKeysForRange(
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
		require.Equal(t, []string{"2025-12", "2026-01", "2026-02"}, PeriodKeysForRange(
			time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))
	})
}
