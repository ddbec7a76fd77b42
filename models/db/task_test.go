package dbmodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTaskOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC)

	t.Run(`IsOverdue check`, func(t *testing.T) {
		rec := Task{}
		require.Equal(t, false, rec.IsOverdue(now))

		rec.DueDate = &due
		require.Equal(t, true, rec.IsOverdue(now))
		require.Equal(t, false, rec.IsOverdue(due.Add(-time.Hour)))

		completedInTime := due.Add(-time.Minute)
		rec.CompletedAt = &completedInTime
		require.Equal(t, false, rec.IsOverdue(now))

		completedLate := due.Add(time.Minute)
		rec.CompletedAt = &completedLate
		require.Equal(t, true, rec.IsOverdue(now))
	})

	t.Run(`DaysLate check`, func(t *testing.T) {
		rec := Task{}
		require.Equal(t, 0, rec.DaysLate(now))

		rec.DueDate = &due
		// завершение в срок и точно в срок - просрочки нет
		require.Equal(t, 0, rec.DaysLate(due.Add(-time.Hour)))
		require.Equal(t, 0, rec.DaysLate(due))
		// неполные сутки округляются вверх
		require.Equal(t, 1, rec.DaysLate(due.Add(time.Hour)))
		require.Equal(t, 1, rec.DaysLate(due.Add(24*time.Hour)))
		require.Equal(t, 2, rec.DaysLate(due.Add(25*time.Hour)))
		require.Equal(t, 3, rec.DaysLate(due.Add(3*24*time.Hour)))
	})
}
