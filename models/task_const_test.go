package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskStatus(t *testing.T) {
	t.Run(`IsAllowChange check`, func(t *testing.T) {
		require.Equal(t, true, TaskStatusTodo.IsAllowChange(TaskStatusInProgress))
		require.Equal(t, true, TaskStatusTodo.IsAllowChange(TaskStatusBlocked))
		require.Equal(t, true, TaskStatusInProgress.IsAllowChange(TaskStatusInReview))
		require.Equal(t, true, TaskStatusInReview.IsAllowChange(TaskStatusInProgress))
		require.Equal(t, true, TaskStatusInReview.IsAllowChange(TaskStatusCompleted))
		require.Equal(t, true, TaskStatusBlocked.IsAllowChange(TaskStatusInProgress))

		require.Equal(t, false, TaskStatusInProgress.IsAllowChange(TaskStatusTodo))
		require.Equal(t, false, TaskStatusBlocked.IsAllowChange(TaskStatusCompleted))
		require.Equal(t, false, TaskStatusBlocked.IsAllowChange(TaskStatusInReview))
		require.Equal(t, false, TaskStatusTodo.IsAllowChange(TaskStatusTodo))
	})

	t.Run(`COMPLETED terminal check`, func(t *testing.T) {
		for _, target := range []TaskStatus{TaskStatusTodo, TaskStatusInProgress,
			TaskStatusInReview, TaskStatusBlocked, TaskStatusCompleted} {
			require.Equal(t, false, TaskStatusCompleted.IsAllowChange(target))
		}
		require.Equal(t, true, TaskStatusCompleted.IsTerminal())
		require.Equal(t, false, TaskStatusInReview.IsTerminal())
	})

	t.Run(`IsValid check`, func(t *testing.T) {
		require.Equal(t, true, TaskStatusInProgress.IsValid())
		require.Equal(t, false, TaskStatus("DONE").IsValid())
		require.Equal(t, true, TaskPriorityUrgent.IsValid())
		require.Equal(t, false, TaskPriority("CRITICAL").IsValid())
	})

	t.Run(`ToHuman check`, func(t *testing.T) {
		require.Equal(t, "В работе", TaskStatusInProgress.ToHuman())
		require.Equal(t, "Срочный", TaskPriorityUrgent.ToHuman())
		require.Equal(t, "UNKNOWN", TaskStatus("UNKNOWN").ToHuman())
	})
}
