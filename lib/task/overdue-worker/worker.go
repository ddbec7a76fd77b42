package taskoverdueworker

import (
	"context"
	"fmt"
	"time"

	"estate-office-backend/db"
	pushhandler "estate-office-backend/lib/space/push/handler"
	taskstore "estate-office-backend/lib/task/store"
	baseworker "estate-office-backend/lib/utils/base-worker"
	"estate-office-backend/lib/utils/helpers"
	"estate-office-backend/models"
)

const batchSize = 500

// Worker - напоминания исполнителям о просроченных незавершенных задачах
type Worker struct {
	baseworker.BaseImpl
	taskStore taskstore.Provider
}

func NewWorker(firstRunDelay, runInterval time.Duration) *Worker {
	return &Worker{
		BaseImpl:  *baseworker.NewInstance("task-overdue-worker", firstRunDelay, runInterval),
		taskStore: taskstore.NewInstance(db.DB),
	}
}

func (w Worker) Start(ctx context.Context) {
	go w.Run(ctx, w.notifyOverdue)
}

func (w Worker) notifyOverdue(ctx context.Context) {
	logger := w.GetLogger()
	taskList, err := w.taskStore.ListOverdueOpen(batchSize)
	if err != nil {
		logger.WithError(err).Error("ошибка получения просроченных задач")
		return
	}
	for _, task := range taskList {
		if helpers.IsContextDone(ctx) {
			return
		}
		if task.Assignee == nil {
			continue
		}
		pushhandler.Instance.SendNotification(task.Assignee.UserID, models.PushTaskAssigned,
			"Задача просрочена",
			fmt.Sprintf("Срок задачи «%s» истек %s", task.Title, task.DueDate.Format("02.01.2006")), "")
	}
}
