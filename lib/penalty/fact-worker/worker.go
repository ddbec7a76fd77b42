package penaltyfactworker

import (
	"context"
	"time"

	"estate-office-backend/db"
	penaltyhandler "estate-office-backend/lib/penalty"
	penaltyfactstore "estate-office-backend/lib/penalty/fact-store"
	baseworker "estate-office-backend/lib/utils/base-worker"
	"estate-office-backend/lib/utils/helpers"
)

const (
	batchSize = 100
	// после исчерпания попыток факт остается в статусе FAILED и требует разбора
	maxAttempts = 5
)

// Worker - дообработка фактов нарушений, не оцененных в момент приема:
// сбой БД при начислении, отсутствие действующей политики в кэше и т.п.
type Worker struct {
	baseworker.BaseImpl
	factStore penaltyfactstore.Provider
}

func NewWorker(firstRunDelay, runInterval time.Duration) *Worker {
	return &Worker{
		BaseImpl:  *baseworker.NewInstance("penalty-fact-worker", firstRunDelay, runInterval),
		factStore: penaltyfactstore.NewInstance(db.DB),
	}
}

func (w Worker) Start(ctx context.Context) {
	go w.Run(ctx, w.processFacts)
}

func (w Worker) processFacts(ctx context.Context) {
	logger := w.GetLogger()
	factList, err := w.factStore.ListUnprocessed(maxAttempts, batchSize)
	if err != nil {
		logger.WithError(err).Error("ошибка получения необработанных фактов")
		return
	}
	for _, fact := range factList {
		if helpers.IsContextDone(ctx) {
			return
		}
		if err = penaltyhandler.Instance.EvaluateQueued(fact); err != nil {
			logger.WithField("fact_id", fact.ID).
				WithError(err).
				Error("ошибка оценки факта нарушения")
		}
	}
}
