package initializers

import (
	"context"
	"time"

	"estate-office-backend/config"
	"estate-office-backend/fiberlog"
	departmentprovider "estate-office-backend/lib/dicts/department"
	filestorage "estate-office-backend/lib/file-storage"
	hrpolicyhandler "estate-office-backend/lib/hr-policy"
	payrollhandler "estate-office-backend/lib/payroll"
	penaltyhandler "estate-office-backend/lib/penalty"
	penaltyfactworker "estate-office-backend/lib/penalty/fact-worker"
	pushhandler "estate-office-backend/lib/space/push/handler"
	staffhandler "estate-office-backend/lib/staff"
	taskhandler "estate-office-backend/lib/task"
	taskoverdueworker "estate-office-backend/lib/task/overdue-worker"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	filestorage.NewHandler()
	pushhandler.NewHandler()
	departmentprovider.NewHandler()
	staffhandler.NewHandler()
	hrpolicyhandler.NewHandler()
	// движок штрафов зависит от политик и уведомлений
	penaltyhandler.NewHandler()
	taskhandler.NewHandler()
	payrollhandler.NewHandler()
	go initWorkers(ctx)
}

// запускаем с промежутком в 10 сек чтоб размыть нагрузку
func initWorkers(ctx context.Context) {
	// Задача дообработки фактов нарушений, не оцененных при приеме
	penaltyfactworker.NewWorker(time.Minute, 5*time.Minute).Start(ctx)

	if makeTimeGap(ctx) {
		// Задача напоминаний о просроченных задачах
		taskoverdueworker.NewWorker(time.Minute, 12*time.Hour).Start(ctx)
	}
}

func makeTimeGap(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
