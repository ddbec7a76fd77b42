package taskhandler

import (
	"fmt"
	"time"

	"estate-office-backend/config"
	"estate-office-backend/db"
	penaltyhandler "estate-office-backend/lib/penalty"
	pushhandler "estate-office-backend/lib/space/push/handler"
	spaceusersstore "estate-office-backend/lib/space/users/store"
	staffstore "estate-office-backend/lib/staff/store"
	taskstore "estate-office-backend/lib/task/store"
	"estate-office-backend/models"
	hrapimodels "estate-office-backend/models/api/hr"
	taskapimodels "estate-office-backend/models/api/task"
	dbmodels "estate-office-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Actor - кто выполняет операцию над задачей
type Actor struct {
	UserID  string
	StaffID string
	Role    models.UserRole
}

type Provider interface {
	Create(spaceID string, actor Actor, data taskapimodels.TaskData) (id string, err error)
	GetByID(spaceID, id string) (item taskapimodels.TaskView, err error)
	Update(spaceID, id string, actor Actor, data taskapimodels.TaskData) error
	Delete(spaceID, id string) error
	List(spaceID string, filter taskapimodels.TaskFilter) (list []taskapimodels.TaskView, rowCount int64, err error)
	// Transition - смена статуса задачи по матрице переходов.
	// Перевод в COMPLETED закрыт для роли сотрудника: завершение
	// подтверждает руководитель либо администратор
	Transition(spaceID, id string, actor Actor, target models.TaskStatus) error
	// SubmitReport - отправка задачи на проверку исполнителем с материалами отчета
	SubmitReport(spaceID, id string, actor Actor, data taskapimodels.TaskReportData) error
	// Reopen - административное переоткрытие завершенной задачи
	Reopen(spaceID, id string, actor Actor, reason string) error
	AddComment(spaceID, taskID string, actor Actor, data taskapimodels.TaskCommentData) (id string, err error)
	ListComments(spaceID, taskID string) (list []taskapimodels.TaskCommentView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:          taskstore.NewInstance(db.DB),
		staffStore:     staffstore.NewInstance(db.DB),
		spaceUserStore: spaceusersstore.NewInstance(db.DB),
		penaltyHandler: penaltyhandler.Instance,
		pushHandler:    pushhandler.Instance,
	}
}

type impl struct {
	store          taskstore.Provider
	staffStore     staffstore.Provider
	spaceUserStore spaceusersstore.Provider
	penaltyHandler penaltyhandler.Provider
	pushHandler    pushhandler.Provider
}

func (i impl) Create(spaceID string, actor Actor, data taskapimodels.TaskData) (id string, err error) {
	logger := log.WithField("space_id", spaceID)
	if err = data.Validate(); err != nil {
		return "", errors.Wrap(models.ErrValidation, err.Error())
	}
	assignee, err := i.getAssignee(spaceID, data.AssigneeID)
	if err != nil {
		return "", err
	}
	priority := data.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	rec := dbmodels.Task{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Title:         data.Title,
		Description:   data.Description,
		AssigneeID:    data.AssigneeID,
		CreatorUserID: &actor.UserID,
		Priority:      priority,
		Status:        models.TaskStatusTodo,
		DueDate:       data.DueDate,
		Tags:          data.Tags,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания задачи")
		return "", err
	}
	i.writeHistory(spaceID, id, actor, dbmodels.TaskHistoryCreated, dbmodels.EntityChanges{
		Description: "Задача создана",
	})
	go i.pushHandler.SendNotification(assignee.UserID, models.PushTaskAssigned,
		"Назначена задача", fmt.Sprintf("Вам назначена задача «%s»", data.Title), "")
	logger.WithField("rec_id", id).Info("создана задача")
	return id, nil
}

func (i impl) GetByID(spaceID, id string) (taskapimodels.TaskView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return taskapimodels.TaskView{}, err
	}
	return taskapimodels.TaskConvert(*rec), nil
}

func (i impl) Update(spaceID, id string, actor Actor, data taskapimodels.TaskData) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	if err := data.Validate(); err != nil {
		return errors.Wrap(models.ErrValidation, err.Error())
	}
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if rec.Status.IsTerminal() {
		return errors.Wrap(models.ErrValidation, "завершенная задача не редактируется")
	}
	if data.AssigneeID != rec.AssigneeID {
		if _, err = i.getAssignee(spaceID, data.AssigneeID); err != nil {
			return err
		}
	}
	changes := taskChanges(*rec, data)
	err = i.store.Update(spaceID, id, map[string]interface{}{
		"Title":       data.Title,
		"Description": data.Description,
		"AssigneeID":  data.AssigneeID,
		"Priority":    data.Priority,
		"DueDate":     data.DueDate,
		"Tags":        dbmodels.StringSlice(data.Tags),
	})
	if err != nil {
		logger.WithError(err).Error("ошибка обновления задачи")
		return err
	}
	if len(changes.Data) > 0 {
		i.writeHistory(spaceID, id, actor, dbmodels.TaskHistoryStatusChange, changes)
	}
	logger.Info("обновлена задача")
	return nil
}

func (i impl) Delete(spaceID, id string) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	if _, err := i.getRec(spaceID, id); err != nil {
		return err
	}
	if err := i.store.Delete(spaceID, id); err != nil {
		logger.WithError(err).Error("ошибка удаления задачи")
		return err
	}
	logger.Info("удалена задача")
	return nil
}

func (i impl) List(spaceID string, filter taskapimodels.TaskFilter) (list []taskapimodels.TaskView, rowCount int64, err error) {
	if err = filter.Validate(); err != nil {
		return nil, 0, errors.Wrap(models.ErrValidation, err.Error())
	}
	rowCount, err = i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := i.store.List(spaceID, filter)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithError(err).
			Error("ошибка получения списка задач")
		return nil, 0, err
	}
	result := make([]taskapimodels.TaskView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, taskapimodels.TaskConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Transition(spaceID, id string, actor Actor, target models.TaskStatus) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id).
		WithField("target_status", target)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !rec.Status.IsAllowChange(target) {
		return errors.Wrapf(models.ErrInvalidTransition,
			"переход %s -> %s недопустим", rec.Status, target)
	}
	if target == models.TaskStatusCompleted && !actor.Role.IsElevated() {
		return errors.Wrap(models.ErrForbidden, "завершение задачи подтверждает руководитель")
	}
	updMap := map[string]interface{}{
		"Status": target,
	}
	now := time.Now()
	if target == models.TaskStatusCompleted {
		updMap["CompletedAt"] = now
	}
	if err = i.store.Update(spaceID, id, updMap); err != nil {
		logger.WithError(err).Error("ошибка смены статуса задачи")
		return err
	}
	i.writeHistory(spaceID, id, actor, dbmodels.TaskHistoryStatusChange, dbmodels.EntityChanges{
		Description: "Смена статуса",
		Data: []dbmodels.FieldChanges{
			{Field: "status", OldValue: rec.Status, NewValue: target},
		},
	})
	logger.WithField("old_status", rec.Status).Info("изменен статус задачи")

	if target == models.TaskStatusCompleted {
		i.onCompleted(*rec, now)
	}
	return nil
}

// onCompleted - постэффекты завершения: уведомление исполнителя и факт
// просрочки для движка штрафов. Ошибки не прерывают завершение, факт
// остается в очереди для дообработки
func (i impl) onCompleted(rec dbmodels.Task, completedAt time.Time) {
	logger := log.WithField("space_id", rec.SpaceID).
		WithField("rec_id", rec.ID)
	if rec.Assignee != nil {
		go i.pushHandler.SendNotification(rec.Assignee.UserID, models.PushTaskApproved,
			"Задача принята", fmt.Sprintf("Задача «%s» принята и завершена", rec.Title), "")
	}
	daysLate := rec.DaysLate(completedAt)
	if daysLate == 0 {
		return
	}
	_, err := i.penaltyHandler.ReportFact(rec.SpaceID, hrapimodels.PenaltyFactData{
		PolicyType:     models.PolicyTypeLateTask,
		StaffProfileID: rec.AssigneeID,
		SourceType:     models.PenaltySourceTask,
		SourceID:       rec.ID,
		Magnitude:      daysLate,
		OccurredAt:     completedAt,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка оценки просрочки задачи")
	}
}

func (i impl) SubmitReport(spaceID, id string, actor Actor, data taskapimodels.TaskReportData) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	if err := data.Validate(); err != nil {
		return errors.Wrap(models.ErrValidation, err.Error())
	}
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if rec.AssigneeID != actor.StaffID {
		return errors.Wrap(models.ErrForbidden, "отчет сдает исполнитель задачи")
	}
	if !rec.Status.IsAllowChange(models.TaskStatusInReview) {
		return errors.Wrapf(models.ErrInvalidTransition,
			"переход %s -> %s недопустим", rec.Status, models.TaskStatusInReview)
	}
	err = i.store.Update(spaceID, id, map[string]interface{}{
		"Status":            models.TaskStatusInReview,
		"ReportDescription": data.Description,
		"ReportLinks":       dbmodels.StringSlice(data.Links),
	})
	if err != nil {
		logger.WithError(err).Error("ошибка отправки задачи на проверку")
		return err
	}
	i.writeHistory(spaceID, id, actor, dbmodels.TaskHistoryReport, dbmodels.EntityChanges{
		Description: "Отправлена на проверку",
		Data: []dbmodels.FieldChanges{
			{Field: "status", OldValue: rec.Status, NewValue: models.TaskStatusInReview},
		},
	})
	if rec.CreatorUserID != nil {
		go i.pushHandler.SendNotification(*rec.CreatorUserID, models.PushTaskSubmitted,
			"Задача на проверке", fmt.Sprintf("Задача «%s» отправлена на проверку", rec.Title), "")
	}
	logger.Info("задача отправлена на проверку")
	return nil
}

func (i impl) Reopen(spaceID, id string, actor Actor, reason string) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !rec.Status.IsTerminal() {
		return errors.Wrap(models.ErrInvalidTransition, "переоткрыть можно только завершенную задачу")
	}
	err = i.store.Update(spaceID, id, map[string]interface{}{
		"Status":      models.TaskStatusInProgress,
		"CompletedAt": nil,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка переоткрытия задачи")
		return err
	}
	i.writeHistory(spaceID, id, actor, dbmodels.TaskHistoryReopened, dbmodels.EntityChanges{
		Description: reason,
		Data: []dbmodels.FieldChanges{
			{Field: "status", OldValue: rec.Status, NewValue: models.TaskStatusInProgress},
		},
	})
	if config.Conf.Payroll.VoidPenaltyOnReopen == nil || *config.Conf.Payroll.VoidPenaltyOnReopen {
		if _, err = i.penaltyHandler.VoidBySource(spaceID, models.PenaltySourceTask, id); err != nil {
			logger.WithError(err).Error("ошибка аннулирования штрафов задачи")
		}
	}
	if rec.Assignee != nil {
		go i.pushHandler.SendNotification(rec.Assignee.UserID, models.PushTaskReopened,
			"Задача переоткрыта", fmt.Sprintf("Задача «%s» возвращена в работу", rec.Title), "")
	}
	logger.Info("задача переоткрыта")
	return nil
}

func (i impl) AddComment(spaceID, taskID string, actor Actor, data taskapimodels.TaskCommentData) (id string, err error) {
	logger := log.WithField("space_id", spaceID).
		WithField("task_id", taskID)
	if err = data.Validate(); err != nil {
		return "", errors.Wrap(models.ErrValidation, err.Error())
	}
	if _, err = i.getRec(spaceID, taskID); err != nil {
		return "", err
	}
	rec := dbmodels.TaskComment{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		TaskID:       taskID,
		AuthorUserID: actor.UserID,
		AuthorName:   i.actorName(actor),
		Comment:      data.Comment,
	}
	id, err = i.store.CreateComment(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка добавления комментария")
		return "", err
	}
	return id, nil
}

func (i impl) ListComments(spaceID, taskID string) (list []taskapimodels.TaskCommentView, err error) {
	recList, err := i.store.ListComments(spaceID, taskID)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithField("task_id", taskID).
			WithError(err).
			Error("ошибка получения комментариев")
		return nil, err
	}
	result := make([]taskapimodels.TaskCommentView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, taskapimodels.TaskCommentConvert(rec))
	}
	return result, nil
}

func (i impl) writeHistory(spaceID, taskID string, actor Actor, action dbmodels.TaskActionType, changes dbmodels.EntityChanges) {
	rec := dbmodels.TaskHistory{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		TaskID:     taskID,
		UserID:     &actor.UserID,
		UserName:   i.actorName(actor),
		ActionType: action,
		Changes:    changes,
	}
	if err := i.store.CreateHistory(rec); err != nil {
		log.WithField("space_id", spaceID).
			WithField("task_id", taskID).
			WithError(err).
			Error("ошибка записи истории задачи")
	}
}

func (i impl) actorName(actor Actor) string {
	if actor.UserID == "" {
		return models.SystemUser
	}
	user, err := i.spaceUserStore.GetByID(actor.UserID)
	if err != nil || user == nil {
		return models.SystemUser
	}
	return user.GetFullName()
}

func (i impl) getRec(spaceID, id string) (*dbmodels.Task, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithField("rec_id", id).
			WithError(err).
			Error("ошибка получения задачи")
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "задача не найдена")
	}
	return rec, nil
}

func (i impl) getAssignee(spaceID, staffID string) (*dbmodels.StaffProfile, error) {
	staff, err := i.staffStore.GetByID(spaceID, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, errors.Wrap(models.ErrNotFound, "исполнитель не найден")
	}
	if !staff.IsActive {
		return nil, errors.Wrap(models.ErrValidation, "исполнитель деактивирован")
	}
	return staff, nil
}

func taskChanges(rec dbmodels.Task, data taskapimodels.TaskData) dbmodels.EntityChanges {
	changes := dbmodels.EntityChanges{Description: "Задача изменена"}
	if rec.Title != data.Title {
		changes.Data = append(changes.Data, dbmodels.FieldChanges{
			Field: "title", OldValue: rec.Title, NewValue: data.Title,
		})
	}
	if rec.AssigneeID != data.AssigneeID {
		changes.Data = append(changes.Data, dbmodels.FieldChanges{
			Field: "assignee_id", OldValue: rec.AssigneeID, NewValue: data.AssigneeID,
		})
	}
	if rec.Priority != data.Priority {
		changes.Data = append(changes.Data, dbmodels.FieldChanges{
			Field: "priority", OldValue: rec.Priority, NewValue: data.Priority,
		})
	}
	return changes
}
