package models

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

var taskPriorityHumanName = map[TaskPriority]string{
	TaskPriorityLow:    "Низкий",
	TaskPriorityMedium: "Средний",
	TaskPriorityHigh:   "Высокий",
	TaskPriorityUrgent: "Срочный",
}

func (p TaskPriority) ToHuman() string {
	if human, exist := taskPriorityHumanName[p]; exist {
		return human
	}
	return string(p)
}

func (p TaskPriority) IsValid() bool {
	_, exist := taskPriorityHumanName[p]
	return exist
}

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

var taskStatusHumanName = map[TaskStatus]string{
	TaskStatusTodo:       "К выполнению",
	TaskStatusInProgress: "В работе",
	TaskStatusInReview:   "На проверке",
	TaskStatusCompleted:  "Завершена",
	TaskStatusBlocked:    "Заблокирована",
}

func (s TaskStatus) ToHuman() string {
	if human, exist := taskStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s TaskStatus) IsValid() bool {
	_, exist := taskStatusHumanName[s]
	return exist
}

// taskTransitions - допустимые переходы статуса задачи.
// COMPLETED терминальный, переоткрытие идет отдельной операцией Reopen.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusTodo:       {TaskStatusInProgress, TaskStatusInReview, TaskStatusCompleted, TaskStatusBlocked},
	TaskStatusInProgress: {TaskStatusInReview, TaskStatusCompleted, TaskStatusBlocked},
	TaskStatusInReview:   {TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked},
	TaskStatusBlocked:    {TaskStatusInProgress},
	TaskStatusCompleted:  {},
}

func (s TaskStatus) IsAllowChange(target TaskStatus) bool {
	for _, allowed := range taskTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted
}
