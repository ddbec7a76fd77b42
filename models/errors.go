package models

import "github.com/pkg/errors"

// типовые ошибки ядра, проверяются через errors.Is
var (
	ErrNotFound                 = errors.New("запись не найдена")
	ErrForbidden                = errors.New("операция недоступна для текущей роли")
	ErrInvalidTransition        = errors.New("недопустимый переход статуса задачи")
	ErrInvalidPayrollTransition = errors.New("недопустимый переход статуса расчетного листа")
	ErrValidation               = errors.New("некорректные данные")
	// ErrDuplicateFact - повторная обработка того же факта, для вызывающего не ошибка:
	// возвращается уже существующая запись
	ErrDuplicateFact = errors.New("факт уже обработан")
)
