package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// StringSlice - jsonb-колонка со списком строк (теги, ссылки отчета)
type StringSlice []string

func (j StringSlice) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *StringSlice) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

// MoneyMap - jsonb-колонка с именованными суммами (надбавки, удержания)
type MoneyMap map[string]decimal.Decimal

func (j MoneyMap) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *MoneyMap) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

// Sum - сумма всех значений
func (j MoneyMap) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range j {
		total = total.Add(v)
	}
	return total
}

type EntityChanges struct {
	Description string         `json:"description"` // Комментарий
	Data        []FieldChanges `json:"data"`        // Список изменений
}

type FieldChanges struct {
	Field    string `json:"field"`     // Измененное поле
	OldValue any    `json:"old_value"` // Старое значение
	NewValue any    `json:"new_value"` // Новое значение
}

func (j EntityChanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *EntityChanges) Scan(value any) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}
