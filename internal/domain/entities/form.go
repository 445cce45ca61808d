package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// QuestionType é o conjunto fechado de tipos de perguntas de formulário
type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionRadio    QuestionType = "radio"
	QuestionCheckbox QuestionType = "checkbox"
	QuestionDropdown QuestionType = "dropdown"
	QuestionDate     QuestionType = "date"
	QuestionSlider   QuestionType = "slider"
	QuestionFile     QuestionType = "file"
	QuestionImage    QuestionType = "image"
	QuestionYesNo    QuestionType = "yesno"
)

// HasOptions indica se o tipo consome a lista de opções
func (t QuestionType) HasOptions() bool {
	return t == QuestionRadio || t == QuestionCheckbox || t == QuestionDropdown
}

// Question é uma pergunta tipada dentro de um formulário. A ordem da lista
// que a contém é significativa: ordem de exibição = ordem de submissão.
type Question struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder,omitempty"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options,omitempty"`
	Min         *float64     `json:"min,omitempty"`
	Max         *float64     `json:"max,omitempty"`
	Step        *float64     `json:"step,omitempty"`
}

// Form é uma coleção ordenada e nomeada de perguntas, associada fracamente a
// um estudo
type Form struct {
	ID          string       `json:"id" gorm:"primaryKey;column:id;type:uuid;default:gen_random_uuid()"`
	StudyID     *string      `json:"study_id" gorm:"column:study_id;type:uuid;index"`
	Title       string       `json:"title" gorm:"column:title;not null"`
	Description string       `json:"description" gorm:"column:description;type:text"`
	Questions   QuestionList `json:"questions" gorm:"column:questions;type:jsonb"`
	CreatedAt   time.Time    `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"column:updated_at"`
}

func (Form) TableName() string {
	return "forms"
}

// QuestionList é a coluna jsonb do formulário; a lista inteira é persistida
// atomicamente, sem persistência por pergunta
type QuestionList []Question

func (l QuestionList) Value() (driver.Value, error) {
	if l == nil {
		l = QuestionList{}
	}
	return json.Marshal(l)
}

func (l *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*l = QuestionList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported type %T for QuestionList", value)
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}
