package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StudyType separa estudos pagos de estudos gratuitos
type StudyType string

const (
	StudyTypePaid StudyType = "paid"
	StudyTypeFree StudyType = "free"
)

type StudyStatus string

const (
	StudyStatusDraft     StudyStatus = "draft"
	StudyStatusActive    StudyStatus = "active"
	StudyStatusCompleted StudyStatus = "completed"
	StudyStatusPaused    StudyStatus = "paused"
)

type RecruitmentFormat string

const (
	RecruitmentRemote   RecruitmentFormat = "remote"
	RecruitmentInPerson RecruitmentFormat = "in-person"
	RecruitmentHybrid   RecruitmentFormat = "hybrid"
)

type PaymentSchedule string

const (
	PaymentImmediate PaymentSchedule = "immediate"
	PaymentWeekly    PaymentSchedule = "weekly"
	PaymentMonthly   PaymentSchedule = "monthly"
)

// StudyCategories lista as categorias disponíveis para estudos
var StudyCategories = []string{
	"UX Research",
	"Market Research",
	"Healthcare",
	"Finance",
	"Technology",
	"Education",
	"Psychology",
	"Product Testing",
}

// Study representa uma oportunidade de pesquisa criada por um pesquisador
type Study struct {
	ID                 string                 `json:"id" gorm:"primaryKey;column:id;type:uuid;default:gen_random_uuid()"`
	ResearcherID       string                 `json:"researcher_id" gorm:"column:researcher_id;type:uuid;index"`
	Title              string                 `json:"title" gorm:"column:title;not null"`
	Description        string                 `json:"description" gorm:"column:description;type:text"`
	Category           string                 `json:"category" gorm:"column:category"`
	Compensation       float64                `json:"compensation" gorm:"column:compensation"`
	Duration           int                    `json:"duration" gorm:"column:duration"`
	Location           RecruitmentFormat      `json:"location" gorm:"column:location;default:remote"`
	ParticipantsNeeded int                    `json:"participants_needed" gorm:"column:participants_needed"`
	Deadline           string                 `json:"deadline" gorm:"column:deadline"`
	Requirements       StringList             `json:"requirements" gorm:"column:requirements;type:jsonb"`
	ScreeningQuestions ScreeningQuestionList  `json:"screening_questions" gorm:"column:screening_questions;type:jsonb"`
	AutoApprove        bool                   `json:"auto_approve" gorm:"column:auto_approve"`
	PaymentSchedule    *PaymentSchedule       `json:"payment_schedule" gorm:"column:payment_schedule"`
	Status             StudyStatus            `json:"status" gorm:"column:status;not null;default:draft"`
	CreatedAt          time.Time              `json:"created_at" gorm:"column:created_at"`
	UpdatedAt          time.Time              `json:"updated_at" gorm:"column:updated_at"`
}

func (Study) TableName() string {
	return "studies"
}

// Type deriva o tipo do estudo a partir da compensação, como no fluxo de
// carregamento de rascunhos existentes
func (s *Study) Type() StudyType {
	if s.Compensation > 0 {
		return StudyTypePaid
	}
	return StudyTypeFree
}

// ScreeningQuestionType é o conjunto de tipos de perguntas de triagem
type ScreeningQuestionType string

const (
	ScreeningText           ScreeningQuestionType = "text"
	ScreeningMultipleChoice ScreeningQuestionType = "multiple_choice"
	ScreeningCheckbox       ScreeningQuestionType = "checkbox"
	ScreeningYesNo          ScreeningQuestionType = "yes_no"
	ScreeningNumber         ScreeningQuestionType = "number"
	ScreeningSlider         ScreeningQuestionType = "slider"
	ScreeningDate           ScreeningQuestionType = "date"
)

// ScreeningQuestion qualifica participantes de um estudo pago.
// DisqualifyingAnswers é persistido mas nenhuma lógica o consome hoje.
type ScreeningQuestion struct {
	ID                   string                `json:"id"`
	Question             string                `json:"question"`
	Type                 ScreeningQuestionType `json:"type"`
	Options              []string              `json:"options,omitempty"`
	DisqualifyingAnswers []string              `json:"disqualifying_answers,omitempty"`
	Required             bool                  `json:"required"`
}

// HasOptions indica se o tipo exige uma lista de opções não vazia
func (t ScreeningQuestionType) HasOptions() bool {
	return t == ScreeningMultipleChoice || t == ScreeningCheckbox
}

// StringList é uma coluna jsonb com uma lista ordenada de strings
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported type %T for StringList", value)
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}

// ScreeningQuestionList é a coluna jsonb embutida no estudo; as perguntas
// nunca são persistidas individualmente
type ScreeningQuestionList []ScreeningQuestion

func (l ScreeningQuestionList) Value() (driver.Value, error) {
	if l == nil {
		l = ScreeningQuestionList{}
	}
	return json.Marshal(l)
}

func (l *ScreeningQuestionList) Scan(value interface{}) error {
	if value == nil {
		*l = ScreeningQuestionList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported type %T for ScreeningQuestionList", value)
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}
