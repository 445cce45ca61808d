package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ResponseData guarda as respostas brutas como um blob estruturado opaco,
// chaveado por identidade de pergunta
type ResponseData map[string]interface{}

func (d ResponseData) Value() (driver.Value, error) {
	if d == nil {
		d = ResponseData{}
	}
	return json.Marshal(d)
}

func (d *ResponseData) Scan(value interface{}) error {
	if value == nil {
		*d = ResponseData{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported type %T for ResponseData", value)
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, d)
}

// FormResponse representa a submissão de um respondente anônimo
type FormResponse struct {
	ID               string       `json:"id" gorm:"primaryKey;column:id;type:uuid;default:gen_random_uuid()"`
	StudyID          string       `json:"study_id" gorm:"column:study_id;type:uuid;index"`
	FormID           *string      `json:"form_id" gorm:"column:form_id;type:uuid"`
	ParticipantEmail string       `json:"participant_email" gorm:"column:participant_email"`
	ParticipantName  *string      `json:"participant_name" gorm:"column:participant_name"`
	ResponseData     ResponseData `json:"response_data" gorm:"column:response_data;type:jsonb"`
	SubmittedAt      time.Time    `json:"submitted_at" gorm:"column:submitted_at"`
}

func (FormResponse) TableName() string {
	return "form_responses"
}
