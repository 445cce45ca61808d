package usecases

import (
	"errors"
	"strings"
	"time"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
)

var ErrEmailRequired = errors.New("participant email is required")

// ResponseStore é o contrato de persistência de respostas
type ResponseStore interface {
	Create(response *entities.FormResponse) error
	ListByStudy(studyID string) ([]entities.FormResponse, error)
	CountByStudy(studyID string) (int64, error)
}

// ResponseUseCase recebe submissões públicas e serve as consultas do
// pesquisador sobre elas
type ResponseUseCase struct {
	responses ResponseStore
	now       func() time.Time
}

// NewResponseUseCase cria uma nova instância de ResponseUseCase
func NewResponseUseCase(responses ResponseStore) *ResponseUseCase {
	return &ResponseUseCase{
		responses: responses,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit grava a submissão de um respondente anônimo; as respostas são um
// blob opaco chaveado por identidade de pergunta
func (uc *ResponseUseCase) Submit(studyID string, formID *string, email string, name *string, data entities.ResponseData) (*entities.FormResponse, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}
	if data == nil {
		data = entities.ResponseData{}
	}

	response := &entities.FormResponse{
		StudyID:          studyID,
		FormID:           formID,
		ParticipantEmail: email,
		ParticipantName:  name,
		ResponseData:     data,
		SubmittedAt:      uc.now(),
	}
	if err := uc.responses.Create(response); err != nil {
		return nil, err
	}
	return response, nil
}

// ListByStudy retorna as respostas de um estudo em ordem de submissão
func (uc *ResponseUseCase) ListByStudy(studyID string) ([]entities.FormResponse, error) {
	return uc.responses.ListByStudy(studyID)
}

// CountByStudy retorna o total de respostas de um estudo
func (uc *ResponseUseCase) CountByStudy(studyID string) (int64, error) {
	return uc.responses.CountByStudy(studyID)
}
