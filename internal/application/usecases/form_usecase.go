package usecases

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/researchlink/researchlink-api/internal/domain/entities"
)

// Limites aceitos para geração de perguntas; contagens fora do intervalo são
// rejeitadas antes de qualquer chamada de rede
const (
	MinGeneratedQuestions = 1
	MaxGeneratedQuestions = 20
)

var (
	ErrTitleRequired        = errors.New("form title is required")
	ErrInvalidQuestionCount = errors.New("question count must be between 1 and 20")
	ErrFormQuestionNotFound = errors.New("question not found")
	ErrIndexOutOfRange      = errors.New("question index out of range")
)

// QuestionPatch edita apenas os campos nomeados de uma pergunta de formulário
type QuestionPatch struct {
	Type        *entities.QuestionType `json:"type"`
	Label       *string                `json:"label"`
	Placeholder *string                `json:"placeholder"`
	Required    *bool                  `json:"required"`
	Options     *[]string              `json:"options"`
	Min         *float64               `json:"min"`
	Max         *float64               `json:"max"`
	Step        *float64               `json:"step"`
}

// FormStore é o contrato de persistência de formulários
type FormStore interface {
	Create(form *entities.Form) error
	GetByID(id string) (*entities.Form, error)
	Update(form *entities.Form) error
	ListByStudy(studyID string) ([]entities.Form, error)
}

// FormGenerator é a fronteira com o endpoint de geração de texto
type FormGenerator interface {
	GenerateFormQuestions(title, description string, count int) ([]entities.Question, error)
}

// FormUseCase implementa o construtor de formulários e seu esquema dinâmico
type FormUseCase struct {
	forms     FormStore
	generator FormGenerator
	newID     func() string
}

// NewFormUseCase cria uma nova instância de FormUseCase
func NewFormUseCase(forms FormStore, generator FormGenerator) *FormUseCase {
	return &FormUseCase{
		forms:     forms,
		generator: generator,
		newID:     uuid.NewString,
	}
}

// CreateForm persiste um formulário novo com sua lista ordenada de perguntas
func (uc *FormUseCase) CreateForm(studyID *string, title, description string, questions []entities.Question) (*entities.Form, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	form := &entities.Form{
		StudyID:     studyID,
		Title:       title,
		Description: description,
		Questions:   entities.QuestionList(questions),
	}
	if form.Questions == nil {
		form.Questions = entities.QuestionList{}
	}
	if err := uc.forms.Create(form); err != nil {
		return nil, err
	}
	return form, nil
}

// GetForm busca um formulário pela identidade
func (uc *FormUseCase) GetForm(id string) (*entities.Form, error) {
	return uc.forms.GetByID(id)
}

// SaveForm regrava o formulário inteiro de uma vez; não há autosave nem
// persistência por pergunta
func (uc *FormUseCase) SaveForm(id, title, description string, questions []entities.Question) (*entities.Form, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	form := &entities.Form{
		ID:          id,
		Title:       title,
		Description: description,
		Questions:   entities.QuestionList(questions),
	}
	if form.Questions == nil {
		form.Questions = entities.QuestionList{}
	}
	if err := uc.forms.Update(form); err != nil {
		return nil, err
	}
	return uc.forms.GetByID(id)
}

// ListByStudy retorna os formulários associados a um estudo
func (uc *FormUseCase) ListByStudy(studyID string) ([]entities.Form, error) {
	return uc.forms.ListByStudy(studyID)
}

// AddQuestion atribui identidade nova à pergunta e a acrescenta ao fim da
// ordem, devolvendo a lista resultante
func (uc *FormUseCase) AddQuestion(questions []entities.Question, question entities.Question) []entities.Question {
	question.ID = uc.newID()
	result := append(append([]entities.Question{}, questions...), question)
	return result
}

// UpdateQuestion substitui apenas os campos nomeados do elemento com a
// identidade dada, sem tocar na ordem nem nos demais elementos
func (uc *FormUseCase) UpdateQuestion(questions []entities.Question, questionID string, patch QuestionPatch) ([]entities.Question, error) {
	result := append([]entities.Question{}, questions...)
	for i := range result {
		q := &result[i]
		if q.ID != questionID {
			continue
		}
		if patch.Type != nil {
			q.Type = *patch.Type
		}
		if patch.Label != nil {
			q.Label = *patch.Label
		}
		if patch.Placeholder != nil {
			q.Placeholder = *patch.Placeholder
		}
		if patch.Required != nil {
			q.Required = *patch.Required
		}
		if patch.Options != nil {
			q.Options = *patch.Options
		}
		if patch.Min != nil {
			q.Min = patch.Min
		}
		if patch.Max != nil {
			q.Max = patch.Max
		}
		if patch.Step != nil {
			q.Step = patch.Step
		}
		return result, nil
	}
	return nil, ErrFormQuestionNotFound
}

// DeleteQuestion remove pela identidade e fecha o espaço
func (uc *FormUseCase) DeleteQuestion(questions []entities.Question, questionID string) ([]entities.Question, error) {
	for i := range questions {
		if questions[i].ID == questionID {
			result := append([]entities.Question{}, questions[:i]...)
			return append(result, questions[i+1:]...), nil
		}
	}
	return nil, ErrFormQuestionNotFound
}

// MoveQuestion é a operação pura de reordenação do editor arrastável: remove
// do índice antigo e insere no novo, preservando todos os outros atributos de
// todos os elementos
func MoveQuestion(questions []entities.Question, from, to int) ([]entities.Question, error) {
	if from < 0 || from >= len(questions) || to < 0 || to >= len(questions) {
		return nil, ErrIndexOutOfRange
	}

	result := append([]entities.Question{}, questions...)
	moved := result[from]
	result = append(result[:from], result[from+1:]...)

	result = append(result, entities.Question{})
	copy(result[to+1:], result[to:])
	result[to] = moved
	return result, nil
}

// GenerateQuestions valida a contagem antes de emitir a chamada externa e,
// com resposta bem formada e não vazia, devolve a lista que substitui por
// inteiro a lista em edição
func (uc *FormUseCase) GenerateQuestions(title, description string, count int) ([]entities.Question, error) {
	if count < MinGeneratedQuestions || count > MaxGeneratedQuestions {
		return nil, ErrInvalidQuestionCount
	}

	generated, err := uc.generator.GenerateFormQuestions(title, description, count)
	if err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		return nil, errors.New("invalid response format from AI service")
	}

	for i := range generated {
		if generated[i].ID == "" {
			generated[i].ID = uc.newID()
		}
	}
	return generated, nil
}

// Schema produz os descritores de controle do formulário na ordem de
// exibição; tipos desconhecidos não contribuem controle algum
func (uc *FormUseCase) Schema(form *entities.Form) []entities.Control {
	controls := make([]entities.Control, 0, len(form.Questions))
	for _, q := range form.Questions {
		if control := entities.RenderControl(q); control != nil {
			controls = append(controls, *control)
		}
	}
	return controls
}
