package usecases

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"gorm.io/gorm"
)

const (
	// StepTypeSelection é o estado inicial; o tipo escolhido nele é fixo
	// pelo resto do fluxo
	StepTypeSelection = 0
	StepBasicInfo     = 1
	StepScreening     = 2
	StepPayment       = 3

	sessionTTL = 2 * time.Hour

	defaultStudyTitle    = "Untitled Study"
	defaultQuestionLabel = "Untitled question"
)

var (
	ErrTypeAlreadyChosen = errors.New("study type already chosen for this draft")
	ErrTypeNotChosen     = errors.New("study type must be chosen first")
	ErrQuestionNotFound  = errors.New("screening question not found")
	ErrInvalidIndex      = errors.New("requirement index out of range")
)

// StepErrors mapeia campo -> mensagem; erros de validação nunca viram error
type StepErrors map[string]string

// DraftState torna explícita a transição "primeiro save adota identidade"
type DraftState string

const (
	DraftUnsaved DraftState = "unsaved"
	DraftSaved   DraftState = "saved"
)

// WizardStep descreve um passo visível do fluxo
type WizardStep struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// WizardSession é o rascunho em memória de um fluxo de criação de estudo,
// de posse exclusiva de uma visita à página do wizard
type WizardSession struct {
	ResearcherID string            `json:"researcher_id"`
	Track        entities.StudyType `json:"study_type,omitempty"`
	CurrentStep  int               `json:"current_step"`
	Draft        DraftState        `json:"draft_state"`
	Study        entities.Study    `json:"study"`
	Errors       StepErrors        `json:"validation_errors,omitempty"`
}

// MaxStep é o último passo da trilha escolhida: 4 para estudos pagos,
// 2 para gratuitos
func (s *WizardSession) MaxStep() int {
	if s.Track == entities.StudyTypePaid {
		return 4
	}
	return 2
}

// Steps retorna a trilha de passos da sessão
func (s *WizardSession) Steps() []WizardStep {
	if s.Track == entities.StudyTypePaid {
		return []WizardStep{
			{ID: 1, Title: "Basic Information", Description: "Study details and requirements"},
			{ID: 2, Title: "Screening Questions", Description: "Participant qualification criteria"},
			{ID: 3, Title: "Payment & Schedule", Description: "Compensation and timeline"},
			{ID: 4, Title: "Review & Publish", Description: "Final review and publication"},
		}
	}
	return []WizardStep{
		{ID: 1, Title: "Basic Information", Description: "Study details and requirements"},
		{ID: 2, Title: "Review & Publish", Description: "Final review and publication"},
	}
}

// StudyPatch são edições de campos vindas dos passos do wizard; ponteiros nil
// deixam o campo intocado
type StudyPatch struct {
	Title              *string                     `json:"title"`
	Description        *string                     `json:"description"`
	Category           *string                     `json:"category"`
	Compensation       *float64                    `json:"compensation"`
	Duration           *int                        `json:"duration"`
	Location           *entities.RecruitmentFormat `json:"location"`
	ParticipantsNeeded *int                        `json:"participants_needed"`
	Deadline           *string                     `json:"deadline"`
	AutoApprove        *bool                       `json:"auto_approve"`
	PaymentSchedule    *entities.PaymentSchedule   `json:"payment_schedule"`
}

// ScreeningQuestionPatch edita apenas os campos nomeados da pergunta
type ScreeningQuestionPatch struct {
	Question             *string                         `json:"question"`
	Type                 *entities.ScreeningQuestionType `json:"type"`
	Options              *[]string                       `json:"options"`
	DisqualifyingAnswers *[]string                       `json:"disqualifying_answers"`
	Required             *bool                           `json:"required"`
}

// WizardStudyRepository é o contrato de persistência do wizard
type WizardStudyRepository interface {
	Create(study *entities.Study) error
	GetByID(id, researcherID string) (*entities.Study, error)
	Upsert(study *entities.Study) error
}

// SessionStore guarda sessões de wizard com TTL
type SessionStore interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, duration time.Duration)
	Delete(key string)
}

// ScreeningGenerator é a fronteira com o endpoint de geração de texto
type ScreeningGenerator interface {
	GenerateScreeningQuestions(description, category string, requirements []string) ([]entities.ScreeningQuestion, error)
}

// WizardUseCase implementa a máquina de estados do wizard de estudos
type WizardUseCase struct {
	studies   WizardStudyRepository
	sessions  SessionStore
	generator ScreeningGenerator
	newID     func() string
}

// NewWizardUseCase cria uma nova instância de WizardUseCase
func NewWizardUseCase(studies WizardStudyRepository, sessions SessionStore, generator ScreeningGenerator) *WizardUseCase {
	return &WizardUseCase{
		studies:   studies,
		sessions:  sessions,
		generator: generator,
		newID:     uuid.NewString,
	}
}

func sessionKey(studyID string) string {
	return "wizard:" + studyID
}

// Start carrega (ou cria, na primeira visita) o rascunho e abre a sessão do
// wizard. Rascunhos novos são persistidos imediatamente com título
// placeholder; rascunhos existentes retomam no passo 1 com a trilha derivada
// da compensação.
func (uc *WizardUseCase) Start(researcherID, studyID string) (*WizardSession, error) {
	if studyID != "" {
		if cached, ok := uc.sessions.Get(sessionKey(studyID)); ok {
			if session, ok := cached.(*WizardSession); ok && session.ResearcherID == researcherID {
				return session, nil
			}
		}

		existing, err := uc.studies.GetByID(studyID, researcherID)
		if err == nil {
			session := &WizardSession{
				ResearcherID: researcherID,
				Track:        existing.Type(),
				CurrentStep:  StepBasicInfo,
				Draft:        DraftSaved,
				Study:        *existing,
			}
			uc.store(session)
			return session, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("erro ao carregar rascunho: %w", err)
		}
	}

	draft := entities.Study{
		ResearcherID:       researcherID,
		Title:              defaultStudyTitle,
		Status:             entities.StudyStatusDraft,
		Location:           entities.RecruitmentRemote,
		Requirements:       entities.StringList{},
		ScreeningQuestions: entities.ScreeningQuestionList{},
	}
	if err := uc.studies.Create(&draft); err != nil {
		return nil, err
	}

	session := &WizardSession{
		ResearcherID: researcherID,
		CurrentStep:  StepTypeSelection,
		Draft:        DraftSaved,
		Study:        draft,
	}
	uc.store(session)
	return session, nil
}

// Get retoma uma sessão aberta, recarregando-a do banco se expirou
func (uc *WizardUseCase) Get(researcherID, studyID string) (*WizardSession, error) {
	return uc.Start(researcherID, studyID)
}

// ChooseType fixa a trilha do rascunho. Escolher "free" zera a compensação e
// esvazia as perguntas de triagem, sejam quais forem os valores anteriores;
// escolher "paid" semeia a primeira pergunta. O tipo não pode ser trocado
// depois de escolhido.
func (uc *WizardUseCase) ChooseType(session *WizardSession, studyType entities.StudyType) error {
	if studyType != entities.StudyTypePaid && studyType != entities.StudyTypeFree {
		return fmt.Errorf("unknown study type %q", studyType)
	}
	if session.Track != "" && session.Track != studyType {
		return ErrTypeAlreadyChosen
	}

	session.Track = studyType
	if studyType == entities.StudyTypeFree {
		session.Study.Compensation = 0
		session.Study.ScreeningQuestions = entities.ScreeningQuestionList{}
		session.Study.PaymentSchedule = nil
	} else {
		uc.seedScreening(session)
	}
	if session.CurrentStep == StepTypeSelection {
		session.CurrentStep = StepBasicInfo
	}
	uc.store(session)
	return nil
}

// UpdateFields aplica edições de campos em memória, sem persistir
func (uc *WizardUseCase) UpdateFields(session *WizardSession, patch StudyPatch) {
	study := &session.Study
	if patch.Title != nil {
		study.Title = *patch.Title
	}
	if patch.Description != nil {
		study.Description = *patch.Description
	}
	if patch.Category != nil {
		study.Category = *patch.Category
	}
	if patch.Compensation != nil && session.Track != entities.StudyTypeFree {
		study.Compensation = *patch.Compensation
	}
	if patch.Duration != nil {
		study.Duration = *patch.Duration
	}
	if patch.Location != nil {
		study.Location = *patch.Location
	}
	if patch.ParticipantsNeeded != nil {
		study.ParticipantsNeeded = *patch.ParticipantsNeeded
	}
	if patch.Deadline != nil {
		study.Deadline = *patch.Deadline
	}
	if patch.AutoApprove != nil {
		study.AutoApprove = *patch.AutoApprove
	}
	if patch.PaymentSchedule != nil {
		study.PaymentSchedule = patch.PaymentSchedule
	}
	uc.store(session)
}

// ValidateStep valida um passo da trilha atual. O resultado vazio significa
// passo válido; nenhum erro de validação contata o backend.
func (uc *WizardUseCase) ValidateStep(session *WizardSession, step int) StepErrors {
	errs := StepErrors{}
	study := session.Study

	switch step {
	case StepBasicInfo:
		if strings.TrimSpace(study.Title) == "" {
			errs["title"] = "Study title is required"
		}
		if strings.TrimSpace(study.Description) == "" {
			errs["description"] = "Study description is required"
		}
		if study.Category == "" {
			errs["category"] = "Category is required"
		}
		if session.Track == entities.StudyTypePaid && study.Compensation <= 0 {
			errs["compensation"] = "Valid compensation amount is required"
		}
		if study.Duration <= 0 {
			errs["duration"] = "Valid duration is required"
		}
		if study.ParticipantsNeeded <= 0 {
			errs["participants_needed"] = "Valid number of participants is required"
		}
		if study.Deadline == "" {
			errs["deadline"] = "Application deadline is required"
		}
	case StepScreening:
		if session.Track == entities.StudyTypePaid && len(study.ScreeningQuestions) == 0 {
			errs["screening_questions"] = "At least one screening question is required"
		}
	}

	return errs
}

// Next avança um passo se a validação do passo atual passar. Entrar no passo
// de triagem com a lista vazia semeia exatamente uma pergunta padrão.
func (uc *WizardUseCase) Next(session *WizardSession) StepErrors {
	if session.Track == "" {
		return StepErrors{"study_type": "Choose a study type first"}
	}

	errs := uc.ValidateStep(session, session.CurrentStep)
	session.Errors = errs
	if len(errs) > 0 {
		uc.store(session)
		return errs
	}

	if session.CurrentStep < session.MaxStep() {
		session.CurrentStep++
	}
	if session.Track == entities.StudyTypePaid && session.CurrentStep == StepScreening {
		uc.seedScreening(session)
	}
	uc.store(session)
	return nil
}

// Previous volta um passo sem validar, nunca abaixo do passo 1: uma vez
// escolhido, o tipo não é revisitável
func (uc *WizardUseCase) Previous(session *WizardSession) {
	if session.CurrentStep > StepBasicInfo {
		session.CurrentStep--
	}
	uc.store(session)
}

// seedScreening aplica a política "nunca começar este passo vazio": semeia
// uma pergunta padrão, mas jamais sobrescreve uma lista não vazia
func (uc *WizardUseCase) seedScreening(session *WizardSession) {
	if len(session.Study.ScreeningQuestions) > 0 {
		return
	}
	session.Study.ScreeningQuestions = entities.ScreeningQuestionList{{
		ID:       uc.newID(),
		Question: defaultQuestionLabel,
		Type:     entities.ScreeningText,
		Required: false,
	}}
}

// SaveDraft persiste o rascunho atual sem validação e sem mudar o status.
// Upsert: atualiza se a identidade já é conhecida, senão insere; a primeira
// inserção bem-sucedida adota a identidade retornada.
func (uc *WizardUseCase) SaveDraft(session *WizardSession) error {
	study := session.Study
	if strings.TrimSpace(study.Title) == "" {
		study.Title = defaultStudyTitle
	}
	study.ResearcherID = session.ResearcherID
	study.Status = entities.StudyStatusDraft

	if err := uc.studies.Upsert(&study); err != nil {
		// estado em memória preservado para nova tentativa
		return err
	}

	if session.Study.ID == "" {
		session.Study.ID = study.ID
	}
	session.Study.Title = study.Title
	session.Draft = DraftSaved
	uc.store(session)
	return nil
}

// Publish revalida todos os passos da trilha e grava o estudo como ativo.
// Para estudos gratuitos, compensação e perguntas de triagem são zeradas no
// payload independentemente do que estiver em memória.
func (uc *WizardUseCase) Publish(session *WizardSession) (int, StepErrors, error) {
	if session.Track == "" {
		return StepTypeSelection, StepErrors{"study_type": "Choose a study type first"}, nil
	}

	for step := StepBasicInfo; step <= session.MaxStep(); step++ {
		if errs := uc.ValidateStep(session, step); len(errs) > 0 {
			session.Errors = errs
			uc.store(session)
			return step, errs, nil
		}
	}

	study := session.Study
	study.ResearcherID = session.ResearcherID
	study.Status = entities.StudyStatusActive
	if session.Track == entities.StudyTypeFree {
		study.Compensation = 0
		study.ScreeningQuestions = entities.ScreeningQuestionList{}
		study.PaymentSchedule = nil
	}

	if err := uc.studies.Upsert(&study); err != nil {
		return 0, nil, err
	}

	session.Study = study
	session.Draft = DraftSaved
	session.Errors = nil
	// o chamador é redirecionado para fora do wizard após publicar
	uc.sessions.Delete(sessionKey(study.ID))
	return 0, nil, nil
}

// AddScreeningQuestion acrescenta uma pergunta com texto placeholder ao fim
// da lista
func (uc *WizardUseCase) AddScreeningQuestion(session *WizardSession) *entities.ScreeningQuestion {
	question := entities.ScreeningQuestion{
		ID:       uc.newID(),
		Question: defaultQuestionLabel,
		Type:     entities.ScreeningText,
		Required: false,
	}
	session.Study.ScreeningQuestions = append(session.Study.ScreeningQuestions, question)
	uc.store(session)
	return &question
}

// UpdateScreeningQuestion edita no lugar apenas os campos nomeados da
// pergunta com a identidade dada
func (uc *WizardUseCase) UpdateScreeningQuestion(session *WizardSession, questionID string, patch ScreeningQuestionPatch) error {
	for i := range session.Study.ScreeningQuestions {
		q := &session.Study.ScreeningQuestions[i]
		if q.ID != questionID {
			continue
		}
		if patch.Question != nil {
			q.Question = *patch.Question
		}
		if patch.Type != nil {
			q.Type = *patch.Type
		}
		if patch.Options != nil {
			q.Options = *patch.Options
		}
		if patch.DisqualifyingAnswers != nil {
			q.DisqualifyingAnswers = *patch.DisqualifyingAnswers
		}
		if patch.Required != nil {
			q.Required = *patch.Required
		}
		uc.store(session)
		return nil
	}
	return ErrQuestionNotFound
}

// DeleteScreeningQuestion remove a pergunta pela identidade, fechando o
// espaço sem deixar marcador
func (uc *WizardUseCase) DeleteScreeningQuestion(session *WizardSession, questionID string) error {
	questions := session.Study.ScreeningQuestions
	for i := range questions {
		if questions[i].ID == questionID {
			session.Study.ScreeningQuestions = append(questions[:i:i], questions[i+1:]...)
			uc.store(session)
			return nil
		}
	}
	return ErrQuestionNotFound
}

// DuplicateScreeningQuestion copia a pergunta com identidade nova e o texto
// sufixado com " (Copy)", mantendo os demais campos iguais
func (uc *WizardUseCase) DuplicateScreeningQuestion(session *WizardSession, questionID string) (*entities.ScreeningQuestion, error) {
	for _, q := range session.Study.ScreeningQuestions {
		if q.ID != questionID {
			continue
		}
		duplicate := q
		duplicate.ID = uc.newID()
		duplicate.Question = q.Question + " (Copy)"
		duplicate.Options = append([]string(nil), q.Options...)
		duplicate.DisqualifyingAnswers = append([]string(nil), q.DisqualifyingAnswers...)
		session.Study.ScreeningQuestions = append(session.Study.ScreeningQuestions, duplicate)
		uc.store(session)
		return &duplicate, nil
	}
	return nil, ErrQuestionNotFound
}

// AddRequirement acrescenta um requisito de texto livre não vazio
func (uc *WizardUseCase) AddRequirement(session *WizardSession, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	session.Study.Requirements = append(session.Study.Requirements, text)
	uc.store(session)
}

// RemoveRequirement remove o requisito na posição dada
func (uc *WizardUseCase) RemoveRequirement(session *WizardSession, index int) error {
	requirements := session.Study.Requirements
	if index < 0 || index >= len(requirements) {
		return ErrInvalidIndex
	}
	session.Study.Requirements = append(requirements[:index:index], requirements[index+1:]...)
	uc.store(session)
	return nil
}

// GenerateScreeningQuestions pede perguntas de triagem ao gerador externo e
// substitui a lista inteira se a resposta tiver o formato esperado. Falhas
// não alteram a lista existente.
func (uc *WizardUseCase) GenerateScreeningQuestions(session *WizardSession) ([]entities.ScreeningQuestion, error) {
	generated, err := uc.generator.GenerateScreeningQuestions(
		session.Study.Description,
		session.Study.Category,
		session.Study.Requirements,
	)
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
	session.Study.ScreeningQuestions = entities.ScreeningQuestionList(generated)
	uc.store(session)
	return generated, nil
}

func (uc *WizardUseCase) store(session *WizardSession) {
	if session.Study.ID == "" {
		return
	}
	uc.sessions.Set(sessionKey(session.Study.ID), session, sessionTTL)
}
