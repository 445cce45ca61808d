package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/researchlink/researchlink-api/internal/application/usecases"
	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"github.com/researchlink/researchlink-api/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// WizardHandler expõe a máquina de estados do wizard de criação de estudos
type WizardHandler struct {
	wizard *usecases.WizardUseCase
}

// NewWizardHandler cria uma nova instância de WizardHandler
func NewWizardHandler(wizard *usecases.WizardUseCase) *WizardHandler {
	return &WizardHandler{wizard: wizard}
}

// sessionView é a resposta padrão dos endpoints do wizard
func sessionView(session *usecases.WizardSession) fiber.Map {
	return fiber.Map{
		"study":             session.Study,
		"study_type":        session.Track,
		"current_step":      session.CurrentStep,
		"max_step":          session.MaxStep(),
		"steps":             session.Steps(),
		"draft_state":       session.Draft,
		"validation_errors": session.Errors,
	}
}

func (h *WizardHandler) session(c *fiber.Ctx) (*usecases.WizardSession, error) {
	return h.wizard.Get(middleware.UserID(c), c.Params("id"))
}

func sessionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Estudo não encontrado"})
	}
	return c.Status(500).JSON(fiber.Map{"error": "Could not load or create study"})
}

// CreateStudy abre o wizard para um rascunho novo: o rascunho vazio é
// persistido imediatamente com título placeholder
func (h *WizardHandler) CreateStudy(c *fiber.Ctx) error {
	session, err := h.wizard.Start(middleware.UserID(c), "")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Could not load or create study"})
	}
	return c.Status(201).JSON(sessionView(session))
}

// GetSession retoma (ou recria a partir do banco) a sessão do wizard
func (h *WizardHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(sessionView(session))
}

// ChooseType fixa a trilha paga ou gratuita do rascunho
func (h *WizardHandler) ChooseType(c *fiber.Ctx) error {
	var req struct {
		StudyType entities.StudyType `json:"study_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	if err := h.wizard.ChooseType(session, req.StudyType); err != nil {
		if errors.Is(err, usecases.ErrTypeAlreadyChosen) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sessionView(session))
}

// UpdateFields aplica edições de campos ao rascunho em memória
func (h *WizardHandler) UpdateFields(c *fiber.Ctx) error {
	var patch usecases.StudyPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	h.wizard.UpdateFields(session, patch)
	return c.JSON(sessionView(session))
}

// Next valida o passo atual e avança; erros de validação bloqueiam o avanço
// e voltam mapeados por campo
func (h *WizardHandler) Next(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	if errs := h.wizard.Next(session); len(errs) > 0 {
		return c.Status(422).JSON(fiber.Map{
			"error":             "Please fix validation errors",
			"validation_errors": errs,
		})
	}
	return c.JSON(sessionView(session))
}

// Previous volta um passo sem validar
func (h *WizardHandler) Previous(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	h.wizard.Previous(session)
	return c.JSON(sessionView(session))
}

// SaveDraft persiste o rascunho atual sem validação e sem mudar o status
func (h *WizardHandler) SaveDraft(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	if err := h.wizard.SaveDraft(session); err != nil {
		// estado em memória intacto; o cliente pode tentar de novo
		return c.Status(500).JSON(fiber.Map{"error": "Error saving draft"})
	}
	return c.JSON(fiber.Map{
		"message": "Draft saved successfully",
		"study":   session.Study,
	})
}

// Publish revalida a trilha inteira e ativa o estudo
func (h *WizardHandler) Publish(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	step, errs, err := h.wizard.Publish(session)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Error publishing study"})
	}
	if len(errs) > 0 {
		return c.Status(422).JSON(fiber.Map{
			"error":             "Please complete all required fields before publishing",
			"step":              step,
			"validation_errors": errs,
		})
	}
	return c.JSON(fiber.Map{
		"message": "Study published successfully",
		"study":   session.Study,
	})
}

// AddQuestion acrescenta uma pergunta de triagem placeholder
func (h *WizardHandler) AddQuestion(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	question := h.wizard.AddScreeningQuestion(session)
	return c.Status(201).JSON(question)
}

// UpdateQuestion edita os campos nomeados de uma pergunta de triagem
func (h *WizardHandler) UpdateQuestion(c *fiber.Ctx) error {
	var patch usecases.ScreeningQuestionPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	if err := h.wizard.UpdateScreeningQuestion(session, c.Params("questionId"), patch); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Pergunta não encontrada"})
	}
	return c.JSON(sessionView(session))
}

// DeleteQuestion remove uma pergunta de triagem pela identidade
func (h *WizardHandler) DeleteQuestion(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	if err := h.wizard.DeleteScreeningQuestion(session, c.Params("questionId")); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Pergunta não encontrada"})
	}
	return c.JSON(sessionView(session))
}

// DuplicateQuestion copia uma pergunta com identidade nova e texto sufixado
func (h *WizardHandler) DuplicateQuestion(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	duplicate, err := h.wizard.DuplicateScreeningQuestion(session, c.Params("questionId"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Pergunta não encontrada"})
	}
	return c.Status(201).JSON(duplicate)
}

// GenerateQuestions substitui a lista de triagem por perguntas geradas pelo
// endpoint externo; falhas não alteram a lista existente
func (h *WizardHandler) GenerateQuestions(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	questions, err := h.wizard.GenerateScreeningQuestions(session)
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"questions": questions})
}

// AddRequirement acrescenta um requisito de texto livre
func (h *WizardHandler) AddRequirement(c *fiber.Ctx) error {
	var req struct {
		Requirement string `json:"requirement"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	h.wizard.AddRequirement(session, req.Requirement)
	return c.JSON(fiber.Map{"requirements": session.Study.Requirements})
}

// RemoveRequirement remove o requisito na posição dada
func (h *WizardHandler) RemoveRequirement(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Índice inválido"})
	}

	session, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}

	if err := h.wizard.RemoveRequirement(session, index); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Índice inválido"})
	}
	return c.JSON(fiber.Map{"requirements": session.Study.Requirements})
}
