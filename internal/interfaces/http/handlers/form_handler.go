package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/researchlink/researchlink-api/internal/application/usecases"
	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"gorm.io/gorm"
)

// FormHandler expõe o construtor de formulários e as operações de edição da
// lista ordenada de perguntas
type FormHandler struct {
	forms *usecases.FormUseCase
}

// NewFormHandler cria uma nova instância de FormHandler
func NewFormHandler(forms *usecases.FormUseCase) *FormHandler {
	return &FormHandler{forms: forms}
}

type formRequest struct {
	StudyID     *string             `json:"study_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []entities.Question `json:"questions"`
}

// CreateForm cria um formulário com sua lista de perguntas. Na rota aninhada
// em /studies, o estudo dono vem do caminho.
func (h *FormHandler) CreateForm(c *fiber.Ctx) error {
	var req formRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}
	if studyID := c.Params("id"); studyID != "" {
		req.StudyID = &studyID
	}

	form, err := h.forms.CreateForm(req.StudyID, req.Title, req.Description, req.Questions)
	if err != nil {
		if errors.Is(err, usecases.ErrTitleRequired) {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao criar formulário"})
	}
	return c.Status(201).JSON(form)
}

// GetForm busca um formulário com seu esquema de renderização
func (h *FormHandler) GetForm(c *fiber.Ctx) error {
	form, err := h.forms.GetForm(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Formulário não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar formulário"})
	}
	return c.JSON(fiber.Map{
		"form":   form,
		"schema": h.forms.Schema(form),
	})
}

// GetSchema devolve apenas os descritores de controle do formulário
func (h *FormHandler) GetSchema(c *fiber.Ctx) error {
	form, err := h.forms.GetForm(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Formulário não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar formulário"})
	}
	return c.JSON(fiber.Map{"schema": h.forms.Schema(form)})
}

// SaveForm regrava título, descrição e lista de perguntas de uma vez
func (h *FormHandler) SaveForm(c *fiber.Ctx) error {
	var req formRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	form, err := h.forms.SaveForm(c.Params("id"), req.Title, req.Description, req.Questions)
	if err != nil {
		if errors.Is(err, usecases.ErrTitleRequired) {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Formulário não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao salvar formulário"})
	}
	return c.JSON(form)
}

// ListByStudy retorna os formulários de um estudo
func (h *FormHandler) ListByStudy(c *fiber.Ctx) error {
	forms, err := h.forms.ListByStudy(c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar formulários"})
	}
	return c.JSON(fiber.Map{"forms": forms})
}

// AddQuestion acrescenta uma pergunta ao fim da lista enviada; a edição é
// transitória até o formulário ser salvo
func (h *FormHandler) AddQuestion(c *fiber.Ctx) error {
	var req struct {
		Questions []entities.Question `json:"questions"`
		Question  entities.Question   `json:"question"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}
	return c.JSON(fiber.Map{"questions": h.forms.AddQuestion(req.Questions, req.Question)})
}

// UpdateQuestion substitui apenas os campos nomeados de uma pergunta
func (h *FormHandler) UpdateQuestion(c *fiber.Ctx) error {
	var req struct {
		Questions []entities.Question    `json:"questions"`
		Patch     usecases.QuestionPatch `json:"patch"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	questions, err := h.forms.UpdateQuestion(req.Questions, c.Params("questionId"), req.Patch)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Pergunta não encontrada"})
	}
	return c.JSON(fiber.Map{"questions": questions})
}

// DeleteQuestion remove pela identidade e fecha o espaço
func (h *FormHandler) DeleteQuestion(c *fiber.Ctx) error {
	var req struct {
		Questions []entities.Question `json:"questions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	questions, err := h.forms.DeleteQuestion(req.Questions, c.Params("questionId"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Pergunta não encontrada"})
	}
	return c.JSON(fiber.Map{"questions": questions})
}

// MoveQuestion reordena a lista deslocando uma pergunta de um índice a outro
func (h *FormHandler) MoveQuestion(c *fiber.Ctx) error {
	var req struct {
		Questions []entities.Question `json:"questions"`
		From      int                 `json:"from"`
		To        int                 `json:"to"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	questions, err := usecases.MoveQuestion(req.Questions, req.From, req.To)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"questions": questions})
}

// GenerateQuestions pede perguntas ao serviço externo; a contagem é validada
// antes de qualquer chamada de rede
func (h *FormHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		QuestionCount int    `json:"question_count"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	questions, err := h.forms.GenerateQuestions(req.Title, req.Description, req.QuestionCount)
	if err != nil {
		if errors.Is(err, usecases.ErrInvalidQuestionCount) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"questions": questions})
}
