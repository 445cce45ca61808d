package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/researchlink/researchlink-api/internal/application/usecases"
	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"github.com/researchlink/researchlink-api/internal/domain/repositories"
	"gorm.io/gorm"
)

// PublicHandler serve a superfície anônima: estudos ativos, formulários com
// seus esquemas de renderização e a submissão de respostas
type PublicHandler struct {
	studies   *repositories.StudyRepository
	forms     *usecases.FormUseCase
	responses *usecases.ResponseUseCase
}

// NewPublicHandler cria uma nova instância de PublicHandler
func NewPublicHandler(studies *repositories.StudyRepository, forms *usecases.FormUseCase, responses *usecases.ResponseUseCase) *PublicHandler {
	return &PublicHandler{studies: studies, forms: forms, responses: responses}
}

// GetStudy devolve um estudo ativo com os controles de triagem já resolvidos
func (h *PublicHandler) GetStudy(c *fiber.Ctx) error {
	study, err := h.studies.GetPublished(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Estudo não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar estudo"})
	}

	controls := make([]entities.Control, 0, len(study.ScreeningQuestions))
	for _, q := range study.ScreeningQuestions {
		if control := entities.RenderScreeningControl(q); control != nil {
			controls = append(controls, *control)
		}
	}
	return c.JSON(fiber.Map{
		"study":     study,
		"screening": controls,
	})
}

// GetForm devolve um formulário com seu esquema de renderização
func (h *PublicHandler) GetForm(c *fiber.Ctx) error {
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

// SubmitResponse grava a submissão de um respondente anônimo a um estudo
// ativo
func (h *PublicHandler) SubmitResponse(c *fiber.Ctx) error {
	var req struct {
		FormID           *string               `json:"form_id"`
		ParticipantEmail string                `json:"participant_email"`
		ParticipantName  *string               `json:"participant_name"`
		ResponseData     entities.ResponseData `json:"response_data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	study, err := h.studies.GetPublished(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Estudo não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar estudo"})
	}

	response, err := h.responses.Submit(study.ID, req.FormID, req.ParticipantEmail, req.ParticipantName, req.ResponseData)
	if err != nil {
		if errors.Is(err, usecases.ErrEmailRequired) {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao registrar resposta"})
	}
	return c.Status(201).JSON(response)
}
