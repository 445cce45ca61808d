package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/researchlink/researchlink-api/internal/application/usecases"
	"github.com/researchlink/researchlink-api/internal/domain/repositories"
	"github.com/researchlink/researchlink-api/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// ResponseHandler serve as consultas do pesquisador sobre as respostas de um
// estudo, incluindo a exportação em CSV
type ResponseHandler struct {
	studies   *repositories.StudyRepository
	responses *usecases.ResponseUseCase
	export    *usecases.ExportUseCase
}

// NewResponseHandler cria uma nova instância de ResponseHandler
func NewResponseHandler(studies *repositories.StudyRepository, responses *usecases.ResponseUseCase, export *usecases.ExportUseCase) *ResponseHandler {
	return &ResponseHandler{studies: studies, responses: responses, export: export}
}

// ownedStudy resolve o estudo escopado pelo pesquisador autenticado
func (h *ResponseHandler) ownedStudy(c *fiber.Ctx) (string, string, error) {
	study, err := h.studies.GetByID(c.Params("id"), middleware.UserID(c))
	if err != nil {
		return "", "", err
	}
	return study.ID, study.Title, nil
}

// ListByStudy retorna as respostas de um estudo em ordem de submissão
func (h *ResponseHandler) ListByStudy(c *fiber.Ctx) error {
	studyID, _, err := h.ownedStudy(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Estudo não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar estudo"})
	}

	responses, err := h.responses.ListByStudy(studyID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar respostas"})
	}
	total, err := h.responses.CountByStudy(studyID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar respostas"})
	}
	return c.JSON(fiber.Map{
		"responses": responses,
		"total":     total,
	})
}

// ExportCSV baixa todas as respostas do estudo como um arquivo CSV com nome
// derivado do título
func (h *ResponseHandler) ExportCSV(c *fiber.Ctx) error {
	studyID, title, err := h.ownedStudy(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Estudo não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar estudo"})
	}

	data, filename, err := h.export.ExportCSV(studyID, title)
	if err != nil {
		if errors.Is(err, usecases.ErrNoResponses) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao exportar respostas"})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
