package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"github.com/researchlink/researchlink-api/internal/domain/repositories"
	"github.com/researchlink/researchlink-api/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// StudyHandler lida com as consultas do painel do pesquisador
type StudyHandler struct {
	studies *repositories.StudyRepository
}

// NewStudyHandler cria uma nova instância de StudyHandler
func NewStudyHandler(studies *repositories.StudyRepository) *StudyHandler {
	return &StudyHandler{studies: studies}
}

// GetStudies retorna os estudos do pesquisador autenticado, paginados e
// ordenados por criação
func (h *StudyHandler) GetStudies(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Parâmetro 'page' inválido"})
	}

	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Parâmetro 'limit' inválido"})
	}

	studies, total, err := h.studies.ListByResearcher(middleware.UserID(c), page, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar estudos: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"data":  studies,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetStudy retorna um estudo do pesquisador autenticado
func (h *StudyHandler) GetStudy(c *fiber.Ctx) error {
	study, err := h.studies.GetByID(c.Params("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Estudo não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar estudo: " + err.Error()})
	}
	return c.JSON(study)
}

// GetCategories retorna a lista fixa de categorias de estudo
func (h *StudyHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": entities.StudyCategories})
}
