package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/researchlink/researchlink-api/internal/application/usecases"
	"github.com/researchlink/researchlink-api/internal/domain/repositories"
	"github.com/researchlink/researchlink-api/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// UploadHandler expõe o envio e a gestão de arquivos de dados de estudo
type UploadHandler struct {
	studies *repositories.StudyRepository
	uploads *usecases.UploadUseCase
}

// NewUploadHandler cria uma nova instância de UploadHandler
func NewUploadHandler(studies *repositories.StudyRepository, uploads *usecases.UploadUseCase) *UploadHandler {
	return &UploadHandler{studies: studies, uploads: uploads}
}

// Upload recebe um CSV multipart e o associa ao estudo do pesquisador
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	researcherID := middleware.UserID(c)

	study, err := h.studies.GetByID(c.Params("id"), researcherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Estudo não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar estudo"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Arquivo é obrigatório"})
	}
	if fileHeader.Size > usecases.MaxUploadSize {
		return c.Status(413).JSON(fiber.Map{"error": usecases.ErrFileTooLarge.Error()})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao ler arquivo"})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao ler arquivo"})
	}

	var description *string
	if value := c.FormValue("description"); value != "" {
		description = &value
	}

	upload, err := h.uploads.Upload(study.ID, researcherID, fileHeader.Filename, content, description)
	if err != nil {
		switch {
		case errors.Is(err, usecases.ErrNotCSV):
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, usecases.ErrFileTooLarge):
			return c.Status(413).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao enviar arquivo"})
	}
	return c.Status(201).JSON(upload)
}

// ListByStudy retorna os uploads do estudo do pesquisador
func (h *UploadHandler) ListByStudy(c *fiber.Ctx) error {
	study, err := h.studies.GetByID(c.Params("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Estudo não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar estudo"})
	}

	uploads, err := h.uploads.ListByStudy(study.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao buscar uploads"})
	}
	return c.JSON(fiber.Map{"uploads": uploads})
}

// Download devolve o conteúdo de um upload como anexo
func (h *UploadHandler) Download(c *fiber.Ctx) error {
	upload, content, err := h.uploads.Download(c.Params("uploadId"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Upload não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao baixar arquivo"})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", upload.FileName))
	return c.Send(content)
}

// Delete remove o arquivo do armazenamento e depois os metadados
func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	err := h.uploads.Delete(c.Params("uploadId"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Upload não encontrado"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao remover upload"})
	}
	return c.SendStatus(204)
}
