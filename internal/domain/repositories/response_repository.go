package repositories

import (
	"fmt"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"gorm.io/gorm"
)

// ResponseRepository implementa o acesso a dados de respostas de formulário
type ResponseRepository struct {
	db *gorm.DB
}

// NewResponseRepository cria uma nova instância de ResponseRepository
func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Create insere uma submissão de respondente
func (r *ResponseRepository) Create(response *entities.FormResponse) error {
	if err := r.db.Create(response).Error; err != nil {
		return fmt.Errorf("erro ao gravar resposta: %w", err)
	}
	return nil
}

// ListByStudy retorna as respostas de um estudo em ordem cronológica de
// submissão, a ordem exigida pela exportação
func (r *ResponseRepository) ListByStudy(studyID string) ([]entities.FormResponse, error) {
	var responses []entities.FormResponse
	err := r.db.
		Where("study_id = ?", studyID).
		Order("submitted_at asc").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar respostas: %w", err)
	}
	return responses, nil
}

// CountByStudy retorna o total de respostas de um estudo
func (r *ResponseRepository) CountByStudy(studyID string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.FormResponse{}).
		Where("study_id = ?", studyID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("erro ao contar respostas: %w", err)
	}
	return count, nil
}
