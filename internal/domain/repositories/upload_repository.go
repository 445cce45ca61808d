package repositories

import (
	"fmt"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"gorm.io/gorm"
)

// UploadRepository implementa o acesso a metadados de uploads de dados
type UploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository cria uma nova instância de UploadRepository
func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Create insere os metadados de um upload
func (r *UploadRepository) Create(upload *entities.StudyDataUpload) error {
	if err := r.db.Create(upload).Error; err != nil {
		return fmt.Errorf("erro ao gravar upload: %w", err)
	}
	return nil
}

// GetByID busca um upload do pesquisador dono
func (r *UploadRepository) GetByID(id, researcherID string) (*entities.StudyDataUpload, error) {
	var upload entities.StudyDataUpload
	err := r.db.
		Where("id = ? AND researcher_id = ?", id, researcherID).
		First(&upload).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// ListByStudy retorna os uploads de um estudo, mais recentes primeiro
func (r *UploadRepository) ListByStudy(studyID string) ([]entities.StudyDataUpload, error) {
	var uploads []entities.StudyDataUpload
	err := r.db.
		Where("study_id = ?", studyID).
		Order("created_at desc").
		Find(&uploads).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar uploads: %w", err)
	}
	return uploads, nil
}

// Delete remove os metadados de um upload do pesquisador dono
func (r *UploadRepository) Delete(id, researcherID string) error {
	res := r.db.
		Where("id = ? AND researcher_id = ?", id, researcherID).
		Delete(&entities.StudyDataUpload{})
	if res.Error != nil {
		return fmt.Errorf("erro ao remover upload: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
