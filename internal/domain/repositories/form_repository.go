package repositories

import (
	"fmt"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"gorm.io/gorm"
)

// FormRepository implementa o acesso a dados de formulários
type FormRepository struct {
	db *gorm.DB
}

// NewFormRepository cria uma nova instância de FormRepository
func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{db: db}
}

// Create insere um formulário com sua lista de perguntas completa
func (r *FormRepository) Create(form *entities.Form) error {
	if err := r.db.Create(form).Error; err != nil {
		return fmt.Errorf("erro ao criar formulário: %w", err)
	}
	return nil
}

// GetByID busca um formulário pela identidade
func (r *FormRepository) GetByID(id string) (*entities.Form, error) {
	var form entities.Form
	if err := r.db.Where("id = ?", id).First(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// Update regrava título, descrição e a lista ordenada de perguntas de forma
// atômica; não há persistência por pergunta
func (r *FormRepository) Update(form *entities.Form) error {
	res := r.db.Model(&entities.Form{}).
		Where("id = ?", form.ID).
		Select("title", "description", "questions").
		Updates(form)
	if res.Error != nil {
		return fmt.Errorf("erro ao atualizar formulário: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByStudy retorna os formulários associados a um estudo
func (r *FormRepository) ListByStudy(studyID string) ([]entities.Form, error) {
	var forms []entities.Form
	err := r.db.
		Where("study_id = ?", studyID).
		Order("created_at desc").
		Find(&forms).Error
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar formulários: %w", err)
	}
	return forms, nil
}
