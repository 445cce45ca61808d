package repositories

import (
	"fmt"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"gorm.io/gorm"
)

// studyColumns são as colunas tocadas por um upsert de rascunho/publicação
var studyColumns = []string{
	"title", "description", "category", "compensation", "duration",
	"location", "participants_needed", "deadline", "requirements",
	"screening_questions", "auto_approve", "payment_schedule", "status",
}

// StudyRepository implementa o acesso a dados de estudos
type StudyRepository struct {
	db *gorm.DB
}

// NewStudyRepository cria uma nova instância de StudyRepository
func NewStudyRepository(db *gorm.DB) *StudyRepository {
	return &StudyRepository{db: db}
}

// Create insere um novo estudo e preenche a identidade gerada
func (r *StudyRepository) Create(study *entities.Study) error {
	if err := r.db.Create(study).Error; err != nil {
		return fmt.Errorf("erro ao criar estudo: %w", err)
	}
	return nil
}

// GetByID busca um estudo do pesquisador dono
func (r *StudyRepository) GetByID(id, researcherID string) (*entities.Study, error) {
	var study entities.Study
	err := r.db.
		Where("id = ? AND researcher_id = ?", id, researcherID).
		First(&study).Error
	if err != nil {
		return nil, err
	}
	return &study, nil
}

// GetPublished busca um estudo ativo sem escopo de dono, para a superfície
// pública de resposta
func (r *StudyRepository) GetPublished(id string) (*entities.Study, error) {
	var study entities.Study
	err := r.db.
		Where("id = ? AND status = ?", id, entities.StudyStatusActive).
		First(&study).Error
	if err != nil {
		return nil, err
	}
	return &study, nil
}

// Update grava o payload completo do estudo, escopado pelo dono
func (r *StudyRepository) Update(study *entities.Study) error {
	res := r.db.Model(&entities.Study{}).
		Where("id = ? AND researcher_id = ?", study.ID, study.ResearcherID).
		Select(studyColumns).
		Updates(study)
	if res.Error != nil {
		return fmt.Errorf("erro ao atualizar estudo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Upsert insere se a identidade ainda não existe, senão atualiza. A primeira
// inserção bem-sucedida devolve a identidade adotada pelo chamador.
func (r *StudyRepository) Upsert(study *entities.Study) error {
	if study.ID == "" {
		return r.Create(study)
	}
	return r.Update(study)
}

// ListByResearcher retorna os estudos do pesquisador ordenados por criação,
// com paginação
func (r *StudyRepository) ListByResearcher(researcherID string, page, limit int) ([]entities.Study, int64, error) {
	var studies []entities.Study
	var total int64

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := r.db.Model(&entities.Study{}).Where("researcher_id = ?", researcherID)
	query.Count(&total)

	err := query.
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&studies).Error
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao buscar estudos: %w", err)
	}

	return studies, total, nil
}
