package migrations

import (
	"log"

	"gorm.io/gorm"
)

// AddIndexes cria os índices das consultas quentes: listagem de estudos do
// pesquisador e leitura cronológica de respostas
func AddIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_studies_researcher_created ON studies (researcher_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_studies_status ON studies (status)",
		"CREATE INDEX IF NOT EXISTS idx_form_responses_study_submitted ON form_responses (study_id, submitted_at)",
		"CREATE INDEX IF NOT EXISTS idx_forms_study ON forms (study_id)",
		"CREATE INDEX IF NOT EXISTS idx_uploads_study_created ON study_data_uploads (study_id, created_at DESC)",
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			// índices são otimização; registra e segue
			log.Printf("⚠️ Error creating index: %v", err)
		}
	}
	return nil
}
