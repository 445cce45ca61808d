package migrations

import (
	"fmt"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"gorm.io/gorm"
)

// Migrate cria/atualiza o esquema das tabelas da aplicação
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.User{},
		&entities.Study{},
		&entities.Form{},
		&entities.FormResponse{},
		&entities.StudyDataUpload{},
	)
	if err != nil {
		return fmt.Errorf("erro ao migrar esquema: %w", err)
	}
	return nil
}
