package repositories

import (
	"errors"
	"fmt"

	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"gorm.io/gorm"
)

// UserRepository implementa o acesso a perfis de usuário da aplicação
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria uma nova instância de UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByAuthID busca o perfil ligado à identidade do provedor de autenticação
func (r *UserRepository) GetByAuthID(authID string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("auth_id = ?", authID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreate garante que exista uma linha de perfil para a identidade
// autenticada, criando-a no primeiro acesso
func (r *UserRepository) GetOrCreate(authID, email, name string, role entities.UserRole) (*entities.User, error) {
	user, err := r.GetByAuthID(authID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("erro ao buscar perfil: %w", err)
	}

	created := &entities.User{
		AuthID: authID,
		Email:  email,
		Name:   name,
		Role:   role,
	}
	if err := r.db.Create(created).Error; err != nil {
		return nil, fmt.Errorf("erro ao criar perfil: %w", err)
	}
	return created, nil
}
