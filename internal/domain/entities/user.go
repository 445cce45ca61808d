package entities

import "time"

type UserRole string

const (
	RoleResearcher  UserRole = "researcher"
	RoleParticipant UserRole = "participant"
)

// User é a linha de perfil da aplicação, ligada à identidade do provedor de
// autenticação por AuthID
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id;type:uuid;default:gen_random_uuid()"`
	AuthID    string    `json:"auth_id" gorm:"column:auth_id;type:uuid;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"column:email;not null"`
	Name      string    `json:"name" gorm:"column:name"`
	Role      UserRole  `json:"role" gorm:"column:role;not null;default:researcher"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}
