package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"github.com/researchlink/researchlink-api/internal/domain/repositories"
)

// Chaves dos locals preenchidos pelo gate de autenticação
const (
	LocalAuthID = "auth_id"
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

// NewAuthMiddleware verifica o token de acesso emitido pelo provedor de
// autenticação e resolve a linha de perfil do usuário. "Existe um usuário
// atual" é pré-condição de todo o fluxo do pesquisador.
func NewAuthMiddleware(users *repositories.UserRepository) fiber.Handler {
	secret := []byte(os.Getenv("SUPABASE_JWT_SECRET"))

	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}

		token, err := jwt.Parse(
			strings.TrimPrefix(header, "Bearer "),
			func(t *jwt.Token) (interface{}, error) { return secret, nil },
			jwt.WithValidMethods([]string{"HS256"}),
		)
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		authID, _ := claims["sub"].(string)
		if authID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		email, _ := claims["email"].(string)
		name := ""
		if metadata, ok := claims["user_metadata"].(map[string]interface{}); ok {
			name, _ = metadata["name"].(string)
		}

		user, err := users.GetOrCreate(authID, email, name, entities.RoleResearcher)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao resolver perfil: " + err.Error()})
		}

		c.Locals(LocalAuthID, authID)
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalEmail, email)
		return c.Next()
	}
}

// UserID lê a identidade da aplicação resolvida pelo gate
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
