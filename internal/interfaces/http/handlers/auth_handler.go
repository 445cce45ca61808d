package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/researchlink/researchlink-api/internal/domain/entities"
	"github.com/researchlink/researchlink-api/internal/domain/repositories"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// AuthHandler faz a ponte com o provedor de autenticação externo
type AuthHandler struct {
	auth  gotrue.Client
	users *repositories.UserRepository
}

// NewAuthHandler cria uma nova instância de AuthHandler
func NewAuthHandler(auth gotrue.Client, users *repositories.UserRepository) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registra um usuário no provedor e garante a linha de perfil
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email e senha são obrigatórios"})
	}

	signup, err := h.auth.Signup(types.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Data:     map[string]interface{}{"name": req.Name},
	})
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Erro ao registrar: " + err.Error()})
	}

	if _, err := h.users.GetOrCreate(signup.ID.String(), req.Email, req.Name, entities.RoleResearcher); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao criar perfil: " + err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"user": fiber.Map{
			"id":    signup.ID.String(),
			"email": req.Email,
			"name":  req.Name,
		},
	})
}

// SignIn autentica email/senha e devolve a sessão emitida pelo provedor
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Corpo de requisição inválido"})
	}

	session, err := h.auth.SignInWithEmailPassword(req.Email, req.Password)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Credenciais inválidas"})
	}

	name := ""
	if session.User.UserMetadata != nil {
		name, _ = session.User.UserMetadata["name"].(string)
	}
	if _, err := h.users.GetOrCreate(session.User.ID.String(), session.User.Email, name, entities.RoleResearcher); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao resolver perfil: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
		"user": fiber.Map{
			"id":    session.User.ID.String(),
			"email": session.User.Email,
			"name":  name,
		},
	})
}

// OAuthURL devolve a URL de autorização do provedor OAuth pedido; o
// redirecionamento em si acontece no cliente
func (h *AuthHandler) OAuthURL(c *fiber.Ctx) error {
	provider := c.Params("provider")
	if provider == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Provedor OAuth não informado"})
	}

	authorization, err := h.auth.Authorize(types.AuthorizeRequest{
		Provider: types.Provider(provider),
	})
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Erro ao iniciar OAuth: " + err.Error()})
	}

	return c.JSON(fiber.Map{"url": authorization.AuthorizationURL})
}

// SignOut revoga a sessão atual junto ao provedor
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
	}

	if err := h.auth.WithToken(strings.TrimPrefix(header, "Bearer ")).Logout(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Erro ao encerrar sessão: " + err.Error()})
	}
	return c.SendStatus(204)
}
