package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupMiddlewares(app *fiber.App) {
	// Nenhuma falha neste núcleo é fatal ao processo
	app.Use(recover.New())
	app.Use(logger.New())

	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}

	// CORS configuration
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))
}

// RouteGroups define os grupos de rotas da API
type RouteGroups struct {
	Public  fiber.Router
	Studies fiber.Router
	Forms   fiber.Router
	Uploads fiber.Router
}

// SetupRouteGroups configura os grupos de rotas com seus respectivos
// middlewares; tudo que é do pesquisador passa pelo gate de autenticação
func SetupRouteGroups(app *fiber.App, authMiddleware fiber.Handler) RouteGroups {
	// Grupo público (sem autenticação): auth, metadados e a superfície de
	// resposta anônima
	public := app.Group("/")

	studies := app.Group("/studies")
	studies.Use(authMiddleware)

	forms := app.Group("/forms")
	forms.Use(authMiddleware)

	uploads := app.Group("/uploads")
	uploads.Use(authMiddleware)

	return RouteGroups{
		Public:  public,
		Studies: studies,
		Forms:   forms,
		Uploads: uploads,
	}
}
