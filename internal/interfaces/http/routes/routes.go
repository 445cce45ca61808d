package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/researchlink/researchlink-api/internal/application/usecases"
	"github.com/researchlink/researchlink-api/internal/domain/repositories"
	"github.com/researchlink/researchlink-api/internal/infrastructure/ai"
	"github.com/researchlink/researchlink-api/internal/infrastructure/session"
	"github.com/researchlink/researchlink-api/internal/infrastructure/storage"
	"github.com/researchlink/researchlink-api/internal/infrastructure/supabase"
	"github.com/researchlink/researchlink-api/internal/interfaces/http/handlers"
	"github.com/researchlink/researchlink-api/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes monta a cadeia repositórios → casos de uso → handlers e liga
// cada rota da API
func SetupRoutes(app *fiber.App, db *gorm.DB, sb *supabase.Client) {
	// Repositórios
	userRepo := repositories.NewUserRepository(db)
	studyRepo := repositories.NewStudyRepository(db)
	formRepo := repositories.NewFormRepository(db)
	responseRepo := repositories.NewResponseRepository(db)
	uploadRepo := repositories.NewUploadRepository(db)

	// Infraestrutura
	sessions := session.New()
	generator := ai.NewGenerator(sb.Functions)
	blobs := storage.New(sb.Storage)

	// Casos de uso
	wizardUseCase := usecases.NewWizardUseCase(studyRepo, sessions, generator)
	formUseCase := usecases.NewFormUseCase(formRepo, generator)
	responseUseCase := usecases.NewResponseUseCase(responseRepo)
	exportUseCase := usecases.NewExportUseCase(responseRepo)
	uploadUseCase := usecases.NewUploadUseCase(uploadRepo, blobs)

	// Handlers
	authHandler := handlers.NewAuthHandler(sb.Auth, userRepo)
	studyHandler := handlers.NewStudyHandler(studyRepo)
	wizardHandler := handlers.NewWizardHandler(wizardUseCase)
	formHandler := handlers.NewFormHandler(formUseCase)
	publicHandler := handlers.NewPublicHandler(studyRepo, formUseCase, responseUseCase)
	responseHandler := handlers.NewResponseHandler(studyRepo, responseUseCase, exportUseCase)
	uploadHandler := handlers.NewUploadHandler(studyRepo, uploadUseCase)

	authMiddleware := middleware.NewAuthMiddleware(userRepo)
	groups := middleware.SetupRouteGroups(app, authMiddleware)

	// Superfície pública
	groups.Public.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	groups.Public.Post("/auth/signup", authHandler.SignUp)
	groups.Public.Post("/auth/signin", authHandler.SignIn)
	groups.Public.Get("/auth/oauth/:provider", authHandler.OAuthURL)
	groups.Public.Post("/auth/signout", authHandler.SignOut)
	groups.Public.Get("/meta/categories", studyHandler.GetCategories)
	groups.Public.Get("/public/studies/:id", publicHandler.GetStudy)
	groups.Public.Get("/public/forms/:id", publicHandler.GetForm)
	groups.Public.Get("/public/forms/:id/schema", formHandler.GetSchema)
	groups.Public.Post("/public/studies/:id/responses", publicHandler.SubmitResponse)

	// Estudos do pesquisador
	groups.Studies.Get("/", studyHandler.GetStudies)
	groups.Studies.Post("/", wizardHandler.CreateStudy)
	groups.Studies.Get("/:id", studyHandler.GetStudy)

	// Wizard de criação
	groups.Studies.Get("/:id/wizard", wizardHandler.GetSession)
	groups.Studies.Post("/:id/wizard/type", wizardHandler.ChooseType)
	groups.Studies.Patch("/:id/wizard", wizardHandler.UpdateFields)
	groups.Studies.Post("/:id/wizard/next", wizardHandler.Next)
	groups.Studies.Post("/:id/wizard/previous", wizardHandler.Previous)
	groups.Studies.Post("/:id/wizard/save", wizardHandler.SaveDraft)
	groups.Studies.Post("/:id/wizard/publish", wizardHandler.Publish)
	groups.Studies.Post("/:id/wizard/questions", wizardHandler.AddQuestion)
	groups.Studies.Post("/:id/wizard/questions/generate", wizardHandler.GenerateQuestions)
	groups.Studies.Patch("/:id/wizard/questions/:questionId", wizardHandler.UpdateQuestion)
	groups.Studies.Delete("/:id/wizard/questions/:questionId", wizardHandler.DeleteQuestion)
	groups.Studies.Post("/:id/wizard/questions/:questionId/duplicate", wizardHandler.DuplicateQuestion)
	groups.Studies.Post("/:id/wizard/requirements", wizardHandler.AddRequirement)
	groups.Studies.Delete("/:id/wizard/requirements/:index", wizardHandler.RemoveRequirement)

	// Respostas e uploads, escopados pelo estudo
	groups.Studies.Get("/:id/responses", responseHandler.ListByStudy)
	groups.Studies.Get("/:id/responses/export", responseHandler.ExportCSV)
	groups.Studies.Post("/:id/uploads", uploadHandler.Upload)
	groups.Studies.Get("/:id/uploads", uploadHandler.ListByStudy)
	groups.Studies.Get("/:id/forms", formHandler.ListByStudy)
	groups.Studies.Post("/:id/forms", formHandler.CreateForm)

	// Formulários
	groups.Forms.Post("/", formHandler.CreateForm)
	groups.Forms.Get("/:id", formHandler.GetForm)
	groups.Forms.Get("/:id/schema", formHandler.GetSchema)
	groups.Forms.Put("/:id", formHandler.SaveForm)
	groups.Forms.Post("/generate", formHandler.GenerateQuestions)
	groups.Forms.Post("/questions/move", formHandler.MoveQuestion)
	groups.Forms.Post("/questions", formHandler.AddQuestion)
	groups.Forms.Patch("/questions/:questionId", formHandler.UpdateQuestion)
	groups.Forms.Delete("/questions/:questionId", formHandler.DeleteQuestion)

	// Downloads e remoção de uploads fora do escopo do estudo
	groups.Uploads.Get("/:uploadId/download", uploadHandler.Download)
	groups.Uploads.Delete("/:uploadId", uploadHandler.Delete)
}
