package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"vibepm/internal/ai"
	"vibepm/internal/auth"
	"vibepm/internal/config"
	"vibepm/internal/database"
	"vibepm/internal/handler"
	"vibepm/internal/middleware"
	"vibepm/internal/repository"
	"vibepm/internal/settings"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("❌ invalid configuration: %w", err)
	}

	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg.MigrationURL()); err != nil {
			return nil, fmt.Errorf("❌ failed to migrate: %w", err)
		}
	}

	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("❌ %w", err)
	}

	gin.SetMode(cfg.GinMode)
	return &Server{
		Engine: NewRouter(cfg, db),
		DB:     db,
		Config: cfg,
	}, nil
}

// providerFactory builds chat providers against the configured base URLs.
func providerFactory(cfg *config.Config) handler.ProviderFactory {
	client := &http.Client{}
	return func(c *settings.AIConfig) (ai.ChatProvider, error) {
		baseURL := cfg.OpenAIBaseURL
		switch c.Provider {
		case settings.ProviderAnthropic:
			baseURL = cfg.AnthropicBaseURL
		case settings.ProviderGoogle:
			baseURL = cfg.GeminiBaseURL
		}
		return ai.New(c, ai.WithBaseURL(baseURL), ai.WithHTTPClient(client))
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{handler.FallbackHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// NewRouter wires repositories, handlers and routes on a fresh engine.
func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Initialize repositories
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	stepRepo := repository.NewStepRepository(db)
	promptRepo := repository.NewPromptRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	captureRepo := repository.NewQuickCaptureRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	contextRepo := repository.NewContextRepository(db)
	dataRepo := repository.NewDataRepository(db)

	resolver := settings.NewResolver(settingRepo)
	assistant := handler.NewAssistant(resolver, providerFactory(cfg), cfg.AITimeout)

	// Initialize handlers
	projectHandler := handler.NewProjectHandler(projectRepo, taskRepo, promptRepo, activityRepo, contextRepo)
	taskHandler := handler.NewTaskHandler(taskRepo)
	stepHandler := handler.NewStepHandler(stepRepo)
	promptHandler := handler.NewPromptHandler(promptRepo)
	captureHandler := handler.NewCaptureHandler(captureRepo)
	activityHandler := handler.NewActivityHandler(activityRepo)
	settingsHandler := handler.NewSettingsHandler(settingRepo)
	dataHandler := handler.NewDataHandler(dataRepo, resolver)
	aiHandler := handler.NewAIHandler(assistant, projectRepo, taskRepo, promptRepo)

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	if cfg.AuthEnabled() {
		api.Use(middleware.JWTAuthMiddleware(auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry)))
		log.Println("🔒 API authentication enabled")
	} else {
		log.Println("🔓 API authentication disabled (JWT_SECRET not set)")
	}
	{
		// Project routes
		api.GET("/projects", projectHandler.List)
		api.POST("/projects", projectHandler.Create)
		api.POST("/projects/generate-name", aiHandler.GenerateName)
		api.GET("/projects/:slug", projectHandler.Get)
		api.PATCH("/projects/:slug", projectHandler.Update)
		api.DELETE("/projects/:slug", projectHandler.Delete)
		api.POST("/projects/:slug/restore", projectHandler.Restore)
		api.GET("/projects/:slug/activity", projectHandler.Activity)
		api.POST("/projects/:slug/context", projectHandler.RegenerateContext)
		api.GET("/projects/:slug/insights", projectHandler.Insights)
		api.GET("/projects/:slug/board", projectHandler.Board)

		// Task and step routes
		api.POST("/tasks", taskHandler.Create)
		api.GET("/tasks/:id", taskHandler.GetByID)
		api.PATCH("/tasks/:id", taskHandler.Update)
		api.DELETE("/tasks/:id", taskHandler.Delete)
		api.POST("/steps", stepHandler.Create)
		api.GET("/steps/:id", stepHandler.GetByID)
		api.PATCH("/steps/:id", stepHandler.Update)
		api.DELETE("/steps/:id", stepHandler.Delete)

		// Prompt routes
		api.POST("/prompts", promptHandler.Create)
		api.POST("/prompts/generate", aiHandler.GeneratePrompt)
		api.GET("/prompts/:id", promptHandler.GetByID)
		api.PATCH("/prompts/:id", promptHandler.Update)
		api.DELETE("/prompts/:id", promptHandler.Delete)

		// Quick capture routes
		api.GET("/quick-capture", captureHandler.List)
		api.POST("/quick-capture", captureHandler.Create)
		api.GET("/quick-capture/:id", captureHandler.GetByID)
		api.PATCH("/quick-capture/:id", captureHandler.Update)
		api.DELETE("/quick-capture/:id", captureHandler.Delete)
		api.POST("/quick-capture/:id/restore", captureHandler.Restore)

		// AI routes
		api.POST("/analyze", aiHandler.Analyze)
		api.POST("/promote-to-project/generate", aiHandler.PromoteGenerate)

		api.POST("/activity", activityHandler.Create)
		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Put)

		// Data management
		api.GET("/export", dataHandler.Export)
		api.DELETE("/clear-data", dataHandler.ClearAll)
		api.POST("/purge", dataHandler.Purge)
	}
	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}
	database.Close(s.DB)

	log.Println("✅ Server exited properly")
}
