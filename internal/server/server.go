package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/handlers"
	"alfredoptarigan/resume-matcher/internal/services"
	"alfredoptarigan/resume-matcher/internal/views"
)

const appName = "Resume Matcher"

// multipart framing and text fields on top of the files themselves
const formOverhead = 1 << 20

type Services struct {
	Matcher services.MatcherService
	Pool    services.PoolService
	Report  services.ReportService
}

// New builds the HTTP application: JSON API under /api/v1 and the HTML form at /.
func New(cfg *config.Config, svc Services) *fiber.App {
	limits := handlers.Limits{
		MaxFileSize: cfg.Storage.MaxFileSize,
		MaxFiles:    cfg.Storage.MaxFiles,
	}
	defaults := handlers.MatchDefaults{
		TopK:              cfg.Match.TopK,
		OnExtractionError: cfg.Match.OnExtractionError,
	}

	matchHandler := handlers.NewMatchHandler(svc.Matcher, svc.Pool, svc.Report, limits, defaults)
	resumeHandler := handlers.NewResumeHandler(svc.Pool, limits)
	pageHandler := handlers.NewPageHandler(svc.Matcher, svc.Pool, svc.Report, limits, defaults)

	app := fiber.New(fiber.Config{
		AppName:               appName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             int(cfg.Storage.MaxFileSize)*cfg.Storage.MaxFiles + formOverhead,
		ErrorHandler:          handlers.ErrorHandler,
		Views:                 views.NewEngine(),
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/match", matchHandler.HandleMatch)
	api.Post("/match/report", matchHandler.HandleReport)
	api.Post("/resumes", resumeHandler.HandleUpload)
	api.Get("/resumes", resumeHandler.HandleList)
	api.Get("/resumes/:id/file", resumeHandler.HandleDownload)
	api.Delete("/resumes/:id", resumeHandler.HandleDelete)

	app.Get("/", pageHandler.HandleIndex)
	app.Post("/matcher", pageHandler.HandleMatch)

	return app
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func Run(ctx context.Context, app *fiber.App, port string, log *zap.Logger) error {
	errCh := make(chan error, 1)
	addr := fmt.Sprintf(":%s", port)

	go func() {
		log.Info("server starting", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	}
}
