package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/rentabilidad-api/internal/bootstrap"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/metrics"
	httpRouter "github.com/jhoicas/rentabilidad-api/internal/interfaces/http"
	"github.com/jhoicas/rentabilidad-api/pkg/config"
	"github.com/jhoicas/rentabilidad-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, closeRepos, err := bootstrap.OpenRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer closeRepos()

	llm := bootstrap.NewLLM(cfg.AI)
	if llm == nil {
		log.Info().Msg("sin proveedor de IA: las narrativas usan el análisis por reglas")
	}

	svc, err := bootstrap.NewServices(ctx, repos, bootstrap.Options{
		Limits:  bootstrap.LimitsFrom(cfg.Upload),
		Report:  bootstrap.ReportOptionsFrom(cfg.Report),
		Metrics: metrics.NewIngestRecorder(prometheus.DefaultRegisterer),
		LLM:     llm,
		Log:     log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar casos de uso")
	}

	// La carga procesa el libro dentro de la petición: timeouts largos y cuerpo
	// algo mayor que el archivo para el overhead multipart.
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Upload.MaxFileBytes()) + 1<<20,
		ReadTimeout:  time.Minute * 2,
		WriteTimeout: time.Minute * 5,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ingest:      svc.Ingest,
		Batches:     svc.Batches,
		Dashboard:   svc.Dashboard,
		Narrative:   svc.Narrative,
		Report:      svc.Report,
		JWTSecret:   cfg.JWT.Secret,
		UploadDir:   cfg.Upload.Dir,
		ServiceName: cfg.App.Name,
		HTTPMetrics: metrics.NewHTTPRecorder(prometheus.DefaultRegisterer),
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
