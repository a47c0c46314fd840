// ingest carga un libro Excel de rentabilidad sin pasar por la API HTTP.
//
// Uso: go run ./cmd/ingest -file ventas.xlsx [-actor etl] [-kpis]
//
// Usa la misma configuración que cmd/api (STORE_DRIVER, DATABASE_URL, ...). Con
// STORE_DRIVER=memory sirve para validar un archivo: los datos se descartan al salir.
// Imprime la respuesta de la carga en JSON y sale con código 1 si fue rechazada.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/jhoicas/rentabilidad-api/internal/bootstrap"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/pkg/config"
	"github.com/jhoicas/rentabilidad-api/pkg/logger"
)

func main() {
	filePath := flag.String("file", "", "ruta del libro .xlsx")
	actor := flag.String("actor", "cli", "usuario que queda como autor del lote")
	showKPIs := flag.Bool("kpis", false, "imprimir los KPIs después de la carga")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Uso: ingest -file <ruta.xlsx> [-actor nombre] [-kpis]")
		os.Exit(2)
	}
	if err := run(*filePath, *actor, *showKPIs); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(filePath, actor string, showKPIs bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "ingest"})

	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("abrir archivo: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := bootstrap.OpenRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepos()

	svc, err := bootstrap.NewServices(ctx, repos, bootstrap.Options{
		Limits: bootstrap.LimitsFrom(cfg.Upload),
		Report: bootstrap.ReportOptionsFrom(cfg.Report),
		Log:    log,
	})
	if err != nil {
		return err
	}

	summary, err := svc.Ingest.IngestFile(ctx, ingest.IngestRequest{
		FileName: filepath.Base(filePath),
		FileSize: info.Size(),
		FilePath: filePath,
		Caller: entity.Caller{
			ActorID:      actor,
			Capabilities: entity.Capabilities{CanUpload: true},
		},
	})
	if perr := printJSON(ingest.Respond(summary, err)); perr != nil {
		return perr
	}
	if err != nil {
		return fmt.Errorf("carga rechazada")
	}

	if showKPIs {
		kpis, err := svc.Dashboard.GetKPIs(ctx)
		if err != nil {
			return fmt.Errorf("calcular KPIs: %w", err)
		}
		return printJSON(kpis)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
