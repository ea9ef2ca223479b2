package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Ihebbac/ma3sra-backend-go/internal/config"
	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
	appHTTP "github.com/Ihebbac/ma3sra-backend-go/internal/handler/http"
	"github.com/Ihebbac/ma3sra-backend-go/internal/pkg/database"
	"github.com/Ihebbac/ma3sra-backend-go/internal/repository/httpapi"
	"github.com/Ihebbac/ma3sra-backend-go/internal/repository/postgresql"
	dashboardService "github.com/Ihebbac/ma3sra-backend-go/internal/service/dashboard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	}))

	var source records.Source
	switch cfg.Data.Source {
	case "http":
		source = httpapi.NewSource(cfg.Data.BaseURL, cfg.Data.Timeout)
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			fmt.Println("Error connecting to database:", err)
			return
		}
		source = postgresql.NewSource(db)
	default:
		log.Fatal("Unsupported data source: ", cfg.Data.Source)
	}

	dashboardSvc := dashboardService.NewService(source, logger, cfg.Dashboard.DiscrepancyEpsilon)

	// Warm the snapshot before taking traffic. A failed pull is logged and
	// the server starts anyway; /refresh can recover it later.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := dashboardSvc.Refresh(ctx); err != nil {
		logger.Warn("initial snapshot load failed", "error", err)
	}
	cancel()

	dashboardHandler := appHTTP.NewDashboardHandler(dashboardSvc)

	router := appHTTP.NewRouter(cfg.App.Env, cfg.App.FrontendURL, dashboardHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
