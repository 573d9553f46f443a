package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RicardoInfonetGyn/bastos/internal/accesskey"
	"github.com/RicardoInfonetGyn/bastos/internal/api"
	"github.com/RicardoInfonetGyn/bastos/internal/audit"
	"github.com/RicardoInfonetGyn/bastos/internal/auth"
	"github.com/RicardoInfonetGyn/bastos/internal/client"
	"github.com/RicardoInfonetGyn/bastos/internal/company"
	"github.com/RicardoInfonetGyn/bastos/internal/config"
	"github.com/RicardoInfonetGyn/bastos/internal/database"
	"github.com/RicardoInfonetGyn/bastos/internal/i18n"
	"github.com/RicardoInfonetGyn/bastos/internal/obs"
	"github.com/RicardoInfonetGyn/bastos/internal/user"
)

// specialistGroupID is the group whose members carry a linked
// practitioner record.
const specialistGroupID = 2

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)
	obs.Init()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	activity, err := audit.NewLogger(cfg.AuditLogDir)
	if err != nil {
		slog.Error("failed to initialize audit logger", "error", err)
		os.Exit(1)
	}
	defer activity.Close()

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		slog.Error("failed to initialize token issuer", "error", err)
		os.Exit(1)
	}

	authRepo := auth.NewRepository(db.Pool())
	companyRepo := company.NewRepository(db.Pool())
	keyRepo := accesskey.NewRepository(db.Pool())
	userRepo := user.NewRepository(db.Pool())
	clientRepo := client.NewRepository(db.Pool())
	i18nService := i18n.NewService(i18n.NewRepository(db.Pool()))

	authService := auth.NewService(authRepo, companyRepo, keyRepo, issuer, activity)
	authService.RegisterExtension(auth.NewPractitionerExtension(authRepo, specialistGroupID))
	authService.RegisterExtension(auth.NewStudentExtension(authRepo))

	router := api.NewRouter(api.RouterDeps{
		AuthService:    authService,
		UserRepo:       userRepo,
		CompanyRepo:    companyRepo,
		ClientRepo:     clientRepo,
		I18nService:    i18nService,
		DBPinger:       db,
		Version:        cfg.Version,
		AllowedOrigins: cfg.AllowedOrigins,
		LoginBurst:     cfg.LoginRateBurst,
		LoginPerMin:    cfg.LoginRatePerMin,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting admin panel server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
