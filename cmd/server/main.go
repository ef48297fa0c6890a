package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	echoapi "github.com/ruhmesmeile/hydra-crowdprovider/api/echo"
	"github.com/ruhmesmeile/hydra-crowdprovider/config"
	"github.com/ruhmesmeile/hydra-crowdprovider/crowd"
	"github.com/ruhmesmeile/hydra-crowdprovider/hydra"
	"github.com/ruhmesmeile/hydra-crowdprovider/log"
	"github.com/ruhmesmeile/hydra-crowdprovider/provider"
	"github.com/ruhmesmeile/hydra-crowdprovider/tracing"
)

var (
	appLogger      log.Logger
	httpServer     *http.Server
	tracerProvider *sdktrace.TracerProvider
)

func main() {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fallbackLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallbackLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logLevel, parseErr := zerolog.ParseLevel(cfg.LogLevel)
	if parseErr != nil {
		logLevel = zerolog.InfoLevel
	}
	appLogger = log.NewZerologAdapter(logLevel, cfg.LogPretty)

	ctx := context.Background()
	appLogger.Info(ctx, "Starting hydra-crowdprovider", map[string]interface{}{
		"http_port":       cfg.HTTPPort,
		"hydra_admin_url": cfg.HydraAdminURL,
		"crowd_base_url":  cfg.CrowdBaseURL,
		"cookie_name":     cfg.CookieName,
		"cookie_domain":   cfg.CookieDomain,
	})

	tp, err := tracing.InitTracerProvider(cfg.OtelServiceName)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize TracerProvider", err)
	}
	tracerProvider = tp

	// External collaborators.
	hydraClient, err := hydra.NewClient(hydra.Config{AdminURL: cfg.HydraAdminURL})
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize Hydra client", err)
	}

	crowdClient, err := crowd.NewClient(crowd.Config{
		BaseURL:     cfg.CrowdBaseURL,
		Application: cfg.CrowdApplication,
		Password:    cfg.CrowdPassword,
	})
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize Crowd client", err)
	}

	// Bridge core.
	sessions := provider.NewSessionCorrelator(crowdClient)
	loginResolver := provider.NewLoginResolver(hydraClient, crowdClient, sessions)
	consentResolver := provider.NewConsentResolver(hydraClient, sessions)
	translator := provider.NewTranslator(hydraClient, provider.Policy{
		RememberForSec: cfg.RememberForSec,
		Locale:         cfg.IDTokenLocale,
		Zoneinfo:       cfg.IDTokenZone,
	})

	api := echoapi.NewProviderAPI(loginResolver, consentResolver, translator, echoapi.CookieConfig{
		Name:   cfg.CookieName,
		Domain: cfg.CookieDomain,
		Secure: cfg.CookieSecure,
		MaxAge: cfg.CookieMaxAge,
	})

	renderer, err := echoapi.NewTemplateRenderer()
	if err != nil {
		appLogger.Fatal(ctx, "Failed to parse templates", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = api.HTTPErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup: "form:_csrf",
		CookiePath:  "/",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
	}))
	api.RegisterRoutes(e)

	httpServer = &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info(ctx, "HTTP server listening", map[string]interface{}{"addr": httpServer.Addr})
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			appLogger.Fatal(ctx, "HTTP server failed", serveErr)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info(ctx, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "HTTP server shutdown failed", err)
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "TracerProvider shutdown failed", err)
	}
	appLogger.Info(ctx, "Shutdown complete")
}
