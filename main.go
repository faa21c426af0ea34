package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/calculadora-judicial/correction-service/config"
	"github.com/calculadora-judicial/correction-service/handler"
	"github.com/calculadora-judicial/correction-service/logger"
	"github.com/calculadora-judicial/correction-service/middleware"
	"github.com/calculadora-judicial/correction-service/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize service layer
	calculationService := service.NewCalculationService(pdfProcessor)

	// Initialize handler layer
	calculationHandler := handler.NewCalculationHandler(calculationService, cfg)

	gin.SetMode(gin.ReleaseMode)
	router := setupRouter(cfg, log, calculationHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      corsHandler(cfg).Handler(router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Starting correction calculator service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server stopped")
}

func setupRouter(cfg *config.Config, log zerolog.Logger, calculationHandler *handler.CalculationHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(log), middleware.AccessLog())
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
	}

	router.MaxMultipartMemory = cfg.MaxUploadSize

	// Health check endpoint
	router.GET("/health", calculationHandler.Health)
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// API routes
	api := router.Group("/api/v1")
	if cfg.RateLimitPerSecond > 0 && cfg.RateLimitBurst > 0 {
		api.Use(middleware.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)))
	}
	{
		api.POST("/calculations", calculationHandler.Calculate)
	}

	return router
}

func corsHandler(cfg *config.Config) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:         7200,
	})
}
