// Package startup prepares the application server
package startup

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/container"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/security"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/presentation/http/server"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete gateway startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[36m" + `

  ███╗   ██╗███████╗██╗   ██╗██████╗  ██████╗ ██╗  ██╗██╗   ██╗██████╗
  ████╗  ██║██╔════╝██║   ██║██╔══██╗██╔═══██╗██║  ██║██║   ██║██╔══██╗
  ██╔██╗ ██║█████╗  ██║   ██║██████╔╝██║   ██║███████║██║   ██║██████╔╝
  ██║╚██╗██║██╔══╝  ██║   ██║██╔══██╗██║   ██║██╔══██║██║   ██║██╔══██╗
  ██║ ╚████║███████╗╚██████╔╝██║  ██║╚██████╔╝██║  ██║╚██████╔╝██████╔╝
  ╚═╝  ╚═══╝╚══════╝ ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚═════╝
` + "\033[97m" + `
  dashboard gateway
` + "\033[0m")

	// Step 1: Validate security configuration
	log.Println("Initializing...")
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return err
		}
		config.JWTSecret = secret
		log.Println("WARN: JWT_SECRET not set - generated an ephemeral secret, ops tokens will not survive restarts")
	}
	// Step 2: Create dependency injection container
	log.Println("Initializing dependency injection container...")
	appContainer, err := container.NewContainer()
	if err != nil {
		return err
	}

	logger := appContainer.Logger
	logger.Startup().Info("Container initialization complete - switching to channeled logging")
	logger.LogStartupPhase("container", time.Since(start), true, map[string]any{
		"snapshotStore": appContainer.Snapshots != nil,
		"alertMailer":   appContainer.AlertMailer != nil,
	})

	// Step 3: Warm the query cache from persisted snapshots
	logger.Startup().Info("Initializing cache warming...")
	startWarmTime := time.Now()
	warmErr := appContainer.WarmingService.WarmFromSnapshots(ctx)
	if warmErr != nil {
		logger.Startup().Error("Cache warming failed", "error", warmErr.Error(), "duration", time.Since(startWarmTime))
	} else {
		logger.Startup().Info("Cache warming completed successfully", "duration", time.Since(startWarmTime))
	}
	logger.LogStartupPhase("warming", time.Since(startWarmTime), warmErr == nil, nil)

	// Step 4: Start background workers
	logger.Startup().Info("Starting background cleanup worker...")
	go appContainer.CleanupWorker.Start(ctx)

	logger.Startup().Info("Starting websocket toast bridge...")
	go appContainer.WSBridge.Run(ctx)

	// Step 5: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	startServerTime := time.Now()

	httpServer := server.New(config.Port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", config.Port, "duration", time.Since(startServerTime))

	// Step 6: Setup graceful shutdown
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	totalStartupTime := time.Since(start)
	logger.Startup().Info("Gateway startup complete",
		"totalDuration", totalStartupTime,
		"upstream", config.UpstreamBaseURL,
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	// Cancel background tasks
	cancelBackgroundTasks()

	// Stop server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Closing container resources...")
	if err := appContainer.Close(); err != nil {
		logger.Shutdown().Error("Error closing container", "error", err.Error())
	}

	elapsed := time.Since(start)
	logger.Shutdown().Info("Gateway shutdown complete",
		"totalUptime", elapsed,
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
