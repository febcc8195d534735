// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/services"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/email"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/notifications"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/persistence/snapshot"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query/cleanup"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Infrastructure
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
	Cache       *query.Cache
	Snapshots   *snapshot.Store
	Upstream    upstream.Client
	Bus         *notifications.Bus
	WSBridge    *notifications.WSBridge
	AlertMailer *email.AlertMailer

	// Application services (stateless singletons)
	AuthService      *services.AuthService
	DashboardService *services.DashboardService
	LotService       *services.LotService
	ProcessService   *services.ProcessService
	WipService       *services.WipService
	PrintService     *services.PrintService
	WarmingService   *services.WarmingService

	// Background maintenance
	CleanupWorker *cleanup.Worker
}

// NewContainer creates and wires all singleton services
func NewContainer() (*Container, error) {
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create channeled logger: %w", err)
	}

	perfTracker := performance.NewTracker(nil)

	// Snapshot persistence is best-effort: a bad DB config degrades to a
	// cache-only gateway instead of refusing to boot.
	snapshots, err := snapshot.NewStore(logger)
	if err != nil {
		logger.System().Warn("Snapshot store unavailable, running cache-only", "error", err.Error())
		snapshots = nil
	}

	cacheOpts := []query.Option{}
	if snapshots != nil {
		cacheOpts = append(cacheOpts, query.WithPersister(snapshots))
	}
	cache := query.NewCache(logger, cacheOpts...)

	mesClient := upstream.NewHTTPClient(logger)
	bus := notifications.NewBus(logger)
	bridge := notifications.NewWSBridge(bus, logger)

	var mailer *email.AlertMailer
	if config.AlertEmailEnabled {
		emailService, err := email.NewService()
		if err != nil {
			logger.System().Warn("Alert email disabled", "error", err.Error())
		} else {
			mailer = email.NewAlertMailer(bus, emailService, logger)
		}
	}

	lotService := services.NewLotService(cache, mesClient, logger)
	processService := services.NewProcessService(cache, mesClient, logger)

	var warmingStore services.SnapshotLoader
	var pruner cleanup.SnapshotPruner
	if snapshots != nil {
		warmingStore = snapshots
		pruner = snapshots
	}

	return &Container{
		Logger:      logger,
		PerfTracker: perfTracker,
		Cache:       cache,
		Snapshots:   snapshots,
		Upstream:    mesClient,
		Bus:         bus,
		WSBridge:    bridge,
		AlertMailer: mailer,

		AuthService:      services.NewAuthService(logger),
		DashboardService: services.NewDashboardService(cache, mesClient, lotService, processService, logger, perfTracker),
		LotService:       lotService,
		ProcessService:   processService,
		WipService:       services.NewWipService(cache, mesClient, logger),
		PrintService:     services.NewPrintService(mesClient, bus, logger, perfTracker),
		WarmingService:   services.NewWarmingService(cache, warmingStore, cleanup.NewReporter(cache), logger),

		CleanupWorker: cleanup.NewWorker(cache, pruner, perfTracker, logger, cleanup.NewConfig()),
	}, nil
}

// Close releases container-held resources in reverse dependency order.
func (c *Container) Close() error {
	if c.AlertMailer != nil {
		c.AlertMailer.Close()
	}
	if c.Snapshots != nil {
		if err := c.Snapshots.Close(); err != nil {
			return fmt.Errorf("failed to close snapshot store: %w", err)
		}
	}
	return nil
}
