package cli

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/blockflow-go/internal/adapters/facts"
	"github.com/andrescamacho/blockflow-go/internal/adapters/metrics"
	"github.com/andrescamacho/blockflow-go/internal/adapters/persistence"
	"github.com/andrescamacho/blockflow-go/internal/application/analysis/commands"
	"github.com/andrescamacho/blockflow-go/internal/application/analysis/queries"
	"github.com/andrescamacho/blockflow-go/internal/application/analysis/services"
	"github.com/andrescamacho/blockflow-go/internal/application/logging"
	"github.com/andrescamacho/blockflow-go/internal/application/mediator"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
	"github.com/andrescamacho/blockflow-go/internal/infrastructure/config"
	"github.com/andrescamacho/blockflow-go/internal/infrastructure/database"
)

// appNeeds selects which parts of the application a command wires
type appNeeds struct {
	facts   bool
	history bool
}

// app holds the wired application for one CLI invocation
type app struct {
	cfg    *config.Config
	logger *logging.SlogLogger
	med    mediator.Mediator

	requestMetrics *metrics.RequestMetricsCollector
	metricsServer  *metrics.Server

	catalog   *facts.CatalogFacts
	source    *facts.FileBlockSource
	telemetry *facts.FileTelemetry
	builder   *production.ActionBuilder
	analyzer  *services.BlockAnalyzer
	cache     *services.SolutionCache

	db        *gorm.DB
	solutions *persistence.GormSolutionRepository
}

// newApp loads configuration, applies flag overrides and wires handlers
func newApp(needs appNeeds) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cfg)

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.NewSlogLogger(logging.Options{
		Level:    level,
		Format:   cfg.Logging.Format,
		Output:   cfg.Logging.Output,
		FilePath: cfg.Logging.FilePath,
		Service:  cfg.Logging.Service,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	if cfg.Metrics.Enabled {
		collectors, err := metrics.Setup()
		if err != nil {
			a.Close()
			return nil, err
		}
		a.requestMetrics = collectors.Requests
		srv, err := metrics.NewServer(cfg.Metrics.Addr(), cfg.Metrics.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		srv.Start()
		a.metricsServer = srv
		logger.Log("INFO", "Metrics server started", map[string]interface{}{
			"addr": srv.Addr(),
			"path": cfg.Metrics.Path,
		})
	}

	if needs.history {
		if err := a.openHistory(); err != nil {
			a.Close()
			return nil, err
		}
	}
	if needs.facts {
		if err := a.loadFacts(); err != nil {
			a.Close()
			return nil, err
		}
	}
	if err := a.wire(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func applyFlagOverrides(cfg *config.Config) {
	if catalogPath != "" {
		cfg.Facts.Catalog = catalogPath
	}
	if blocksPath != "" {
		cfg.Facts.Blocks = blocksPath
	}
	if telemetryPath != "" {
		cfg.Facts.Telemetry = telemetryPath
	}
}

// context returns ctx carrying the application logger
func (a *app) context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, a.logger)
}

func (a *app) openHistory() error {
	db, err := database.NewConnection(&a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return fmt.Errorf("failed to migrate history database: %w", err)
	}
	a.db = db
	a.solutions = persistence.NewGormSolutionRepository(db)
	return nil
}

// loadFacts reads the catalog and builds a fresh analyzer. The solution
// cache survives reloads since fingerprints cover every solver input.
func (a *app) loadFacts() error {
	catalog, err := facts.LoadCatalog(a.cfg.Facts.Catalog)
	if err != nil {
		return err
	}
	if a.cache == nil {
		a.cache = services.NewSolutionCache(a.cfg.Solver.CacheTTL)
	}

	a.catalog = catalog
	a.source = facts.NewFileBlockSource(a.cfg.Facts.Blocks)
	if a.cfg.Facts.Telemetry != "" {
		a.telemetry = facts.NewFileTelemetry(a.cfg.Facts.Telemetry)
	}
	a.builder = production.NewActionBuilder(catalog.Catalog, catalog.Machines)
	a.analyzer = services.NewBlockAnalyzer(a.builder, a.cfg.Solver.SolverOptions(), a.cache, shared.NewRealClock())

	a.logger.Log("DEBUG", "Facts loaded", map[string]interface{}{
		"catalog":        a.cfg.Facts.Catalog,
		"catalog_digest": catalog.Digest,
		"recipes":        catalog.Catalog.Len(),
		"blocks":         a.cfg.Facts.Blocks,
	})
	return nil
}

// wire builds a mediator over whatever has been loaded
func (a *app) wire() error {
	med := mediator.NewMediator()
	if a.requestMetrics != nil {
		med.Use(metrics.PrometheusMiddleware(a.requestMetrics))
	}

	if a.analyzer != nil {
		if err := mediator.RegisterHandler[*queries.AnalyzeBlockQuery](med, queries.NewAnalyzeBlockHandler(a.source, a.analyzer)); err != nil {
			return fmt.Errorf("failed to register AnalyzeBlock handler: %w", err)
		}
		if err := mediator.RegisterHandler[*queries.AnalyzeNetworkQuery](med, queries.NewAnalyzeNetworkHandler(a.source, a.analyzer, a.cfg.Solver.Parallelism)); err != nil {
			return fmt.Errorf("failed to register AnalyzeNetwork handler: %w", err)
		}
		if err := mediator.RegisterHandler[*queries.LogisticsSummaryQuery](med, queries.NewLogisticsSummaryHandler(a.source, a.catalog.Stacks)); err != nil {
			return fmt.Errorf("failed to register LogisticsSummary handler: %w", err)
		}
		if err := mediator.RegisterHandler[*queries.GetRecipeQuery](med, queries.NewGetRecipeHandler(a.catalog.Catalog)); err != nil {
			return fmt.Errorf("failed to register GetRecipe handler: %w", err)
		}
		if a.telemetry != nil {
			if err := mediator.RegisterHandler[*queries.ReachabilityQuery](med, queries.NewReachabilityHandler(a.catalog.Catalog, a.telemetry)); err != nil {
				return fmt.Errorf("failed to register Reachability handler: %w", err)
			}
		}
	}

	if a.solutions != nil {
		if err := mediator.RegisterHandler[*commands.RecordSolutionCommand](med, commands.NewRecordSolutionHandler(a.solutions, nil)); err != nil {
			return fmt.Errorf("failed to register RecordSolution handler: %w", err)
		}
		if err := mediator.RegisterHandler[*queries.ListSolutionsQuery](med, queries.NewListSolutionsHandler(a.solutions)); err != nil {
			return fmt.Errorf("failed to register ListSolutions handler: %w", err)
		}
	}

	a.med = med
	return nil
}

// Close releases the database, metrics server and log file
func (a *app) Close() {
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.metricsServer.Shutdown(ctx)
		cancel()
	}
	if a.db != nil {
		_ = database.Close(a.db)
	}
	if a.logger != nil {
		_ = a.logger.Close()
	}
}
