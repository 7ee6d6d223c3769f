package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/craftplan/craftplan-go/internal/adapters/cache"
	"github.com/craftplan/craftplan-go/internal/adapters/gamedata"
	"github.com/craftplan/craftplan-go/internal/adapters/metrics"
	"github.com/craftplan/craftplan-go/internal/adapters/persistence"
	"github.com/craftplan/craftplan-go/internal/application/common"
	listCmd "github.com/craftplan/craftplan-go/internal/application/lists/commands"
	listQuery "github.com/craftplan/craftplan-go/internal/application/lists/queries"
	plannerQuery "github.com/craftplan/craftplan-go/internal/application/planner/queries"
	"github.com/craftplan/craftplan-go/internal/application/planner/services"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/internal/infrastructure/config"
	"github.com/craftplan/craftplan-go/internal/infrastructure/database"
)

// App wires configuration, storage, the game-data catalog and the
// engine services together for one CLI invocation
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Store     *gamedata.Store
	Mediator  common.Mediator
	Lists     lists.ListRepository
	Stocks    *persistence.GormInventoryStockRepository
	Debouncer *services.RecalcDebouncer

	logger *stdLogger
}

// newApp bootstraps the full application stack. Every command goes
// through here, so a broken config or data directory fails identically
// everywhere.
func newApp() (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.Logging, verbose)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector := metrics.NewPlannerMetricsCollector()
		if err := collector.Register(metrics.Registry); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		metrics.SetGlobalPlannerCollector(collector)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := gamedata.NewStore(cfg.Catalog.DataDir)
	if err := store.Load(); err != nil {
		database.Close(db)
		return nil, err
	}

	// Engine services. The catalog store invalidates both derived
	// caches on every reload.
	treeCache := cache.NewMemoryTreeCache(cfg.Cache.TreeTTL)
	selector := services.NewRecipeSelector(store)
	classifier := services.NewClassifier(store, selector)
	store.OnInvalidate(classifier.Clear)
	store.OnInvalidate(treeCache.Clear)

	builder := services.NewTreeBuilderWithDepth(store, selector, cfg.Planner.MaxDepth)
	planner := services.NewTreePlanner(builder, treeCache)
	flattener := services.NewFlattener(classifier)
	optimizer := services.NewBatchOptimizer(store, selector, classifier)
	propagator := services.NewInventoryPropagator()
	assembler := services.NewRequirementAssembler()

	listRepo := persistence.NewGormListRepository(db)
	stockRepo := persistence.NewGormInventoryStockRepository(db)

	var snapshots lists.SnapshotStore
	switch cfg.Cache.SnapshotBackend {
	case "redis":
		snapshots = cache.NewRedisSnapshotStore(
			cfg.Cache.Redis.Addr,
			cfg.Cache.Redis.Password,
			cfg.Cache.Redis.DB,
			cfg.Cache.SnapshotTTL,
		)
	default:
		snapshots = cache.NewMemorySnapshotStore(cfg.Cache.SnapshotTTL)
	}

	med := common.NewMediator()

	handlers := []struct {
		request common.Request
		handler common.RequestHandler
	}{
		{&listCmd.CreateListCommand{}, listCmd.NewCreateListHandler(listRepo)},
		{&listCmd.AddEntryCommand{}, listCmd.NewAddEntryHandler(listRepo, store)},
		{&listCmd.RemoveEntryCommand{}, listCmd.NewRemoveEntryHandler(listRepo)},
		{&listCmd.SetRecipePreferenceCommand{}, listCmd.NewSetRecipePreferenceHandler(listRepo)},
		{&listCmd.SetInventorySourcesCommand{}, listCmd.NewSetInventorySourcesHandler(listRepo)},
		{&listQuery.GetListQuery{}, listQuery.NewGetListHandler(listRepo)},
		{&listQuery.ListListsQuery{}, listQuery.NewListListsHandler(listRepo)},
		{
			&plannerQuery.ComputeRequirementsQuery{},
			plannerQuery.NewComputeRequirementsHandler(
				listRepo, planner, flattener, optimizer, propagator, assembler, stockRepo, snapshots,
			),
		},
		{&plannerQuery.GetMaterialTreeQuery{}, plannerQuery.NewGetMaterialTreeHandler(listRepo, planner)},
	}
	for _, registration := range handlers {
		if err := med.Register(requestType(registration.request), registration.handler); err != nil {
			database.Close(db)
			return nil, fmt.Errorf("failed to register handler: %w", err)
		}
	}

	return &App{
		Config:    cfg,
		DB:        db,
		Store:     store,
		Mediator:  med,
		Lists:     listRepo,
		Stocks:    stockRepo,
		Debouncer: services.NewRecalcDebouncer(cfg.Planner.RecalcPerSecond),
		logger:    logger,
	}, nil
}

// Context returns a base context carrying the app logger
func (a *App) Context() context.Context {
	return common.WithLogger(context.Background(), a.logger)
}

// Close releases the app's resources
func (a *App) Close() {
	if err := database.Close(a.DB); err != nil {
		a.logger.Log("warn", "failed to close database", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// StartWatcher runs the catalog file watcher until the context is
// cancelled. Only long-running commands call this.
func (a *App) StartWatcher(ctx context.Context) error {
	if !a.Config.Catalog.Watch {
		return nil
	}
	watcher, err := gamedata.NewWatcher(a.Store, a.Config.Catalog.DataDir)
	if err != nil {
		return fmt.Errorf("failed to start catalog watcher: %w", err)
	}
	go watcher.Run(ctx)
	return nil
}

// ServeMetrics exposes the Prometheus registry over HTTP when metrics
// are enabled. Only long-running commands call this.
func (a *App) ServeMetrics(ctx context.Context) {
	if !a.Config.Metrics.Enabled || !metrics.IsEnabled() {
		return
	}

	mux := http.NewServeMux()
	mux.Handle(a.Config.Metrics.Path, promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", a.Config.Metrics.Host, a.Config.Metrics.Port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		server.Close()
	}()
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Log("warn", "metrics server stopped", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
}
