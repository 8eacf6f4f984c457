package cmd

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/dinecat/dinecat/internal/api"
	"github.com/dinecat/dinecat/internal/cache"
	"github.com/dinecat/dinecat/internal/catalog"
	"github.com/dinecat/dinecat/internal/config"
	"github.com/dinecat/dinecat/internal/database"
	"github.com/dinecat/dinecat/internal/reconcile"
	"github.com/dinecat/dinecat/internal/sales"
	"github.com/dinecat/dinecat/internal/sheet"
)

// application bundles the wired service graph shared by serve and sync.
type application struct {
	db         *database.DB
	queue      *cache.Queue
	menus      *catalog.MenuService
	submenus   *catalog.SubmenuService
	dishes     *catalog.DishService
	reconciler *reconcile.Service
}

// buildApplication constructs the full dependency graph from configuration:
// store, cache, catalog services, sale overlay and reconciler.
func buildApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := database.NewDB(database.Config{DatabasePath: cfg.Database.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store, err := cache.NewMemory(cfg.Cache.Size)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	client := cache.NewClient(store, logger.With("component", "cache"))
	queue := cache.NewQueue(client, cfg.Cache.QueueSize)
	inv := cache.NewInvalidator(client, queue)

	overlay := sales.NewOverlay(db.Catalog, client, logger.With("component", "sales"))
	menus := catalog.NewMenuService(db.Catalog, client, inv, overlay, logger.With("component", "menu-service"))
	submenus := catalog.NewSubmenuService(db.Catalog, client, inv, overlay, logger.With("component", "submenu-service"))
	dishes := catalog.NewDishService(db.Catalog, client, inv, overlay, logger.With("component", "dish-service"))

	fetcher := sheet.NewClient(sheet.Config{
		URL:    cfg.Sheet.URL,
		APIKey: cfg.Sheet.APIKey,
	}, logger.With("component", "sheet"))

	reconciler := reconcile.NewService(
		reconcile.Config{
			Interval: cfg.Sheet.SyncInterval,
			Enabled:  cfg.Sheet.Enabled,
		},
		fetcher,
		sheet.NewParser(logger.With("component", "sheet-parser")),
		reconcile.NewDiffer(db.Catalog, menus, logger.With("component", "reconcile-differ")),
		menus, submenus, dishes,
		overlay,
		logger.With("component", "reconcile"),
	)

	return &application{
		db:         db,
		queue:      queue,
		menus:      menus,
		submenus:   submenus,
		dishes:     dishes,
		reconciler: reconciler,
	}, nil
}

// close releases background workers and the store, in dependency order.
func (a *application) close() {
	a.queue.Close()
	if err := a.db.Close(); err != nil {
		slog.Default().Error("failed to close database", "err", err)
	}
}

// createFiberApp creates and configures the Fiber application.
func createFiberApp(logger *slog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			logger.Error("Fiber error", "path", c.Path(), "method", c.Method(), "error", err)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})
}

// registerRoutes mounts the catalog API and the liveness endpoint.
func (a *application) registerRoutes(app *fiber.App, logger *slog.Logger) {
	api.NewServer(nil, a.menus, a.submenus, a.dishes, logger.With("component", "api")).RegisterRoutes(app)

	app.Get("/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
