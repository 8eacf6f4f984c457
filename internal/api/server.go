// Package api exposes the catalog over HTTP as a Fiber application.
package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/dinecat/dinecat/internal/catalog"
)

// Config represents API server configuration
type Config struct {
	Prefix string // API path prefix (default: "/api/v1")
}

// DefaultConfig returns default API configuration
func DefaultConfig() *Config {
	return &Config{
		Prefix: "/api/v1",
	}
}

// Server registers the catalog routes on a Fiber app.
type Server struct {
	config   *Config
	menus    *catalog.MenuService
	submenus *catalog.SubmenuService
	dishes   *catalog.DishService
	logger   *slog.Logger
}

// NewServer creates a new API server.
func NewServer(
	config *Config,
	menus *catalog.MenuService,
	submenus *catalog.SubmenuService,
	dishes *catalog.DishService,
	logger *slog.Logger,
) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default().With("component", "api")
	}
	return &Server{
		config:   config,
		menus:    menus,
		submenus: submenus,
		dishes:   dishes,
		logger:   logger,
	}
}

// RegisterRoutes mounts the catalog endpoints under the configured prefix.
func (s *Server) RegisterRoutes(app *fiber.App) {
	menus := app.Group(s.config.Prefix + "/menus")

	menus.Get("/", s.handleListMenus)
	menus.Post("/", s.handleCreateMenu)
	menus.Get("/:menuID", s.handleGetMenu)
	menus.Patch("/:menuID", s.handleUpdateMenu)
	menus.Delete("/:menuID", s.handleDeleteMenu)
	menus.Get("/:menuID/counts", s.handleGetMenuCounts)

	submenus := menus.Group("/:menuID/submenus")
	submenus.Get("/", s.handleListSubmenus)
	submenus.Post("/", s.handleCreateSubmenu)
	submenus.Get("/:submenuID", s.handleGetSubmenu)
	submenus.Patch("/:submenuID", s.handleUpdateSubmenu)
	submenus.Delete("/:submenuID", s.handleDeleteSubmenu)

	dishes := submenus.Group("/:submenuID/dishes")
	dishes.Get("/", s.handleListDishes)
	dishes.Post("/", s.handleCreateDish)
	dishes.Get("/:dishID", s.handleGetDish)
	dishes.Patch("/:dishID", s.handleUpdateDish)
	dishes.Delete("/:dishID", s.handleDeleteDish)
}
