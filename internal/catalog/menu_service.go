package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dinecat/dinecat/internal/cache"
	"github.com/dinecat/dinecat/internal/database"
)

// MenuStore defines the database operations the menu service needs.
type MenuStore interface {
	CreateMenu(ctx context.Context, title, description string) (*database.Menu, error)
	GetMenu(ctx context.Context, id string) (*database.Menu, error)
	ListMenus(ctx context.Context) ([]*database.Menu, error)
	UpdateMenu(ctx context.Context, id, title, description string) (*database.Menu, error)
	DeleteMenu(ctx context.Context, id string) (bool, error)
	MenuCounts(ctx context.Context, id string) (*database.MenuCounts, error)
}

// MenuService implements read-through caching and write-invalidate for
// menus. The database is authoritative; the cache is repopulated lazily.
type MenuService struct {
	store MenuStore
	cache *cache.Client
	inv   *cache.Invalidator
	sales SaleChecker
	log   *slog.Logger
}

// NewMenuService creates a new menu service. sales may be nil when no
// overlay is configured.
func NewMenuService(store MenuStore, client *cache.Client, inv *cache.Invalidator, sales SaleChecker, logger *slog.Logger) *MenuService {
	if logger == nil {
		logger = slog.Default().With("component", "menu-service")
	}
	return &MenuService{store: store, cache: client, inv: inv, sales: sales, log: logger}
}

// Create inserts a new menu. A fresh menu has no cached readers yet, so its
// cache entry is seeded directly instead of invalidated.
func (s *MenuService) Create(ctx context.Context, in MenuInput) (*Menu, error) {
	row, err := s.store.CreateMenu(ctx, in.Title, in.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}

	view := menuView(row, []Submenu{})
	s.cache.Delete(ctx, cache.MenusKey)
	cache.Set(ctx, s.cache, view.ID, view)
	return &view, nil
}

// Read returns a menu with its full subtree, served from cache when
// possible.
func (s *MenuService) Read(ctx context.Context, id string) (*Menu, error) {
	if cached, ok := cache.Get[Menu](ctx, s.cache, id); ok {
		return cached, nil
	}

	view, err := s.load(ctx, id, true)
	if err != nil {
		return nil, err
	}

	cache.Set(ctx, s.cache, id, view)
	return view, nil
}

// ReadRaw returns a menu directly from the store, bypassing both the cache
// and the sale overlay. Used by reconciliation, which must compare against
// raw catalog data.
func (s *MenuService) ReadRaw(ctx context.Context, id string) (*Menu, error) {
	return s.load(ctx, id, false)
}

func (s *MenuService) load(ctx context.Context, id string, withSales bool) (*Menu, error) {
	row, err := s.store.GetMenu(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu: %w", err)
	}
	if row == nil {
		return nil, NewNotFound("menu")
	}

	view := s.view(ctx, row, withSales)
	return &view, nil
}

func (s *MenuService) view(ctx context.Context, row *database.Menu, withSales bool) Menu {
	submenus := make([]Submenu, 0, len(row.Submenus))
	for _, submenu := range row.Submenus {
		dishes := make([]Dish, 0, len(submenu.Dishes))
		for _, dish := range submenu.Dishes {
			dishes = append(dishes, s.dishView(ctx, dish, withSales))
		}
		submenus = append(submenus, submenuView(submenu, dishes))
	}
	return menuView(row, submenus)
}

func (s *MenuService) dishView(ctx context.Context, row *database.Dish, withSales bool) Dish {
	price := FormatPrice(row.Price)
	if withSales && s.sales != nil {
		price = s.sales.Apply(ctx, row.ID, row.Price)
	}
	return Dish{
		ID:          row.ID,
		SubmenuID:   row.SubmenuID,
		Title:       row.Title,
		Description: row.Description,
		Price:       price,
	}
}

// ReadAll returns every menu with nested subtrees and computed counts.
func (s *MenuService) ReadAll(ctx context.Context) ([]Menu, error) {
	if cached, ok := cache.Get[[]Menu](ctx, s.cache, cache.MenusKey); ok {
		return *cached, nil
	}

	rows, err := s.store.ListMenus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}

	views := make([]Menu, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.view(ctx, row, true))
	}

	cache.Set(ctx, s.cache, cache.MenusKey, views)
	return views, nil
}

// ReadCounts returns the aggregate submenu/dish counts of a menu, cached
// under its own aggregate key.
func (s *MenuService) ReadCounts(ctx context.Context, id string) (*MenuCounts, error) {
	key := cache.CountsKey(id)
	if cached, ok := cache.Get[MenuCounts](ctx, s.cache, key); ok {
		return cached, nil
	}

	row, err := s.store.MenuCounts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu counts: %w", err)
	}
	if row == nil {
		return nil, NewNotFound("menu")
	}

	view := MenuCounts{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		SubmenuCount: row.Submenus,
		DishCount:    row.Dishes,
	}

	cache.Set(ctx, s.cache, key, view)
	return &view, nil
}

// Update replaces the mutable fields of a menu. The counts aggregate is
// deleted rather than recomputed, to be rebuilt lazily on the next read.
func (s *MenuService) Update(ctx context.Context, id string, in MenuInput) (*Menu, error) {
	row, err := s.store.UpdateMenu(ctx, id, in.Title, in.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to update menu: %w", err)
	}
	if row == nil {
		return nil, NewNotFound("menu")
	}

	view := s.view(ctx, row, true)
	s.cache.Delete(ctx, cache.MenusKey, cache.CountsKey(id))
	cache.Set(ctx, s.cache, id, view)
	return &view, nil
}

// Delete removes a menu and its whole subtree. The entity is read before the
// delete so the invalidation closure matches the store's cascade, and cache
// invalidation is issued only after the store delete applied.
func (s *MenuService) Delete(ctx context.Context, id string) error {
	row, err := s.store.GetMenu(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read menu before delete: %w", err)
	}
	if row == nil {
		return NewNotFound("menu")
	}

	deleted, err := s.store.DeleteMenu(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	if !deleted {
		return NewNotFound("menu")
	}

	s.inv.InvalidateMenu(ctx, treeOf(row))
	return nil
}
