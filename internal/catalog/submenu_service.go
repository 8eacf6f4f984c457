package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dinecat/dinecat/internal/cache"
	"github.com/dinecat/dinecat/internal/database"
)

// SubmenuStore defines the database operations the submenu service needs.
type SubmenuStore interface {
	MenuExists(ctx context.Context, id string) (bool, error)
	GetMenu(ctx context.Context, id string) (*database.Menu, error)
	CreateSubmenu(ctx context.Context, menuID, title, description string) (*database.Submenu, error)
	GetSubmenu(ctx context.Context, id string) (*database.Submenu, error)
	UpdateSubmenu(ctx context.Context, id, title, description string) (*database.Submenu, error)
	DeleteSubmenu(ctx context.Context, id string) (bool, error)
}

// SubmenuService implements read-through caching and write-invalidate for
// submenus.
type SubmenuService struct {
	store SubmenuStore
	cache *cache.Client
	inv   *cache.Invalidator
	sales SaleChecker
	log   *slog.Logger
}

// NewSubmenuService creates a new submenu service.
func NewSubmenuService(store SubmenuStore, client *cache.Client, inv *cache.Invalidator, sales SaleChecker, logger *slog.Logger) *SubmenuService {
	if logger == nil {
		logger = slog.Default().With("component", "submenu-service")
	}
	return &SubmenuService{store: store, cache: client, inv: inv, sales: sales, log: logger}
}

// Create inserts a new submenu under a menu. Fails with a menu NotFound when
// the parent does not resolve.
func (s *SubmenuService) Create(ctx context.Context, menuID string, in SubmenuInput) (*Submenu, error) {
	exists, err := s.store.MenuExists(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to check parent menu: %w", err)
	}
	if !exists {
		return nil, NewNotFound("menu")
	}

	row, err := s.store.CreateSubmenu(ctx, menuID, in.Title, in.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create submenu: %w", err)
	}

	view := s.view(ctx, row)
	s.refreshAncestors(ctx, menuID)
	cache.Set(ctx, s.cache, view.ID, view)
	return &view, nil
}

// Read returns a submenu with its dishes, served from cache when possible.
func (s *SubmenuService) Read(ctx context.Context, submenuID string) (*Submenu, error) {
	if cached, ok := cache.Get[Submenu](ctx, s.cache, submenuID); ok {
		return cached, nil
	}

	row, err := s.store.GetSubmenu(ctx, submenuID)
	if err != nil {
		return nil, fmt.Errorf("failed to read submenu: %w", err)
	}
	if row == nil {
		return nil, NewNotFound("submenu")
	}

	view := s.view(ctx, row)
	cache.Set(ctx, s.cache, submenuID, view)
	return &view, nil
}

// ReadAll returns every submenu of a menu, with nested dishes and computed
// counts. Fails with a menu NotFound when the menu does not resolve.
func (s *SubmenuService) ReadAll(ctx context.Context, menuID string) ([]Submenu, error) {
	key := cache.SubmenusKey(menuID)
	if cached, ok := cache.Get[[]Submenu](ctx, s.cache, key); ok {
		return *cached, nil
	}

	menu, err := s.store.GetMenu(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu: %w", err)
	}
	if menu == nil {
		return nil, NewNotFound("menu")
	}

	views := make([]Submenu, 0, len(menu.Submenus))
	for _, row := range menu.Submenus {
		views = append(views, s.view(ctx, row))
	}

	cache.Set(ctx, s.cache, key, views)
	return views, nil
}

// Update replaces the mutable fields of a submenu.
func (s *SubmenuService) Update(ctx context.Context, menuID, submenuID string, in SubmenuInput) (*Submenu, error) {
	row, err := s.store.UpdateSubmenu(ctx, submenuID, in.Title, in.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to update submenu: %w", err)
	}
	if row == nil {
		return nil, NewNotFound("submenu")
	}

	view := s.view(ctx, row)
	s.refreshAncestors(ctx, menuID)
	cache.Set(ctx, s.cache, submenuID, view)
	return &view, nil
}

// Delete removes a submenu and its dishes. The pre-delete snapshot supplies
// the dish ids so the cache closure matches the store cascade.
func (s *SubmenuService) Delete(ctx context.Context, menuID, submenuID string) error {
	row, err := s.store.GetSubmenu(ctx, submenuID)
	if err != nil {
		return fmt.Errorf("failed to read submenu before delete: %w", err)
	}
	if row == nil {
		return NewNotFound("submenu")
	}

	deleted, err := s.store.DeleteSubmenu(ctx, submenuID)
	if err != nil {
		return fmt.Errorf("failed to delete submenu: %w", err)
	}
	if !deleted {
		return NewNotFound("submenu")
	}

	s.inv.InvalidateSubmenu(ctx, menuID, subtreeOf(row))
	return nil
}

// refreshAncestors drops the ancestor keys a submenu write makes stale. The
// submenu's own entry is re-seeded by the caller right after, so this must
// run inline rather than through the deferred queue.
func (s *SubmenuService) refreshAncestors(ctx context.Context, menuID string) {
	s.cache.Delete(ctx,
		cache.MenusKey,
		menuID,
		cache.SubmenusKey(menuID),
		cache.CountsKey(menuID),
	)
}

func (s *SubmenuService) view(ctx context.Context, row *database.Submenu) Submenu {
	dishes := make([]Dish, 0, len(row.Dishes))
	for _, dish := range row.Dishes {
		price := FormatPrice(dish.Price)
		if s.sales != nil {
			price = s.sales.Apply(ctx, dish.ID, dish.Price)
		}
		dishes = append(dishes, Dish{
			ID:          dish.ID,
			SubmenuID:   dish.SubmenuID,
			Title:       dish.Title,
			Description: dish.Description,
			Price:       price,
		})
	}
	return submenuView(row, dishes)
}
