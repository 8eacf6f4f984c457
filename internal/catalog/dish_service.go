package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dinecat/dinecat/internal/cache"
	"github.com/dinecat/dinecat/internal/database"
)

// DishStore defines the database operations the dish service needs.
type DishStore interface {
	SubmenuExists(ctx context.Context, id string) (bool, error)
	CreateDish(ctx context.Context, submenuID, title, description string, price float64) (*database.Dish, error)
	GetDish(ctx context.Context, id string) (*database.Dish, error)
	ListDishes(ctx context.Context, submenuID string) ([]*database.Dish, error)
	UpdateDish(ctx context.Context, id, title, description string, price float64) (*database.Dish, error)
	DeleteDish(ctx context.Context, id string) (bool, error)
}

// DishService implements read-through caching and write-invalidate for
// dishes, applying the sale overlay when building read models.
type DishService struct {
	store DishStore
	cache *cache.Client
	inv   *cache.Invalidator
	sales SaleChecker
	log   *slog.Logger
}

// NewDishService creates a new dish service.
func NewDishService(store DishStore, client *cache.Client, inv *cache.Invalidator, sales SaleChecker, logger *slog.Logger) *DishService {
	if logger == nil {
		logger = slog.Default().With("component", "dish-service")
	}
	return &DishService{store: store, cache: client, inv: inv, sales: sales, log: logger}
}

// Create inserts a new dish under a submenu. Fails with a submenu NotFound
// when the parent does not resolve, and rejects malformed prices.
func (s *DishService) Create(ctx context.Context, menuID, submenuID string, in DishInput) (*Dish, error) {
	price, err := ParsePrice(in.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid dish price %q: %w", in.Price, err)
	}

	exists, err := s.store.SubmenuExists(ctx, submenuID)
	if err != nil {
		return nil, fmt.Errorf("failed to check parent submenu: %w", err)
	}
	if !exists {
		return nil, NewNotFound("submenu")
	}

	row, err := s.store.CreateDish(ctx, submenuID, in.Title, in.Description, price)
	if err != nil {
		return nil, fmt.Errorf("failed to create dish: %w", err)
	}

	view := s.view(ctx, row)
	s.refreshAncestors(ctx, menuID, submenuID)
	cache.Set(ctx, s.cache, view.ID, view)
	return &view, nil
}

// Read returns a dish, served from cache when possible, with the sale
// overlay applied on store reads.
func (s *DishService) Read(ctx context.Context, dishID string) (*Dish, error) {
	if cached, ok := cache.Get[Dish](ctx, s.cache, dishID); ok {
		return cached, nil
	}

	row, err := s.store.GetDish(ctx, dishID)
	if err != nil {
		return nil, fmt.Errorf("failed to read dish: %w", err)
	}
	if row == nil {
		return nil, NewNotFound("dish")
	}

	view := s.view(ctx, row)
	cache.Set(ctx, s.cache, dishID, view)
	return &view, nil
}

// ReadAll returns the dishes of a submenu. An unknown submenu yields an
// empty list rather than a failure, matching the external list contract.
func (s *DishService) ReadAll(ctx context.Context, submenuID string) ([]Dish, error) {
	key := cache.DishesKey(submenuID)
	if cached, ok := cache.Get[[]Dish](ctx, s.cache, key); ok {
		return *cached, nil
	}

	rows, err := s.store.ListDishes(ctx, submenuID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}

	views := make([]Dish, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.view(ctx, row))
	}

	cache.Set(ctx, s.cache, key, views)
	return views, nil
}

// Update replaces the mutable fields of a dish.
func (s *DishService) Update(ctx context.Context, menuID, submenuID, dishID string, in DishInput) (*Dish, error) {
	price, err := ParsePrice(in.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid dish price %q: %w", in.Price, err)
	}

	row, err := s.store.UpdateDish(ctx, dishID, in.Title, in.Description, price)
	if err != nil {
		return nil, fmt.Errorf("failed to update dish: %w", err)
	}
	if row == nil {
		return nil, NewNotFound("dish")
	}

	view := s.view(ctx, row)
	s.refreshAncestors(ctx, menuID, submenuID)
	s.cache.Delete(ctx, dishID)
	cache.Set(ctx, s.cache, dishID, view)
	return &view, nil
}

// Delete removes a dish and invalidates every key embedding its data.
func (s *DishService) Delete(ctx context.Context, menuID, submenuID, dishID string) error {
	deleted, err := s.store.DeleteDish(ctx, dishID)
	if err != nil {
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	if !deleted {
		return NewNotFound("dish")
	}

	s.inv.InvalidateDish(ctx, dishID, submenuID, menuID)
	return nil
}

// refreshAncestors drops the ancestor keys a dish write makes stale. Runs
// inline because the dish's own entry is re-seeded right after.
func (s *DishService) refreshAncestors(ctx context.Context, menuID, submenuID string) {
	s.cache.Delete(ctx,
		cache.MenusKey,
		menuID,
		submenuID,
		cache.CountsKey(menuID),
		cache.SubmenusKey(menuID),
		cache.DishesKey(submenuID),
	)
}

func (s *DishService) view(ctx context.Context, row *database.Dish) Dish {
	price := FormatPrice(row.Price)
	if s.sales != nil {
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
