// Package sales maintains the sale overlay: a cached map of discounted dish
// ids that is rebuilt wholesale on every reconciliation run and consulted
// when dish prices are rendered.
package sales

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dinecat/dinecat/internal/cache"
	"github.com/dinecat/dinecat/internal/catalog"
)

// Record is a sale parsed from the feed, addressed by the dish's natural key.
// Discount is a percentage off the base price.
type Record struct {
	Title       string
	Description string
	Discount    float64
}

// DishFinder resolves a dish's natural key to its id. An empty id means no
// dish matches.
type DishFinder interface {
	FindDishByTitle(ctx context.Context, title, description string) (string, error)
}

// Overlay holds the active discounts keyed by dish id. The map lives in the
// cache under its own key so a restart without a reconciliation run simply
// yields no discounts.
type Overlay struct {
	store DishFinder
	cache *cache.Client
	log   *slog.Logger
}

// NewOverlay creates a new sale overlay.
func NewOverlay(store DishFinder, client *cache.Client, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.Default().With("component", "sales")
	}
	return &Overlay{store: store, cache: client, log: logger}
}

// Rebuild replaces the whole overlay with the given records. Dish entries
// rendered under the previous overlay are dropped so the next read reflects
// the new discounts; records whose natural key resolves to no dish are
// skipped with a warning.
func (o *Overlay) Rebuild(ctx context.Context, records []Record) error {
	o.clearPrevious(ctx)

	discounts := make(map[string]float64, len(records))
	stale := []string{cache.MenusKey}

	for _, record := range records {
		dishID, err := o.store.FindDishByTitle(ctx, record.Title, record.Description)
		if err != nil {
			return fmt.Errorf("failed to resolve sale dish %q: %w", record.Title, err)
		}
		if dishID == "" {
			o.log.Warn("sale references unknown dish, skipping",
				"title", record.Title,
				"description", record.Description)
			continue
		}

		discounts[dishID] = record.Discount
		stale = append(stale, dishID)
	}

	cache.Set(ctx, o.cache, cache.SalesKey, discounts)
	o.cache.Delete(ctx, stale...)

	o.log.Info("sale overlay rebuilt", "discounts", len(discounts), "records", len(records))
	return nil
}

// clearPrevious drops the old overlay and every dish entry priced under it.
func (o *Overlay) clearPrevious(ctx context.Context) {
	previous, ok := cache.Get[map[string]float64](ctx, o.cache, cache.SalesKey)
	if !ok {
		return
	}

	keys := make([]string, 0, len(*previous)+2)
	for dishID := range *previous {
		keys = append(keys, dishID)
	}
	keys = append(keys, cache.SalesKey, cache.MenusKey)
	o.cache.Delete(ctx, keys...)
}

// Apply returns the rendered price for a dish, discounted when the overlay
// holds an entry for it. An unknown dish id or a missing overlay yields the
// base price unchanged.
func (o *Overlay) Apply(ctx context.Context, dishID string, basePrice float64) string {
	discounts, ok := cache.Get[map[string]float64](ctx, o.cache, cache.SalesKey)
	if !ok {
		return catalog.FormatPrice(basePrice)
	}

	discount, ok := (*discounts)[dishID]
	if !ok {
		return catalog.FormatPrice(basePrice)
	}

	return catalog.FormatPrice(basePrice * (100 - discount) / 100)
}
