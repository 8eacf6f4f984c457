// Package catalog implements the service layer over the catalog store and
// the cache: read-through lookups, write-invalidate mutations and the
// external read models.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dinecat/dinecat/internal/cache"
	"github.com/dinecat/dinecat/internal/database"
)

// ErrInvalidPrice marks a dish price that failed validation, so transport
// layers can map it to a client error rather than a server fault.
var ErrInvalidPrice = errors.New("invalid price")

// Menu is the external read model of a menu with its full subtree and
// computed counts. Counts are derived on read and never stored durably.
type Menu struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Submenus     []Submenu `json:"submenus"`
	SubmenuCount int       `json:"submenus_count"`
	DishCount    int       `json:"dishes_count"`
}

// Submenu is the external read model of a submenu with its dishes.
type Submenu struct {
	ID          string `json:"id"`
	MenuID      string `json:"menu_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Dishes      []Dish `json:"dishes"`
	DishCount   int    `json:"dishes_count"`
}

// Dish is the external read model of a dish. Price is always rendered as a
// fixed two-decimal string, after any sale discount.
type Dish struct {
	ID          string `json:"id"`
	SubmenuID   string `json:"submenu_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// MenuCounts is the aggregate counts view of a single menu.
type MenuCounts struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	SubmenuCount int    `json:"submenus_count"`
	DishCount    int    `json:"dishes_count"`
}

// MenuInput carries the mutable fields of a menu for create and
// full-replace update.
type MenuInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SubmenuInput carries the mutable fields of a submenu.
type SubmenuInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DishInput carries the mutable fields of a dish. Price arrives as a decimal
// string, matching the external representation.
type DishInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// SaleChecker applies the sale overlay to a dish price. Implementations must
// treat an unknown or stale dish id as "no discount".
type SaleChecker interface {
	Apply(ctx context.Context, dishID string, basePrice float64) string
}

// FormatPrice renders a price as a string with exactly two decimal digits.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

// ParsePrice parses an external decimal price string, rejecting negatives.
func ParsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidPrice, raw)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: must not be negative", ErrInvalidPrice)
	}
	return price, nil
}

// menuView builds the read model for a stored menu subtree, attaching
// computed counts. Pure: it never mutates the database row.
func menuView(row *database.Menu, submenus []Submenu) Menu {
	dishCount := 0
	for _, submenu := range submenus {
		dishCount += submenu.DishCount
	}
	return Menu{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Submenus:     submenus,
		SubmenuCount: len(submenus),
		DishCount:    dishCount,
	}
}

// submenuView builds the read model for a stored submenu with its dishes.
func submenuView(row *database.Submenu, dishes []Dish) Submenu {
	return Submenu{
		ID:          row.ID,
		MenuID:      row.MenuID,
		Title:       row.Title,
		Description: row.Description,
		Dishes:      dishes,
		DishCount:   len(dishes),
	}
}

// treeOf captures the identifiers of a menu subtree for cache invalidation.
func treeOf(row *database.Menu) cache.MenuTree {
	tree := cache.MenuTree{MenuID: row.ID}
	for _, submenu := range row.Submenus {
		tree.Submenus = append(tree.Submenus, subtreeOf(submenu))
	}
	return tree
}

// subtreeOf captures the identifiers of a submenu and its dishes.
func subtreeOf(row *database.Submenu) cache.SubmenuTree {
	subtree := cache.SubmenuTree{SubmenuID: row.ID}
	for _, dish := range row.Dishes {
		subtree.DishIDs = append(subtree.DishIDs, dish.ID)
	}
	return subtree
}
