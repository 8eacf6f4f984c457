// Package reconcile keeps the catalog converged onto the published sheet:
// it diffs the parsed feed against raw catalog data and replaces whatever
// drifted.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strconv"

	"github.com/dinecat/dinecat/internal/catalog"
	"github.com/dinecat/dinecat/internal/sheet"
)

// MenuFinder resolves feed menus against the store by natural key.
type MenuFinder interface {
	FindMenuByTitle(ctx context.Context, title, description string) (string, error)
	ListMenuIDs(ctx context.Context) ([]string, error)
}

// RawReader loads a menu subtree without cache or sale overlay, so the
// comparison sees the same base data the feed describes.
type RawReader interface {
	ReadRaw(ctx context.Context, id string) (*catalog.Menu, error)
}

// Diff is the plan for one reconciliation run. Deletions must be applied
// before creations so a replaced menu never collides with its successor.
type Diff struct {
	Delete []string     // ids of menus the feed no longer confirms
	Create []sheet.Menu // feed menus to (re)create, in feed order
}

// Differ computes the Diff for a parsed feed.
type Differ struct {
	store MenuFinder
	menus RawReader
	log   *slog.Logger
}

// NewDiffer creates a new differ.
func NewDiffer(store MenuFinder, menus RawReader, logger *slog.Logger) *Differ {
	if logger == nil {
		logger = slog.Default().With("component", "reconcile-differ")
	}
	return &Differ{store: store, menus: menus, log: logger}
}

// Plan matches each feed menu to a stored menu by natural key and compares
// the subtrees. A matching subtree confirms the stored menu; a mismatch, a
// missing match or a failed comparison schedules the feed menu for creation.
// Every stored menu the feed did not confirm is scheduled for deletion.
func (d *Differ) Plan(ctx context.Context, feed *sheet.Feed) (*Diff, error) {
	diff := &Diff{}
	confirmed := make(map[string]bool)

	for _, menu := range feed.Menus {
		id, err := d.store.FindMenuByTitle(ctx, menu.Title, menu.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to match menu %q: %w", menu.Title, err)
		}
		if id == "" {
			diff.Create = append(diff.Create, menu)
			continue
		}

		equal, err := d.matches(ctx, id, menu)
		if err != nil {
			// A menu that cannot be compared is replaced rather than trusted.
			d.log.Warn("failed to compare menu, scheduling replacement",
				"menu_id", id, "title", menu.Title, "err", err)
			diff.Create = append(diff.Create, menu)
			continue
		}
		if !equal {
			diff.Create = append(diff.Create, menu)
			continue
		}

		confirmed[id] = true
	}

	ids, err := d.store.ListMenuIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	for _, id := range ids {
		if !confirmed[id] {
			diff.Delete = append(diff.Delete, id)
		}
	}

	return diff, nil
}

func (d *Differ) matches(ctx context.Context, id string, menu sheet.Menu) (bool, error) {
	raw, err := d.menus.ReadRaw(ctx, id)
	if err != nil {
		return false, err
	}

	stored, err := storedShape(raw)
	if err != nil {
		return false, err
	}

	return reflect.DeepEqual(stored, feedShape(menu)), nil
}

// menuShape is the identity-free form both sides are reduced to before
// comparing: ids and derived counts stripped, prices as floats, children
// sorted by natural key so feed reordering alone never forces a replacement.
type menuShape struct {
	Title       string
	Description string
	Submenus    []submenuShape
}

type submenuShape struct {
	Title       string
	Description string
	Dishes      []dishShape
}

type dishShape struct {
	Title       string
	Description string
	Price       float64
}

func storedShape(menu *catalog.Menu) (menuShape, error) {
	shape := menuShape{Title: menu.Title, Description: menu.Description}
	for _, submenu := range menu.Submenus {
		sub := submenuShape{Title: submenu.Title, Description: submenu.Description}
		for _, dish := range submenu.Dishes {
			price, err := strconv.ParseFloat(dish.Price, 64)
			if err != nil {
				return menuShape{}, fmt.Errorf("stored dish %q has unparseable price %q: %w",
					dish.Title, dish.Price, err)
			}
			sub.Dishes = append(sub.Dishes, dishShape{
				Title:       dish.Title,
				Description: dish.Description,
				Price:       price,
			})
		}
		shape.Submenus = append(shape.Submenus, sub)
	}
	normalize(&shape)
	return shape, nil
}

func feedShape(menu sheet.Menu) menuShape {
	shape := menuShape{Title: menu.Title, Description: menu.Description}
	for _, submenu := range menu.Submenus {
		sub := submenuShape{Title: submenu.Title, Description: submenu.Description}
		for _, dish := range submenu.Dishes {
			sub.Dishes = append(sub.Dishes, dishShape(dish))
		}
		shape.Submenus = append(shape.Submenus, sub)
	}
	normalize(&shape)
	return shape
}

func normalize(shape *menuShape) {
	for i := range shape.Submenus {
		dishes := shape.Submenus[i].Dishes
		sort.Slice(dishes, func(a, b int) bool {
			if dishes[a].Title != dishes[b].Title {
				return dishes[a].Title < dishes[b].Title
			}
			return dishes[a].Description < dishes[b].Description
		})
	}
	sort.Slice(shape.Submenus, func(a, b int) bool {
		if shape.Submenus[a].Title != shape.Submenus[b].Title {
			return shape.Submenus[a].Title < shape.Submenus[b].Title
		}
		return shape.Submenus[a].Description < shape.Submenus[b].Description
	})
}
