package cache

import (
	"context"
)

// MenuTree carries the identifiers of a menu subtree so the invalidator can
// delete the same transitive closure of keys the database cascade removes.
// It is captured from a pre-delete snapshot of the entity.
type MenuTree struct {
	MenuID   string
	Submenus []SubmenuTree
}

// SubmenuTree carries the identifiers of a submenu and its dishes.
type SubmenuTree struct {
	SubmenuID string
	DishIDs   []string
}

// Invalidator computes the cache keys affected by a catalog write and
// deletes them. A write at any level invalidates every ancestor aggregate up
// to the root and every descendant key below the modified node, but never
// unrelated siblings. When a Queue is configured the deletions are deferred
// off the request path.
type Invalidator struct {
	client *Client
	queue  *Queue
}

// NewInvalidator creates a new invalidator. queue may be nil, in which case
// deletions happen inline.
func NewInvalidator(client *Client, queue *Queue) *Invalidator {
	return &Invalidator{client: client, queue: queue}
}

// InvalidateMenu deletes the menu's own key, the menus list, its aggregate
// keys and every submenu and dish key under it.
func (i *Invalidator) InvalidateMenu(ctx context.Context, tree MenuTree) {
	keys := []string{
		tree.MenuID,
		MenusKey,
		CountsKey(tree.MenuID),
		SubmenusKey(tree.MenuID),
	}
	for _, submenu := range tree.Submenus {
		keys = append(keys, submenu.DishIDs...)
		keys = append(keys, submenu.SubmenuID, DishesKey(submenu.SubmenuID))
	}
	i.dispatch(ctx, keys)
}

// InvalidateSubmenu deletes the parent menu's entity and aggregate keys, the
// menus list, the submenu's own keys and every dish key it contains.
func (i *Invalidator) InvalidateSubmenu(ctx context.Context, menuID string, submenu SubmenuTree) {
	keys := []string{
		menuID,
		SubmenusKey(menuID),
		CountsKey(menuID),
		MenusKey,
	}
	keys = append(keys, submenu.DishIDs...)
	keys = append(keys, submenu.SubmenuID, DishesKey(submenu.SubmenuID))
	i.dispatch(ctx, keys)
}

// InvalidateDish deletes the dish key and every ancestor entity and
// aggregate key that embeds the dish's data.
func (i *Invalidator) InvalidateDish(ctx context.Context, dishID, submenuID, menuID string) {
	i.dispatch(ctx, []string{
		dishID,
		submenuID,
		menuID,
		MenusKey,
		CountsKey(menuID),
		SubmenusKey(menuID),
		DishesKey(submenuID),
	})
}

func (i *Invalidator) dispatch(ctx context.Context, keys []string) {
	if i.queue != nil {
		i.queue.Submit(keys...)
		return
	}
	i.client.Delete(ctx, keys...)
}
