package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *Memory) {
	t.Helper()

	store, err := NewMemory(128)
	require.NoError(t, err)
	return NewClient(store, nil), store
}

func seedKeys(t *testing.T, store *Memory, keys ...string) {
	t.Helper()

	for _, key := range keys {
		require.NoError(t, store.Set(context.Background(), key, "cached"))
	}
}

func assertAbsent(t *testing.T, store *Memory, keys ...string) {
	t.Helper()

	for _, key := range keys {
		_, ok, err := store.Get(context.Background(), key)
		require.NoError(t, err)
		assert.False(t, ok, "key %q should be absent", key)
	}
}

func assertPresent(t *testing.T, store *Memory, keys ...string) {
	t.Helper()

	for _, key := range keys {
		_, ok, err := store.Get(context.Background(), key)
		require.NoError(t, err)
		assert.True(t, ok, "key %q should be present", key)
	}
}

func TestInvalidateMenu_DeletesFullSubtree(t *testing.T) {
	client, store := newTestClient(t)
	inv := NewInvalidator(client, nil)

	seedKeys(t, store,
		"m1", MenusKey, CountsKey("m1"), SubmenusKey("m1"),
		"s1", DishesKey("s1"), "d1", "d2",
		"s2", DishesKey("s2"), "d3",
	)

	inv.InvalidateMenu(context.Background(), MenuTree{
		MenuID: "m1",
		Submenus: []SubmenuTree{
			{SubmenuID: "s1", DishIDs: []string{"d1", "d2"}},
			{SubmenuID: "s2", DishIDs: []string{"d3"}},
		},
	})

	assertAbsent(t, store,
		"m1", MenusKey, CountsKey("m1"), SubmenusKey("m1"),
		"s1", DishesKey("s1"), "d1", "d2",
		"s2", DishesKey("s2"), "d3",
	)
}

func TestInvalidateMenu_LeavesSiblingsAlone(t *testing.T) {
	client, store := newTestClient(t)
	inv := NewInvalidator(client, nil)

	// Sibling menu m2 and its subtree must survive an m1 invalidation.
	seedKeys(t, store,
		"m1", CountsKey("m1"), SubmenusKey("m1"),
		"m2", CountsKey("m2"), SubmenusKey("m2"), "s9", DishesKey("s9"), "d9",
	)

	inv.InvalidateMenu(context.Background(), MenuTree{MenuID: "m1"})

	assertAbsent(t, store, "m1", CountsKey("m1"), SubmenusKey("m1"))
	assertPresent(t, store, "m2", CountsKey("m2"), SubmenusKey("m2"), "s9", DishesKey("s9"), "d9")
}

func TestInvalidateSubmenu_DeletesAncestorsAndDishes(t *testing.T) {
	client, store := newTestClient(t)
	inv := NewInvalidator(client, nil)

	seedKeys(t, store,
		"m1", SubmenusKey("m1"), CountsKey("m1"), MenusKey,
		"s1", DishesKey("s1"), "d1", "d2",
		"s2", DishesKey("s2"),
	)

	inv.InvalidateSubmenu(context.Background(), "m1", SubmenuTree{
		SubmenuID: "s1",
		DishIDs:   []string{"d1", "d2"},
	})

	assertAbsent(t, store,
		"m1", SubmenusKey("m1"), CountsKey("m1"), MenusKey,
		"s1", DishesKey("s1"), "d1", "d2",
	)
	assertPresent(t, store, "s2", DishesKey("s2"))
}

func TestInvalidateDish_DeletesAncestorChain(t *testing.T) {
	client, store := newTestClient(t)
	inv := NewInvalidator(client, nil)

	seedKeys(t, store,
		"d1", "s1", "m1", MenusKey,
		CountsKey("m1"), SubmenusKey("m1"), DishesKey("s1"),
		"d2", DishesKey("s2"),
	)

	inv.InvalidateDish(context.Background(), "d1", "s1", "m1")

	assertAbsent(t, store,
		"d1", "s1", "m1", MenusKey,
		CountsKey("m1"), SubmenusKey("m1"), DishesKey("s1"),
	)
	assertPresent(t, store, "d2", DishesKey("s2"))
}

func TestInvalidator_DeferredThroughQueue(t *testing.T) {
	client, store := newTestClient(t)
	queue := NewQueue(client, 16)
	defer queue.Close()

	inv := NewInvalidator(client, queue)

	seedKeys(t, store, "d1", "s1", "m1", MenusKey, CountsKey("m1"), SubmenusKey("m1"), DishesKey("s1"))

	inv.InvalidateDish(context.Background(), "d1", "s1", "m1")
	queue.Flush()

	assertAbsent(t, store, "d1", "s1", "m1", MenusKey, CountsKey("m1"), SubmenusKey("m1"), DishesKey("s1"))
}
