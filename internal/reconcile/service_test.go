package reconcile

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinecat/dinecat/internal/cache"
	"github.com/dinecat/dinecat/internal/catalog"
	"github.com/dinecat/dinecat/internal/database"
	"github.com/dinecat/dinecat/internal/sales"
	"github.com/dinecat/dinecat/internal/sheet"
)

// stubFetcher serves a fixed set of sheet rows.
type stubFetcher struct {
	rows [][]string
}

func (f *stubFetcher) Fetch(_ context.Context) ([][]string, error) {
	return f.rows, nil
}

type harness struct {
	service *Service
	fetcher *stubFetcher
	menus   *catalog.MenuService
	repo    *database.CatalogRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := database.NewDB(database.Config{
		DatabasePath: filepath.Join(t.TempDir(), "catalog.db"),
	})
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { db.Close() })

	mem, err := cache.NewMemory(256)
	require.NoError(t, err)
	client := cache.NewClient(mem, nil)
	inv := cache.NewInvalidator(client, nil)

	overlay := sales.NewOverlay(db.Catalog, client, nil)
	menus := catalog.NewMenuService(db.Catalog, client, inv, overlay, nil)
	submenus := catalog.NewSubmenuService(db.Catalog, client, inv, overlay, nil)
	dishes := catalog.NewDishService(db.Catalog, client, inv, overlay, nil)

	fetcher := &stubFetcher{}
	differ := NewDiffer(db.Catalog, menus, nil)
	service := NewService(
		Config{Interval: 15 * time.Second, Enabled: true},
		fetcher, sheet.NewParser(nil), differ,
		menus, submenus, dishes, overlay, nil,
	)

	return &harness{service: service, fetcher: fetcher, menus: menus, repo: db.Catalog}
}

func (h *harness) run(t *testing.T, rows [][]string) {
	t.Helper()

	h.fetcher.rows = rows
	require.NoError(t, h.service.RunOnce(context.Background()))
}

func lunchRows() [][]string {
	return [][]string{
		{"1", "Lunch", "weekday card"},
		{"", "1.1", "Soups", "hot"},
		{"", "", "1.1.1", "Borscht", "beet soup", "7,50"},
		{"", "", "1.1.2", "Okroshka", "cold soup", "6.00"},
		{"", "1.2", "Drinks", "no alcohol"},
		{"", "", "1.2.1", "Tea", "black", "2.00"},
	}
}

func TestRunOnce_BootstrapsEmptyCatalog(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.run(t, lunchRows())

	menus, err := h.menus.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 1)

	lunch := menus[0]
	assert.Equal(t, "Lunch", lunch.Title)
	assert.Equal(t, 2, lunch.SubmenuCount)
	assert.Equal(t, 3, lunch.DishCount)
	require.Len(t, lunch.Submenus, 2)
	assert.Equal(t, "Soups", lunch.Submenus[0].Title)
	assert.Equal(t, "7.50", lunch.Submenus[0].Dishes[0].Price)
}

func TestRunOnce_Idempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.run(t, lunchRows())

	before, err := h.repo.ListMenuIDs(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)

	h.run(t, lunchRows())

	after, err := h.repo.ListMenuIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a confirmed menu must keep its identity across runs")
}

func TestRunOnce_ReorderedFeedKeepsIdentity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.run(t, lunchRows())
	before, err := h.repo.ListMenuIDs(ctx)
	require.NoError(t, err)

	// Same content, submenus and dishes swapped around.
	h.run(t, [][]string{
		{"1", "Lunch", "weekday card"},
		{"", "1.1", "Drinks", "no alcohol"},
		{"", "", "1.1.1", "Tea", "black", "2.00"},
		{"", "1.2", "Soups", "hot"},
		{"", "", "1.2.1", "Okroshka", "cold soup", "6.00"},
		{"", "", "1.2.2", "Borscht", "beet soup", "7,50"},
	})

	after, err := h.repo.ListMenuIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "reordering alone must not force a replacement")
}

func TestRunOnce_ReplacesDriftedMenu(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.run(t, lunchRows())
	before, err := h.repo.ListMenuIDs(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)

	// Same natural key, one price changed.
	changed := lunchRows()
	changed[2][5] = "8,00"
	h.run(t, changed)

	after, err := h.repo.ListMenuIDs(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.NotEqual(t, before[0], after[0], "a drifted menu is replaced, not patched")

	menu, err := h.menus.Read(ctx, after[0])
	require.NoError(t, err)
	assert.Equal(t, "8.00", menu.Submenus[0].Dishes[0].Price)
}

func TestRunOnce_DeletesUnconfirmedMenu(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.run(t, lunchRows())
	h.run(t, [][]string{
		{"1", "Dinner", "evening card"},
	})

	menus, err := h.menus.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "Dinner", menus[0].Title)
}

func TestRunOnce_EmptyFeedClearsCatalog(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.run(t, lunchRows())
	h.run(t, nil)

	menus, err := h.menus.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, menus)
}

func TestRunOnce_AppliesSaleFromFeed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rows := lunchRows()
	// Discount Borscht by 20% on its own row.
	rows[2] = []string{"", "", "1.1.1", "Borscht", "beet soup", "10,00", "20"}
	h.run(t, rows)

	ids, err := h.repo.ListMenuIDs(ctx)
	require.NoError(t, err)
	menu, err := h.menus.Read(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "8.00", menu.Submenus[0].Dishes[0].Price)

	// The raw view keeps the base price so the next diff still matches.
	raw, err := h.menus.ReadRaw(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "10.00", raw.Submenus[0].Dishes[0].Price)

	// And the discounted menu is still confirmed by the unchanged feed.
	h.run(t, rows)
	after, err := h.repo.ListMenuIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids, after)

	// Dropping the sale (back to the 7.50 base feed) replaces the menu and
	// restores the undiscounted price.
	h.run(t, lunchRows())
	final, err := h.repo.ListMenuIDs(ctx)
	require.NoError(t, err)
	require.Len(t, final, 1)
	menu, err = h.menus.Read(ctx, final[0])
	require.NoError(t, err)
	assert.Equal(t, "7.50", menu.Submenus[0].Dishes[0].Price)
}

func TestStartStop(t *testing.T) {
	h := newHarness(t)
	h.fetcher.rows = nil

	require.NoError(t, h.service.Start(context.Background()))
	assert.Error(t, h.service.Start(context.Background()), "double start must fail")
	h.service.Stop()
	h.service.Stop() // second stop is a no-op
}

func TestStart_Disabled(t *testing.T) {
	h := newHarness(t)
	h.service.config.Enabled = false

	require.NoError(t, h.service.Start(context.Background()))
	h.service.Stop()
}
