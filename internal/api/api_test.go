package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinecat/dinecat/internal/cache"
	"github.com/dinecat/dinecat/internal/catalog"
	"github.com/dinecat/dinecat/internal/database"
)

func newTestApp(t *testing.T) *fiber.App {
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

	menus := catalog.NewMenuService(db.Catalog, client, inv, nil, nil)
	submenus := catalog.NewSubmenuService(db.Catalog, client, inv, nil, nil)
	dishes := catalog.NewDishService(db.Catalog, client, inv, nil, nil)

	app := fiber.New()
	NewServer(nil, menus, submenus, dishes, nil).RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp, result
}

func data(t *testing.T, result map[string]any) map[string]any {
	t.Helper()

	payload, ok := result["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", result)
	return payload
}

func createMenu(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, result := doJSON(t, app, http.MethodPost, "/api/v1/menus/", map[string]string{
		"title":       "Lunch",
		"description": "weekday card",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return data(t, result)["id"].(string)
}

func createSubmenu(t *testing.T, app *fiber.App, menuID string) string {
	t.Helper()

	resp, result := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%s/submenus/", menuID),
		map[string]string{"title": "Soups", "description": "hot"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return data(t, result)["id"].(string)
}

func TestMenuEndpoints(t *testing.T) {
	app := newTestApp(t)

	menuID := createMenu(t, app)

	resp, result := doJSON(t, app, http.MethodGet, "/api/v1/menus/"+menuID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, result["success"])
	menu := data(t, result)
	assert.Equal(t, "Lunch", menu["title"])
	assert.Equal(t, float64(0), menu["submenus_count"])

	resp, result = doJSON(t, app, http.MethodPatch, "/api/v1/menus/"+menuID, map[string]string{
		"title":       "Dinner",
		"description": "evening card",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Dinner", data(t, result)["title"])

	resp, result = doJSON(t, app, http.MethodDelete, "/api/v1/menus/"+menuID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "menu deleted", result["message"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/menus/"+menuID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMenuNotFoundShape(t *testing.T) {
	app := newTestApp(t)

	resp, result := doJSON(t, app, http.MethodGet, "/api/v1/menus/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, result["success"])

	apiErr, ok := result["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, apiErr["code"])
	assert.Equal(t, "menu not found", apiErr["message"])
}

func TestMenuCountsEndpoint(t *testing.T) {
	app := newTestApp(t)

	menuID := createMenu(t, app)
	submenuID := createSubmenu(t, app, menuID)

	resp, _ := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%s/submenus/%s/dishes/", menuID, submenuID),
		map[string]string{"title": "Borscht", "description": "beet soup", "price": "7.50"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, result := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/menus/%s/counts", menuID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	counts := data(t, result)
	assert.Equal(t, float64(1), counts["submenus_count"])
	assert.Equal(t, float64(1), counts["dishes_count"])
}

func TestSubmenuCreate_UnknownMenuIs404(t *testing.T) {
	app := newTestApp(t)

	resp, result := doJSON(t, app, http.MethodPost, "/api/v1/menus/nope/submenus/",
		map[string]string{"title": "Soups"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	apiErr := result["error"].(map[string]any)
	assert.Equal(t, "menu not found", apiErr["message"])
}

func TestDishEndpoints(t *testing.T) {
	app := newTestApp(t)

	menuID := createMenu(t, app)
	submenuID := createSubmenu(t, app, menuID)
	base := fmt.Sprintf("/api/v1/menus/%s/submenus/%s/dishes/", menuID, submenuID)

	resp, result := doJSON(t, app, http.MethodPost, base,
		map[string]string{"title": "Borscht", "description": "beet soup", "price": "7.5"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	dish := data(t, result)
	assert.Equal(t, "7.50", dish["price"], "price must render with two decimals")
	dishID := dish["id"].(string)

	resp, result = doJSON(t, app, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	list, ok := result["data"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)

	resp, result = doJSON(t, app, http.MethodPatch, base+dishID,
		map[string]string{"title": "Borscht", "description": "beet soup", "price": "8.00"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "8.00", data(t, result)["price"])

	resp, result = doJSON(t, app, http.MethodDelete, base+dishID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dish deleted", result["message"])
}

func TestDishCreate_InvalidPriceIs400(t *testing.T) {
	app := newTestApp(t)

	menuID := createMenu(t, app)
	submenuID := createSubmenu(t, app, menuID)

	resp, result := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/v1/menus/%s/submenus/%s/dishes/", menuID, submenuID),
		map[string]string{"title": "Borscht", "price": "free"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	apiErr := result["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, apiErr["code"])
}

func TestDishList_UnknownSubmenuIsEmpty(t *testing.T) {
	app := newTestApp(t)
	menuID := createMenu(t, app)

	resp, result := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/v1/menus/%s/submenus/nope/dishes/", menuID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list, ok := result["data"].([]any)
	require.True(t, ok)
	assert.Empty(t, list)
}
