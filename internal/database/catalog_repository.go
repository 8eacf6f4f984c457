package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CatalogRepository handles catalog database operations for menus, submenus
// and dishes. Lookups that miss return (nil, nil) so callers decide how a
// missing row is surfaced.
type CatalogRepository struct {
	db interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Menu operations

// CreateMenu inserts a new menu row and returns it with an empty submenu set
func (r *CatalogRepository) CreateMenu(ctx context.Context, title, description string) (*Menu, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO menus (id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, datetime('now'), datetime('now'))
	`

	if _, err := r.db.ExecContext(ctx, query, id, title, description); err != nil {
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}

	return r.GetMenu(ctx, id)
}

// GetMenu retrieves a menu with its full submenu/dish subtree eager-loaded
func (r *CatalogRepository) GetMenu(ctx context.Context, id string) (*Menu, error) {
	query := `
		SELECT id, title, description, created_at, updated_at
		FROM menus WHERE id = ?
	`

	var menu Menu
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&menu.ID, &menu.Title, &menu.Description, &menu.CreatedAt, &menu.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	submenus, err := r.ListSubmenus(ctx, id)
	if err != nil {
		return nil, err
	}
	menu.Submenus = submenus

	return &menu, nil
}

// MenuExists reports whether a menu row with the given id exists
func (r *CatalogRepository) MenuExists(ctx context.Context, id string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM menus WHERE id = ? LIMIT 1`, id).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check menu existence: %w", err)
	}
	return true, nil
}

// ListMenus retrieves all menus with their subtrees eager-loaded
func (r *CatalogRepository) ListMenus(ctx context.Context) ([]*Menu, error) {
	query := `
		SELECT id, title, description, created_at, updated_at
		FROM menus ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer rows.Close()

	menus := make([]*Menu, 0)
	for rows.Next() {
		var menu Menu
		if err := rows.Scan(&menu.ID, &menu.Title, &menu.Description, &menu.CreatedAt, &menu.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu row: %w", err)
		}
		menus = append(menus, &menu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu rows: %w", err)
	}

	for _, menu := range menus {
		submenus, err := r.ListSubmenus(ctx, menu.ID)
		if err != nil {
			return nil, err
		}
		menu.Submenus = submenus
	}

	return menus, nil
}

// ListMenuIDs returns the ids of every stored menu
func (r *CatalogRepository) ListMenuIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM menus ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan menu id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu ids: %w", err)
	}

	return ids, nil
}

// UpdateMenu replaces the mutable fields of a menu and returns the updated
// row, or (nil, nil) when the id does not resolve
func (r *CatalogRepository) UpdateMenu(ctx context.Context, id, title, description string) (*Menu, error) {
	query := `
		UPDATE menus SET title = ?, description = ?, updated_at = datetime('now')
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, title, description, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update menu: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetMenu(ctx, id)
}

// DeleteMenu removes a menu row; submenus and dishes cascade at the store
func (r *CatalogRepository) DeleteMenu(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete menu: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// MenuCounts computes the submenu and dish counts for a menu, or (nil, nil)
// when the menu does not exist
func (r *CatalogRepository) MenuCounts(ctx context.Context, id string) (*MenuCounts, error) {
	query := `
		SELECT m.id, m.title, m.description, COUNT(DISTINCT s.id), COUNT(DISTINCT d.id)
		FROM menus m
		LEFT JOIN submenus s ON s.menu_id = m.id
		LEFT JOIN dishes d ON d.submenu_id = s.id
		WHERE m.id = ?
		GROUP BY m.id
	`

	var counts MenuCounts
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&counts.ID, &counts.Title, &counts.Description, &counts.Submenus, &counts.Dishes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to count menu children: %w", err)
	}

	return &counts, nil
}

// FindMenuByTitle resolves a menu id by its (title, description) natural key.
// Returns an empty id when no menu matches. First match wins when the natural
// key is ambiguous.
func (r *CatalogRepository) FindMenuByTitle(ctx context.Context, title, description string) (string, error) {
	query := `SELECT id FROM menus WHERE title = ? AND description = ? ORDER BY rowid LIMIT 1`

	var id string
	err := r.db.QueryRowContext(ctx, query, title, description).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to find menu by natural key: %w", err)
	}

	return id, nil
}

// Submenu operations

// CreateSubmenu inserts a new submenu row under the given menu
func (r *CatalogRepository) CreateSubmenu(ctx context.Context, menuID, title, description string) (*Submenu, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO submenus (id, menu_id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'), datetime('now'))
	`

	if _, err := r.db.ExecContext(ctx, query, id, menuID, title, description); err != nil {
		return nil, fmt.Errorf("failed to create submenu: %w", err)
	}

	return r.GetSubmenu(ctx, id)
}

// GetSubmenu retrieves a submenu with its dishes eager-loaded
func (r *CatalogRepository) GetSubmenu(ctx context.Context, id string) (*Submenu, error) {
	query := `
		SELECT id, menu_id, title, description, created_at, updated_at
		FROM submenus WHERE id = ?
	`

	var submenu Submenu
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&submenu.ID, &submenu.MenuID, &submenu.Title, &submenu.Description,
		&submenu.CreatedAt, &submenu.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submenu: %w", err)
	}

	dishes, err := r.ListDishes(ctx, id)
	if err != nil {
		return nil, err
	}
	submenu.Dishes = dishes

	return &submenu, nil
}

// SubmenuExists reports whether a submenu row with the given id exists
func (r *CatalogRepository) SubmenuExists(ctx context.Context, id string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM submenus WHERE id = ? LIMIT 1`, id).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check submenu existence: %w", err)
	}
	return true, nil
}

// ListSubmenus retrieves all submenus of a menu with dishes eager-loaded,
// preserving insertion order
func (r *CatalogRepository) ListSubmenus(ctx context.Context, menuID string) ([]*Submenu, error) {
	query := `
		SELECT id, menu_id, title, description, created_at, updated_at
		FROM submenus WHERE menu_id = ? ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submenus: %w", err)
	}
	defer rows.Close()

	submenus := make([]*Submenu, 0)
	for rows.Next() {
		var submenu Submenu
		if err := rows.Scan(&submenu.ID, &submenu.MenuID, &submenu.Title, &submenu.Description,
			&submenu.CreatedAt, &submenu.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submenu row: %w", err)
		}
		submenus = append(submenus, &submenu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submenu rows: %w", err)
	}

	for _, submenu := range submenus {
		dishes, err := r.ListDishes(ctx, submenu.ID)
		if err != nil {
			return nil, err
		}
		submenu.Dishes = dishes
	}

	return submenus, nil
}

// UpdateSubmenu replaces the mutable fields of a submenu, or returns
// (nil, nil) when the id does not resolve
func (r *CatalogRepository) UpdateSubmenu(ctx context.Context, id, title, description string) (*Submenu, error) {
	query := `
		UPDATE submenus SET title = ?, description = ?, updated_at = datetime('now')
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, title, description, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update submenu: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetSubmenu(ctx, id)
}

// DeleteSubmenu removes a submenu row; dishes cascade at the store
func (r *CatalogRepository) DeleteSubmenu(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM submenus WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete submenu: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// Dish operations

// CreateDish inserts a new dish row under the given submenu
func (r *CatalogRepository) CreateDish(ctx context.Context, submenuID, title, description string, price float64) (*Dish, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO dishes (id, submenu_id, title, description, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, datetime('now'), datetime('now'))
	`

	if _, err := r.db.ExecContext(ctx, query, id, submenuID, title, description, price); err != nil {
		return nil, fmt.Errorf("failed to create dish: %w", err)
	}

	return r.GetDish(ctx, id)
}

// GetDish retrieves a single dish row
func (r *CatalogRepository) GetDish(ctx context.Context, id string) (*Dish, error) {
	query := `
		SELECT id, submenu_id, title, description, price, created_at, updated_at
		FROM dishes WHERE id = ?
	`

	var dish Dish
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&dish.ID, &dish.SubmenuID, &dish.Title, &dish.Description, &dish.Price,
		&dish.CreatedAt, &dish.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}

	return &dish, nil
}

// ListDishes retrieves all dishes of a submenu preserving insertion order
func (r *CatalogRepository) ListDishes(ctx context.Context, submenuID string) ([]*Dish, error) {
	query := `
		SELECT id, submenu_id, title, description, price, created_at, updated_at
		FROM dishes WHERE submenu_id = ? ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query, submenuID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	defer rows.Close()

	dishes := make([]*Dish, 0)
	for rows.Next() {
		var dish Dish
		if err := rows.Scan(&dish.ID, &dish.SubmenuID, &dish.Title, &dish.Description, &dish.Price,
			&dish.CreatedAt, &dish.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dish row: %w", err)
		}
		dishes = append(dishes, &dish)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dish rows: %w", err)
	}

	return dishes, nil
}

// UpdateDish replaces the mutable fields of a dish, or returns (nil, nil)
// when the id does not resolve
func (r *CatalogRepository) UpdateDish(ctx context.Context, id, title, description string, price float64) (*Dish, error) {
	query := `
		UPDATE dishes SET title = ?, description = ?, price = ?, updated_at = datetime('now')
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, title, description, price, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update dish: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetDish(ctx, id)
}

// DeleteDish removes a dish row
func (r *CatalogRepository) DeleteDish(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM dishes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete dish: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// FindDishByTitle resolves a dish id by its (title, description) natural key.
// Returns an empty id when no dish matches.
func (r *CatalogRepository) FindDishByTitle(ctx context.Context, title, description string) (string, error) {
	query := `SELECT id FROM dishes WHERE title = ? AND description = ? ORDER BY rowid LIMIT 1`

	var id string
	err := r.db.QueryRowContext(ctx, query, title, description).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to find dish by natural key: %w", err)
	}

	return id, nil
}
