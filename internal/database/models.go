package database

import (
	"time"
)

// Menu represents a stored menu row. Submenus is populated only by the
// eager-loading read paths.
type Menu struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	Submenus []*Submenu
}

// Submenu represents a stored submenu row belonging to one menu.
type Submenu struct {
	ID          string    `db:"id"`
	MenuID      string    `db:"menu_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	Dishes []*Dish
}

// Dish represents a stored dish row belonging to one submenu.
type Dish struct {
	ID          string    `db:"id"`
	SubmenuID   string    `db:"submenu_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// MenuCounts holds the aggregate counts computed for a single menu together
// with the menu's own fields.
type MenuCounts struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Submenus    int    `db:"submenu_count"`
	Dishes      int    `db:"dish_count"`
}
