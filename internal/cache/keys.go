package cache

// Cache key scheme. Entity keys are the bare entity id; aggregate keys are
// derived views that must be invalidated whenever any entity they embed
// changes. Every key is a distinct, fully delimited string.
const (
	// MenusKey holds the serialized list of all menus with nested subtrees.
	MenusKey = "menus"
	// SalesKey holds the dish id to discount percentage mapping.
	SalesKey = "sales_data"
)

// CountsKey returns the aggregate key for a menu's submenu/dish counts.
func CountsKey(menuID string) string {
	return menuID + "_counts"
}

// SubmenusKey returns the aggregate key for a menu's submenu list.
func SubmenusKey(menuID string) string {
	return menuID + "_submenus"
}

// DishesKey returns the aggregate key for a submenu's dish list.
func DishesKey(submenuID string) string {
	return submenuID + "_dishes"
}
