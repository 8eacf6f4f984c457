package sheet

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/dinecat/dinecat/internal/sales"
)

// Menu is a menu as declared by the sheet, with its subtree in feed order.
type Menu struct {
	Title       string
	Description string
	Submenus    []Submenu
}

// Submenu is a submenu row with its dishes.
type Submenu struct {
	Title       string
	Description string
	Dishes      []Dish
}

// Dish is a dish row. Price is already normalized to a float.
type Dish struct {
	Title       string
	Description string
	Price       float64
}

// Feed is the parsed sheet: the desired catalog plus the sale records.
type Feed struct {
	Menus []Menu
	Sales []sales.Record
}

// Parser turns raw sheet rows into a Feed. Malformed rows are logged and
// skipped so one bad cell cannot sink a whole run.
type Parser struct {
	log *slog.Logger
}

// NewParser creates a new sheet parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default().With("component", "sheet-parser")
	}
	return &Parser{log: logger}
}

// Parse walks the rows top to bottom. The leftmost populated column decides
// the row's kind: column 0 starts a menu, column 1 a submenu under the
// current menu, column 2 a dish under the current submenu. A populated
// column 6 additionally declares a sale on the row's dish, so a single row
// can carry both a dish and its discount.
func (p *Parser) Parse(rows [][]string) *Feed {
	feed := &Feed{}

	for i, row := range rows {
		switch {
		case cell(row, 0) != "":
			feed.Menus = append(feed.Menus, Menu{
				Title:       cell(row, 1),
				Description: cell(row, 2),
			})

		case cell(row, 1) != "":
			if len(feed.Menus) == 0 {
				p.log.Warn("submenu row without a menu, skipping", "row", i)
				continue
			}
			menu := &feed.Menus[len(feed.Menus)-1]
			menu.Submenus = append(menu.Submenus, Submenu{
				Title:       cell(row, 2),
				Description: cell(row, 3),
			})

		case cell(row, 2) != "":
			submenu := p.currentSubmenu(feed)
			if submenu == nil {
				p.log.Warn("dish row without a submenu, skipping", "row", i)
				continue
			}
			price, err := parseDecimal(cell(row, 5))
			if err != nil {
				p.log.Warn("dish row has a malformed price, skipping",
					"row", i, "title", cell(row, 3), "price", cell(row, 5))
				continue
			}
			submenu.Dishes = append(submenu.Dishes, Dish{
				Title:       cell(row, 3),
				Description: cell(row, 4),
				Price:       price,
			})
		}

		if cell(row, 6) != "" {
			discount, err := parseDecimal(cell(row, 6))
			if err != nil {
				p.log.Warn("sale row has a malformed discount, skipping",
					"row", i, "title", cell(row, 3), "discount", cell(row, 6))
				continue
			}
			feed.Sales = append(feed.Sales, sales.Record{
				Title:       cell(row, 3),
				Description: cell(row, 4),
				Discount:    discount,
			})
		}
	}

	return feed
}

func (p *Parser) currentSubmenu(feed *Feed) *Submenu {
	if len(feed.Menus) == 0 {
		return nil
	}
	menu := &feed.Menus[len(feed.Menus)-1]
	if len(menu.Submenus) == 0 {
		return nil
	}
	return &menu.Submenus[len(menu.Submenus)-1]
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseDecimal accepts both dot and comma decimal separators, as sheet
// editors tend to mix locales.
func parseDecimal(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}
