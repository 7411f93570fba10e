package analytics

import (
	"fmt"
	"time"

	"invensmart/internal/models"
)

// AllCategories disables the category predicate.
const AllCategories = "All"

// Window is the date-range selector, in days before now.
type Window int

const (
	Window30 Window = 30
	Window60 Window = 60
)

// ParseWindow maps the query-string form ("30d", "60d") to a Window.
func ParseWindow(s string) (Window, error) {
	switch s {
	case "", "30d":
		return Window30, nil
	case "60d":
		return Window60, nil
	default:
		return 0, fmt.Errorf("invalid date range %q, must be 30d or 60d", s)
	}
}

// FilterConfig is the explicit filter selection threaded through every
// computation; there is no ambient filter state.
type FilterConfig struct {
	Window   Window
	Category string
}

// Filter narrows records to those restocked inside the window, and to one
// category unless AllCategories is selected. Rows without a parseable
// restock date never match the window comparison. The result may be empty;
// every engine treats an empty slice as valid input.
func Filter(records []models.InventoryRecord, now time.Time, window Window, category string) []models.InventoryRecord {
	cutoff := now.AddDate(0, 0, -int(window))

	out := make([]models.InventoryRecord, 0, len(records))
	for _, rec := range records {
		if !rec.HasRestock || rec.RestockDate.Before(cutoff) {
			continue
		}
		if category != AllCategories && rec.Category != category {
			continue
		}
		out = append(out, rec)
	}
	return out
}
