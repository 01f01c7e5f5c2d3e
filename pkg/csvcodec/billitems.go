package csvcodec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BillItem is the item representation carried inside a single CSV cell
// on bill exports. The legacy dashboards wrote items as
// "name (Qty: N, Price: P, Total: T)" joined by semicolons; imports must
// round-trip that format exactly.
type BillItem struct {
	Name     string
	Quantity int
	Price    float64
	Total    float64
}

var billItemRe = regexp.MustCompile(`^(.*) \(Qty: (\d+), Price: ([0-9.]+), Total: ([0-9.]+)\)$`)

// FormatBillItems renders sale items into the legacy cell format.
func FormatBillItems(items []BillItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s (Qty: %d, Price: %s, Total: %s)",
			item.Name,
			item.Quantity,
			formatAmount(item.Price),
			formatAmount(item.Total),
		))
	}
	return strings.Join(parts, "; ")
}

// ParseBillItems parses a bill-item cell back into items.
func ParseBillItems(cell string) ([]BillItem, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}

	parts := strings.Split(cell, "; ")
	items := make([]BillItem, 0, len(parts))
	for _, part := range parts {
		m := billItemRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return nil, fmt.Errorf("malformed bill item %q", part)
		}
		qty, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("malformed quantity in %q", part)
		}
		price, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed price in %q", part)
		}
		total, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed total in %q", part)
		}
		items = append(items, BillItem{
			Name:     m[1],
			Quantity: qty,
			Price:    price,
			Total:    total,
		})
	}
	return items, nil
}

func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
