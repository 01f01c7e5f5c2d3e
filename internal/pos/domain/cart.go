package domain

import "math"

// CartItem is one line of an in-progress sale. UnitPrice starts at the
// catalog price but can be overridden per line.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// Cart assembles line items and derives totals on every mutation.
type Cart struct {
	Items         []CartItem `json:"items"`
	DiscountPct   float64    `json:"discount_pct"`
	TaxRatePct    float64    `json:"tax_rate_pct"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
}

// Totals are fully derived from the cart; recomputed on demand rather
// than stored.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
}

// AddItem appends a line for the product, or bumps the quantity when the
// product is already in the cart.
func (c *Cart) AddItem(productID, name string, unitPrice float64) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity++
			c.Items[i].LineTotal = Round2(c.Items[i].UnitPrice * float64(c.Items[i].Quantity))
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  1,
		LineTotal: Round2(unitPrice),
	})
}

// SetQuantity updates a line's quantity; zero removes the line.
func (c *Cart) SetQuantity(productID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
		c.Items[i].Quantity = quantity
		c.Items[i].LineTotal = Round2(c.Items[i].UnitPrice * float64(quantity))
		return
	}
}

// EditUnitPrice overrides a line's price. This is the manual-discount
// escape hatch: no check against the catalog price.
func (c *Cart) EditUnitPrice(productID string, newPrice float64) {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		c.Items[i].UnitPrice = newPrice
		c.Items[i].LineTotal = Round2(newPrice * float64(c.Items[i].Quantity))
		return
	}
}

// RemoveItem drops a line entirely.
func (c *Cart) RemoveItem(productID string) {
	c.SetQuantity(productID, 0)
}

// Clear empties the cart and resets discount and customer fields.
func (c *Cart) Clear() {
	c.Items = nil
	c.DiscountPct = 0
	c.CustomerName = ""
	c.CustomerPhone = ""
}

func (c *Cart) Empty() bool { return len(c.Items) == 0 }

// Totals derives subtotal, discount, tax and total:
//
//	subtotal       = Σ line totals
//	discountAmount = round2(subtotal * discountPct / 100)
//	tax            = round2((subtotal - discountAmount) * taxRatePct / 100)
//	total          = subtotal - discountAmount + tax
func (c *Cart) Totals() Totals {
	var subtotal float64
	for _, item := range c.Items {
		subtotal += item.LineTotal
	}
	subtotal = Round2(subtotal)
	discount := Round2(subtotal * c.DiscountPct / 100)
	tax := Round2((subtotal - discount) * c.TaxRatePct / 100)
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Tax:            tax,
		Total:          Round2(subtotal - discount + tax),
	}
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
