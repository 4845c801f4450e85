package models

import "time"

// CartLine is one product/quantity pair in a cart. Name and price are
// snapshotted from the catalog at add time so totals can be derived without
// another catalog read.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart holds all lines for a single user.
type Cart struct {
	UserID    string     `json:"user_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Total returns the cart total in major currency units.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// AddLine merges a line into the cart, summing quantities for an existing
// product.
func (c *Cart) AddLine(line CartLine) {
	for i, existing := range c.Lines {
		if existing.ProductID == line.ProductID {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// RemoveLine drops every line for the given product. Returns true if
// anything was removed.
func (c *Cart) RemoveLine(productID string) bool {
	kept := c.Lines[:0]
	removed := false
	for _, line := range c.Lines {
		if line.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	c.Lines = kept
	return removed
}

// Quantity returns how many units of a product are currently in the cart.
func (c *Cart) Quantity(productID string) int {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}
