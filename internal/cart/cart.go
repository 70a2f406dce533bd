package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

// Line is one (product, quantity) pair. Quantity is always positive; a line
// whose quantity would drop to zero is removed instead.
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Cart aggregates lines in insertion order. It is the only writer of its own
// state; mutations are serialized with a mutex so concurrent callers cannot
// break line uniqueness or the total invariant.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem increments the quantity of an existing line by one, or appends a
// new line with quantity 1. Out-of-stock products are accepted here; stock
// policy is enforced above the aggregator.
func (c *Cart) AddItem(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		UnitPrice: p.Price,
		Quantity:  1,
	})
}

// UpdateQuantity sets the quantity of the line for productID. A quantity of
// zero or less removes the line. Unknown product ids are a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return
	}
}

// RemoveItem removes the line for productID if present.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Restore replaces the cart's contents with the given lines, dropping any
// with a non-positive quantity. Used to rebuild a session from its stored
// snapshot.
func (c *Cart) Restore(lines []Line) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			continue
		}
		c.lines = append(c.lines, ln)
	}
}

// Clear empties all lines.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ItemCount is the sum of all quantities, not the number of distinct lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, ln := range c.lines {
		count += ln.Quantity
	}
	return count
}

// Total is the sum of unit price times quantity over all lines, at full
// precision. Rounding to currency precision happens at presentation time only.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, ln := range c.lines {
		total = total.Add(ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return total
}
