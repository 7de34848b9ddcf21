package domain

import (
	"encoding/json"
	"math"
)

// The slot payload is a JSON array of cart lines, so the line carries
// the wire tags directly.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// A Cart is an ordered sequence of lines, insertion order is first-add
// order. At most one line exists per product id.
type Cart struct {
	lines []CartLine
}

func NewCart(lines ...CartLine) Cart {
	return Cart{lines: lines}
}

// Add increments the quantity of an existing line for the product id,
// or appends a new line with quantity 1.
func (c *Cart) Add(p Product) {
	for i := range c.lines {
		if c.lines[i].ID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, CartLine{Product: p, Quantity: 1})
}

// Remove deletes the line with the given product id. Removing an
// absent id is a no-op.
func (c *Cart) Remove(productID int) {
	for i := range c.lines {
		if c.lines[i].ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c Cart) Lines() []CartLine {
	return c.lines
}

func (c Cart) Empty() bool {
	return len(c.lines) == 0
}

// Total is the sum of price times quantity over all lines, 0 for an
// empty cart.
func (c Cart) Total() (total float64) {
	for _, l := range c.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (c Cart) ItemCount() (n int) {
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// AmountCents is the cart total expressed in minor currency units.
func (c Cart) AmountCents() int64 {
	return int64(math.Round(c.Total() * 100))
}

// MarshalJSON encodes the cart as a bare array of lines, the slot
// payload format.
func (c Cart) MarshalJSON() ([]byte, error) {
	if c.lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.lines)
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	c.lines = lines
	return nil
}
