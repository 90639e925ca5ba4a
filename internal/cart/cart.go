// Package cart holds the shopper's cart: line items keyed by product and
// variant, kept client-side between requests.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxQuantity is the most units a single line can hold.
	MaxQuantity = 99
	// MaxLines bounds distinct lines so an encoded cart fits in a cookie.
	MaxLines = 20
)

var (
	ErrLineNotFound = errors.New("cart line not found")
	ErrTooMany      = fmt.Errorf("at most %d units per line", MaxQuantity)
	ErrFull         = errors.New("cart is full")
)

// LineItem is a product plus the chosen color/size and a quantity.
type LineItem struct {
	ProductID uint   `json:"p"`
	Color     string `json:"c,omitempty"`
	Size      string `json:"s,omitempty"`
	Quantity  int    `json:"q"`
}

// Key identifies the line: product and variant.
func (li LineItem) Key() string {
	return fmt.Sprintf("%d:%s:%s", li.ProductID, li.Color, li.Size)
}

// ParseKey splits a Key back into its parts.
func ParseKey(key string) (LineItem, error) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return LineItem{}, fmt.Errorf("bad cart key %q", key)
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || id == 0 {
		return LineItem{}, fmt.Errorf("bad cart key %q", key)
	}
	return LineItem{ProductID: uint(id), Color: parts[1], Size: parts[2]}, nil
}

// Cart is an ordered list of line items with unique keys.
type Cart struct {
	items []LineItem
}

// Add merges item into the line with the same key, or appends it.
// Quantities below one count as one and line totals stop at MaxQuantity.
// A new line beyond MaxLines is refused with ErrFull.
func (c *Cart) Add(item LineItem) (LineItem, error) {
	item.Quantity = clamp(item.Quantity)
	if i := c.index(item.Key()); i >= 0 {
		c.items[i].Quantity = clamp(c.items[i].Quantity + item.Quantity)
		return c.items[i], nil
	}
	if len(c.items) >= MaxLines {
		return item, ErrFull
	}
	c.items = append(c.items, item)
	return item, nil
}

func clamp(q int) int {
	switch {
	case q < 1:
		return 1
	case q > MaxQuantity:
		return MaxQuantity
	}
	return q
}

// Update sets the quantity of a line; zero or less removes it.
func (c *Cart) Update(key string, qty int) error {
	if qty > MaxQuantity {
		return ErrTooMany
	}
	i := c.index(key)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return nil
	}
	c.items[i].Quantity = qty
	return nil
}

// Remove drops a line. Removing a missing line is not an error.
func (c *Cart) Remove(key string) {
	if i := c.index(key); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

func (c *Cart) Clear() { c.items = nil }

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Len() int { return len(c.items) }

// Lines returns a copy of the line items in insertion order.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Retain keeps only the lines keep returns true for.
func (c *Cart) Retain(keep func(LineItem) bool) {
	out := c.items[:0]
	for _, it := range c.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	c.items = out
}

func (c *Cart) index(key string) int {
	for i, it := range c.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// Encode serializes the cart for the session cookie.
func (c *Cart) Encode() string {
	if len(c.items) == 0 {
		return ""
	}
	b, _ := json.Marshal(c.items)
	return string(b)
}

// Decode reads an encoded cart. Anything unreadable yields an empty cart;
// invalid lines are dropped, duplicate keys merged and lines past MaxLines
// ignored.
func Decode(s string) *Cart {
	c := &Cart{}
	if s == "" {
		return c
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return c
	}
	for _, it := range items {
		if it.ProductID == 0 || it.Quantity < 1 {
			continue
		}
		_, _ = c.Add(it)
	}
	return c
}
