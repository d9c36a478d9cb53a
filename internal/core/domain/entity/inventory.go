package entity

import "github.com/shopspring/decimal"

// InventoryItem is a sellable menu item. IsAvailable mirrors Quantity > 0:
// write paths keep the two in sync, read paths tolerate a stale flag.
type InventoryItem struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Quantity    int
	IsAvailable bool
}

// InStock reports whether the item can actually be ordered, re-deriving
// availability from the quantity instead of trusting a possibly stale flag.
func (i InventoryItem) InStock() bool {
	return i.IsAvailable && i.Quantity > 0
}
