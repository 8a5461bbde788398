package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one requested (item, quantity) pair as entered by the
// operator, before the item is resolved against the menu.
type CartLine struct {
	ItemName string
	Quantity int
}

// ResolvedLine is a cart line whose item exists on the menu; UnitPrice
// is the price read at resolution time and is the price the order is
// charged at, regardless of later menu updates.
type ResolvedLine struct {
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal is UnitPrice × Quantity.
func (l ResolvedLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Receipt is the result of a successful checkout.
type Receipt struct {
	OrderID int
	Total   decimal.Decimal
	Status  OrderStatus
}

// OrderDetail is an order together with its lines, as returned by the
// lookup workflow.
type OrderDetail struct {
	Order Order
	Lines []OrderLine
}

// OrderSummary is one row of an order-history listing.
type OrderSummary struct {
	OrderID   int
	Login     string
	StoreID   int
	Total     decimal.Decimal
	Timestamp time.Time
	Status    OrderStatus
}

// ItemFilter narrows and orders a menu listing. The zero value lists
// the full menu grouped by type.
type ItemFilter struct {
	Type     string           // substring match on item type, case-insensitive
	MinPrice *decimal.Decimal // inclusive
	MaxPrice *decimal.Decimal // inclusive
	Sort     ItemSort
}

type ItemSort int

const (
	SortByType ItemSort = iota // type, then name
	SortPriceAsc
	SortPriceDesc
)
