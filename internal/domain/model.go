package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleManager  Role = "manager"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleManager:
		return true
	}
	return false
}

// CanManageOrders reports whether the role may change order statuses
// and inspect orders it does not own.
func (r Role) CanManageOrders() bool { return r == RoleDriver || r == RoleManager }

type OrderStatus string

const (
	StatusPlaced     OrderStatus = "Placed"
	StatusPreparing  OrderStatus = "Preparing"
	StatusReady      OrderStatus = "Ready"
	StatusDelivering OrderStatus = "Delivering"
	StatusDelivered  OrderStatus = "Delivered"
)

// ValidStatus reports whether s is one of the five canonical order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPlaced, StatusPreparing, StatusReady, StatusDelivering, StatusDelivered:
		return true
	}
	return false
}

// Actor is the identity a workflow operation executes under, resolved
// once at login and passed explicitly into every service call.
type Actor struct {
	Login string
	Role  Role
}

type User struct {
	Login        string
	PasswordHash string
	Role         Role
	FavoriteItem *string
	Phone        string
}

type Item struct {
	Name        string
	Type        string
	Price       decimal.Decimal
	Description string
	Ingredients string
}

type Store struct {
	ID          int
	Address     string
	City        string
	State       string
	IsOpen      bool
	ReviewScore float64
}

type Order struct {
	ID        int
	Login     string
	StoreID   int
	Total     decimal.Decimal
	Timestamp time.Time
	Status    OrderStatus
}

// OrderLine is one distinct item of an order. Lines are written at
// checkout and never mutated afterwards.
type OrderLine struct {
	OrderID  int
	ItemName string
	Quantity int
}
