package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusPlaced, StatusPreparing, StatusReady, StatusDelivering, StatusDelivered} {
		assert.True(t, ValidStatus(s), "%s", s)
	}
	assert.False(t, ValidStatus("placed"), "statuses are case-sensitive canonical values")
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Shipped"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleCustomer))
	assert.True(t, ValidRole(RoleDriver))
	assert.True(t, ValidRole(RoleManager))
	assert.False(t, ValidRole("admin"))
}

func TestCanManageOrders(t *testing.T) {
	assert.False(t, RoleCustomer.CanManageOrders())
	assert.True(t, RoleDriver.CanManageOrders())
	assert.True(t, RoleManager.CanManageOrders())
}

func TestResolvedLineSubtotal(t *testing.T) {
	l := ResolvedLine{ItemName: "Margherita", Quantity: 3, UnitPrice: decimal.RequireFromString("8.99")}
	assert.True(t, l.Subtotal().Equal(decimal.RequireFromString("26.97")))
}

func TestCancelledOutcome(t *testing.T) {
	err := Cancelled("no items selected")
	assert.True(t, IsCancelled(err))
	assert.Contains(t, err.Error(), "no items selected")

	assert.False(t, IsCancelled(errors.New("boom")))
	assert.True(t, IsCancelled(fmt.Errorf("wrapped: %w", err)))
}
