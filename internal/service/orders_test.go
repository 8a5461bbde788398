package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizza-store/internal/common/logger"
	"pizza-store/internal/domain"
)

var checkoutTime = time.Date(2026, 8, 20, 18, 30, 0, 0, time.UTC)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testMenu() *fakeItemRepo {
	return newFakeItemRepo(
		domain.Item{Name: "Margherita", Type: "pizza", Price: price("8.00")},
		domain.Item{Name: "Pepperoni", Type: "pizza", Price: price("9.50")},
		domain.Item{Name: "Coke", Type: "drink", Price: price("1.50")},
	)
}

func testStores() *fakeStoreRepo {
	return newFakeStoreRepo(
		domain.Store{ID: 1, Address: "1 Main St", City: "Riverside", State: "CA", IsOpen: true},
		domain.Store{ID: 2, Address: "2 Side St", City: "Riverside", State: "CA", IsOpen: false},
	)
}

func newTestOrderService(orders *fakeOrderRepo) *OrderService {
	return NewOrderService(orders, testMenu(), testStores(), nil, logger.New("test"),
		func() time.Time { return checkoutTime })
}

func TestPlaceOrderComputesExactTotal(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	receipt, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID: 1,
		Lines: []domain.CartLine{
			{ItemName: "Margherita", Quantity: 2},
			{ItemName: "Coke", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.True(t, receipt.Total.Equal(price("17.50")), "total = %s", receipt.Total)
	assert.Equal(t, domain.StatusPlaced, receipt.Status)

	order, err := orders.GetByID(context.Background(), receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "alice", order.Login)
	assert.Equal(t, 1, order.StoreID)
	assert.Equal(t, checkoutTime, order.Timestamp)

	lines, err := orders.GetLines(context.Background(), receipt.OrderID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestPlaceOrderChargesPricesAtResolutionTime(t *testing.T) {
	orders := newFakeOrderRepo()
	items := testMenu()
	svc := NewOrderService(orders, items, testStores(), nil, logger.New("test"),
		func() time.Time { return checkoutTime })

	receipt, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID: 1,
		Lines:   []domain.CartLine{{ItemName: "Margherita", Quantity: 1}},
	})
	require.NoError(t, err)

	// The order keeps the total it was charged at even after a reprice.
	require.NoError(t, items.UpdatePrice(context.Background(), "Margherita", price("99.00")))
	order, err := orders.GetByID(context.Background(), receipt.OrderID)
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(price("8.00")))
}

func TestPlaceOrderRequiresLogin(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo())
	_, err := svc.PlaceOrder(context.Background(), domain.Actor{}, PlaceOrderRequest{StoreID: 1})
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestPlaceOrderUnknownStore(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo())
	_, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID: 99,
		Lines:   []domain.CartLine{{ItemName: "Coke", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlaceOrderClosedStoreDeclined(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	_, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID:            2,
		Lines:              []domain.CartLine{{ItemName: "Coke", Quantity: 1}},
		ConfirmClosedStore: func(domain.Store) bool { return false },
	})
	assert.True(t, domain.IsCancelled(err))
	assert.Zero(t, orders.count(), "no rows written on decline")
}

func TestPlaceOrderClosedStoreNilConfirmDeclines(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	_, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID: 2,
		Lines:   []domain.CartLine{{ItemName: "Coke", Quantity: 1}},
	})
	assert.True(t, domain.IsCancelled(err))
	assert.Zero(t, orders.count())
}

func TestPlaceOrderClosedStoreConfirmed(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	var asked domain.Store
	receipt, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID: 2,
		Lines:   []domain.CartLine{{ItemName: "Coke", Quantity: 1}},
		ConfirmClosedStore: func(s domain.Store) bool {
			asked = s
			return true
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, asked.ID)
	assert.True(t, receipt.Total.Equal(price("1.50")))
}

func TestPlaceOrderDropsBadLinesAndContinues(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	var reported []domain.CartLine
	receipt, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID: 1,
		Lines: []domain.CartLine{
			{ItemName: "Calzone", Quantity: 1},    // not on the menu
			{ItemName: "Margherita", Quantity: 0}, // bad quantity
			{ItemName: "Coke", Quantity: 2},
		},
		ReportLineError: func(l domain.CartLine, err error) {
			reported = append(reported, l)
			assert.Error(t, err)
		},
	})
	require.NoError(t, err)
	assert.Len(t, reported, 2)
	assert.True(t, receipt.Total.Equal(price("3.00")))

	lines, _ := orders.GetLines(context.Background(), receipt.OrderID)
	require.Len(t, lines, 1)
	assert.Equal(t, "Coke", lines[0].ItemName)
}

func TestPlaceOrderEmptyResolvedCartCancelled(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	for _, cart := range [][]domain.CartLine{
		nil,
		{{ItemName: "Calzone", Quantity: 1}},
		{{ItemName: "Margherita", Quantity: -3}},
	} {
		_, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{StoreID: 1, Lines: cart})
		assert.True(t, domain.IsCancelled(err), "cart %v", cart)
	}
	assert.Zero(t, orders.count(), "cancelled checkouts must not persist orders")
}

func TestPlaceOrderMergesDuplicateLines(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	receipt, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID: 1,
		Lines: []domain.CartLine{
			{ItemName: "Coke", Quantity: 1},
			{ItemName: "Coke", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.True(t, receipt.Total.Equal(price("4.50")))

	lines, _ := orders.GetLines(context.Background(), receipt.OrderID)
	require.Len(t, lines, 1, "one row per distinct item")
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestConcurrentCheckoutsGetDistinctIDs(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	const n = 32
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			receipt, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
				StoreID: 1,
				Lines:   []domain.CartLine{{ItemName: "Margherita", Quantity: 1}},
			})
			if assert.NoError(t, err) {
				ids <- receipt.OrderID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		assert.False(t, seen[id], "order id %d allocated twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestUpdateStatusDeniedForCustomers(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	receipt, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID: 1,
		Lines:   []domain.CartLine{{ItemName: "Coke", Quantity: 1}},
	})
	require.NoError(t, err)

	for _, status := range []domain.OrderStatus{
		domain.StatusPlaced, domain.StatusPreparing, domain.StatusReady,
		domain.StatusDelivering, domain.StatusDelivered,
	} {
		err := svc.UpdateStatus(context.Background(), customer, receipt.OrderID, status)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied, "status %s", status)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo())

	err := svc.UpdateStatus(context.Background(), driver, 0, "Teleported")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	err = svc.UpdateStatus(context.Background(), driver, 42, domain.StatusReady)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.UpdateStatus(context.Background(), domain.Actor{}, 0, domain.StatusReady)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestDriverStatusUpdateVisibleToOwner(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	receipt, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID: 1,
		Lines:   []domain.CartLine{{ItemName: "Pepperoni", Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), driver, receipt.OrderID, domain.StatusDelivering))

	detail, err := svc.GetOrder(context.Background(), customer, receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivering, detail.Order.Status)
}

func TestGetOrderAuthorization(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)
	bob := domain.Actor{Login: "bob", Role: domain.RoleCustomer}

	receipt, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		StoreID: 1,
		Lines:   []domain.CartLine{{ItemName: "Coke", Quantity: 1}},
	})
	require.NoError(t, err)

	// Owner and staff see the order; another customer never does.
	_, err = svc.GetOrder(context.Background(), customer, receipt.OrderID)
	assert.NoError(t, err)
	_, err = svc.GetOrder(context.Background(), manager, receipt.OrderID)
	assert.NoError(t, err)

	detail, err := svc.GetOrder(context.Background(), bob, receipt.OrderID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Zero(t, detail, "no order data on denial")

	// Unknown ids are NotFound, distinct from PermissionDenied.
	_, err = svc.GetOrder(context.Background(), bob, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestListOrdersRoleGating(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders)

	for i := 0; i < 3; i++ {
		_, err := svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
			StoreID: 1,
			Lines:   []domain.CartLine{{ItemName: "Coke", Quantity: 1}},
		})
		require.NoError(t, err)
	}

	_, err := svc.ListOrders(context.Background(), customer, true)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	mine, err := svc.ListOrders(context.Background(), customer, false)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	all, err := svc.ListOrders(context.Background(), driver, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	recent, err := svc.RecentOrders(context.Background(), customer, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
