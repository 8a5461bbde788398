package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pizza-store/internal/common/logger"
	"pizza-store/internal/domain"
	"pizza-store/internal/events"
	"pizza-store/internal/repository"
)

// PlaceOrderRequest carries a checkout attempt. The two callbacks let
// the calling collaborator (the console driver, a test) stay in the
// loop without the workflow knowing anything about terminals.
type PlaceOrderRequest struct {
	StoreID int
	Lines   []domain.CartLine

	// ConfirmClosedStore is consulted when the selected store is closed.
	// Checkout proceeds only on true; nil declines.
	ConfirmClosedStore func(domain.Store) bool

	// ReportLineError receives per-line resolution failures. Failed
	// lines are dropped and checkout continues with the rest.
	ReportLineError func(domain.CartLine, error)
}

type OrderService struct {
	orders repository.OrderRepository
	items  repository.ItemRepository
	stores repository.StoreRepository
	pub    *events.Publisher
	lg     *logger.Logger
	now    func() time.Time
}

func NewOrderService(orders repository.OrderRepository, items repository.ItemRepository,
	stores repository.StoreRepository, pub *events.Publisher, lg *logger.Logger,
	now func() time.Time) *OrderService {
	return &OrderService{orders: orders, items: items, stores: stores, pub: pub, lg: lg, now: now}
}

// PlaceOrder runs the checkout workflow: store validation, per-line item
// resolution, total computation at purchase-time prices, and a single
// all-or-nothing persistence step.
func (s *OrderService) PlaceOrder(ctx context.Context, actor domain.Actor, req PlaceOrderRequest) (domain.Receipt, error) {
	if actor.Login == "" {
		return domain.Receipt{}, fmt.Errorf("place order: %w", domain.ErrNotAuthenticated)
	}

	store, err := s.stores.GetByID(ctx, req.StoreID)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("store %d: %w", req.StoreID, err)
	}
	if !store.IsOpen {
		if req.ConfirmClosedStore == nil || !req.ConfirmClosedStore(store) {
			return domain.Receipt{}, domain.Cancelled(fmt.Sprintf("store %d is closed", store.ID))
		}
	}

	lines, err := s.resolveCart(ctx, req)
	if err != nil {
		return domain.Receipt{}, err
	}
	if len(lines) == 0 {
		return domain.Receipt{}, domain.Cancelled("no items selected")
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}

	orderID, err := s.orders.Create(ctx, actor.Login, store.ID, total, s.now(), lines)
	if err != nil {
		return domain.Receipt{}, err
	}

	s.lg.Info("order_placed", map[string]any{
		"order_id": orderID, "login": actor.Login, "store_id": store.ID,
		"total": total.StringFixed(2), "lines": len(lines),
	})
	s.pub.OrderCreated(ctx, domain.Order{
		ID: orderID, Login: actor.Login, StoreID: store.ID,
		Total: total, Status: domain.StatusPlaced,
	})

	return domain.Receipt{OrderID: orderID, Total: total, Status: domain.StatusPlaced}, nil
}

// resolveCart resolves each cart line against the menu, reading prices
// as of now. Unknown items and non-positive quantities are reported and
// dropped; duplicate entries of the same item are merged into one line.
func (s *OrderService) resolveCart(ctx context.Context, req PlaceOrderRequest) ([]domain.ResolvedLine, error) {
	report := req.ReportLineError
	if report == nil {
		report = func(domain.CartLine, error) {}
	}

	var (
		resolved []domain.ResolvedLine
		index    = map[string]int{}
	)
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			report(line, fmt.Errorf("quantity must be greater than zero: %w", domain.ErrInvalidArgument))
			continue
		}
		if i, ok := index[line.ItemName]; ok {
			resolved[i].Quantity += line.Quantity
			continue
		}
		item, err := s.items.GetByName(ctx, line.ItemName)
		if err != nil {
			// Item not on the menu is a per-line failure; a store outage
			// aborts the whole checkout.
			if errors.Is(err, domain.ErrNotFound) {
				report(line, err)
				continue
			}
			return nil, err
		}
		index[item.Name] = len(resolved)
		resolved = append(resolved, domain.ResolvedLine{
			ItemName:  item.Name,
			Quantity:  line.Quantity,
			UnitPrice: item.Price,
		})
	}
	return resolved, nil
}

// UpdateStatus sets an order to one of the five canonical statuses.
// Drivers and managers only; no transition ordering is enforced.
func (s *OrderService) UpdateStatus(ctx context.Context, actor domain.Actor, orderID int, status domain.OrderStatus) error {
	if actor.Login == "" {
		return fmt.Errorf("update status: %w", domain.ErrNotAuthenticated)
	}
	if !actor.Role.CanManageOrders() {
		return fmt.Errorf("update status: role %s: %w", actor.Role, domain.ErrPermissionDenied)
	}
	if !domain.ValidStatus(status) {
		return fmt.Errorf("update status: %q is not a valid status: %w", status, domain.ErrInvalidArgument)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	s.lg.Info("order_status_updated", map[string]any{
		"order_id": orderID, "status": string(status), "changed_by": actor.Login,
	})
	login := ""
	if o, err := s.orders.GetByID(ctx, orderID); err == nil {
		login = o.Login
	}
	s.pub.StatusChanged(ctx, orderID, login, status)
	return nil
}

// GetOrder returns an order with its lines. Existence is checked before
// ownership, so an unknown id is always NotFound and a foreign order is
// always PermissionDenied for customers.
func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, orderID int) (domain.OrderDetail, error) {
	if actor.Login == "" {
		return domain.OrderDetail{}, fmt.Errorf("get order: %w", domain.ErrNotAuthenticated)
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.OrderDetail{}, err
	}
	if !actor.Role.CanManageOrders() && order.Login != actor.Login {
		return domain.OrderDetail{}, fmt.Errorf("order %d: %w", orderID, domain.ErrPermissionDenied)
	}
	lines, err := s.orders.GetLines(ctx, orderID)
	if err != nil {
		return domain.OrderDetail{}, err
	}
	return domain.OrderDetail{Order: order, Lines: lines}, nil
}

// ListOrders lists order history. all=true requires driver or manager;
// otherwise the actor sees only their own orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor, all bool) ([]domain.OrderSummary, error) {
	if actor.Login == "" {
		return nil, fmt.Errorf("list orders: %w", domain.ErrNotAuthenticated)
	}
	if all {
		if !actor.Role.CanManageOrders() {
			return nil, fmt.Errorf("list all orders: role %s: %w", actor.Role, domain.ErrPermissionDenied)
		}
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByLogin(ctx, actor.Login, 0)
}

// RecentOrders returns the actor's n most recent orders.
func (s *OrderService) RecentOrders(ctx context.Context, actor domain.Actor, n int) ([]domain.OrderSummary, error) {
	if actor.Login == "" {
		return nil, fmt.Errorf("recent orders: %w", domain.ErrNotAuthenticated)
	}
	if n <= 0 {
		n = 5
	}
	return s.orders.ListByLogin(ctx, actor.Login, n)
}
