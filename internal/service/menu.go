package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pizza-store/internal/common/logger"
	"pizza-store/internal/domain"
	"pizza-store/internal/repository"
)

type MenuService struct {
	items repository.ItemRepository
	lg    *logger.Logger
}

func NewMenuService(items repository.ItemRepository, lg *logger.Logger) *MenuService {
	return &MenuService{items: items, lg: lg}
}

// ListItems is open to everyone, logged in or not.
func (s *MenuService) ListItems(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, fmt.Errorf("list items: min price exceeds max price: %w", domain.ErrInvalidArgument)
	}
	return s.items.List(ctx, f)
}

func (s *MenuService) ItemTypes(ctx context.Context) ([]string, error) {
	return s.items.Types(ctx)
}

// AddItem puts a new item on the menu. Managers only.
func (s *MenuService) AddItem(ctx context.Context, actor domain.Actor, it domain.Item) error {
	if err := requireManager(actor, "add item"); err != nil {
		return err
	}
	it.Name = strings.TrimSpace(it.Name)
	it.Type = strings.TrimSpace(it.Type)
	if it.Name == "" || it.Type == "" {
		return fmt.Errorf("add item: name and type are required: %w", domain.ErrInvalidArgument)
	}
	if it.Price.IsNegative() {
		return fmt.Errorf("add item: price must be non-negative: %w", domain.ErrInvalidArgument)
	}
	if err := s.items.Create(ctx, it); err != nil {
		return err
	}
	s.lg.Info("menu_item_added", map[string]any{"item": it.Name, "price": it.Price.StringFixed(2), "by": actor.Login})
	return nil
}

// UpdatePrice reprices an existing item. Managers only. Already placed
// orders keep the totals they were charged at.
func (s *MenuService) UpdatePrice(ctx context.Context, actor domain.Actor, name string, price decimal.Decimal) error {
	if err := requireManager(actor, "update price"); err != nil {
		return err
	}
	if price.IsNegative() {
		return fmt.Errorf("update price: price must be non-negative: %w", domain.ErrInvalidArgument)
	}
	if err := s.items.UpdatePrice(ctx, name, price); err != nil {
		return err
	}
	s.lg.Info("menu_price_updated", map[string]any{"item": name, "price": price.StringFixed(2), "by": actor.Login})
	return nil
}

// DeleteItem removes an item from the menu. Managers only.
func (s *MenuService) DeleteItem(ctx context.Context, actor domain.Actor, name string) error {
	if err := requireManager(actor, "delete item"); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, name); err != nil {
		return err
	}
	s.lg.Info("menu_item_deleted", map[string]any{"item": name, "by": actor.Login})
	return nil
}
