package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"pizza-store/internal/domain"
)

// Actors shared by the workflow tests.
var (
	customer = domain.Actor{Login: "alice", Role: domain.RoleCustomer}
	driver   = domain.Actor{Login: "dave", Role: domain.RoleDriver}
	manager  = domain.Actor{Login: "mia", Role: domain.RoleManager}
)

// In-memory repositories for workflow tests. They model the guarantees
// the real store provides: unique logins and item names, and atomic
// order-id allocation under the orders lock.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Login]; ok {
		return fmt.Errorf("user %q already exists: %w", u.Login, domain.ErrInvalidArgument)
	}
	r.users[u.Login] = u
	return nil
}

func (r *fakeUserRepo) GetByLogin(_ context.Context, login string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[login]
	if !ok {
		return domain.User{}, fmt.Errorf("get user: %w", domain.ErrNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, login, hash string) error {
	return r.mutate(login, func(u *domain.User) { u.PasswordHash = hash })
}

func (r *fakeUserRepo) UpdateFavoriteItem(_ context.Context, login, item string) error {
	return r.mutate(login, func(u *domain.User) { u.FavoriteItem = &item })
}

func (r *fakeUserRepo) UpdatePhone(_ context.Context, login, phone string) error {
	return r.mutate(login, func(u *domain.User) { u.Phone = phone })
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, login string, role domain.Role) error {
	return r.mutate(login, func(u *domain.User) { u.Role = role })
}

func (r *fakeUserRepo) mutate(login string, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[login]
	if !ok {
		return fmt.Errorf("user %q: %w", login, domain.ErrNotFound)
	}
	fn(&u)
	r.users[login] = u
	return nil
}

func (r *fakeUserRepo) List(context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Login < out[j].Login })
	return out, nil
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]domain.Item
}

func newFakeItemRepo(items ...domain.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: map[string]domain.Item{}}
	for _, it := range items {
		r.items[it.Name] = it
	}
	return r
}

func (r *fakeItemRepo) Create(_ context.Context, it domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[it.Name]; ok {
		return fmt.Errorf("item %q already exists: %w", it.Name, domain.ErrInvalidArgument)
	}
	r.items[it.Name] = it
	return nil
}

func (r *fakeItemRepo) GetByName(_ context.Context, name string) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[name]
	if !ok {
		return domain.Item{}, fmt.Errorf("item %q: %w", name, domain.ErrNotFound)
	}
	return it, nil
}

func (r *fakeItemRepo) List(_ context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Item
	for _, it := range r.items {
		if f.Type != "" && !strings.Contains(strings.ToLower(it.Type), strings.ToLower(f.Type)) {
			continue
		}
		if f.MinPrice != nil && it.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && it.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		switch f.Sort {
		case domain.SortPriceAsc:
			return out[i].Price.LessThan(out[j].Price)
		case domain.SortPriceDesc:
			return out[i].Price.GreaterThan(out[j].Price)
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out, nil
}

func (r *fakeItemRepo) Types(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, it := range r.items {
		if !seen[it.Type] {
			seen[it.Type] = true
			out = append(out, it.Type)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeItemRepo) UpdatePrice(_ context.Context, name string, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[name]
	if !ok {
		return fmt.Errorf("item %q: %w", name, domain.ErrNotFound)
	}
	it.Price = price
	r.items[name] = it
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[name]; !ok {
		return fmt.Errorf("item %q: %w", name, domain.ErrNotFound)
	}
	delete(r.items, name)
	return nil
}

type fakeStoreRepo struct {
	stores map[int]domain.Store
}

func newFakeStoreRepo(stores ...domain.Store) *fakeStoreRepo {
	r := &fakeStoreRepo{stores: map[int]domain.Store{}}
	for _, s := range stores {
		r.stores[s.ID] = s
	}
	return r
}

func (r *fakeStoreRepo) GetByID(_ context.Context, id int) (domain.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return domain.Store{}, fmt.Errorf("store %d: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

func (r *fakeStoreRepo) List(context.Context) ([]domain.Store, error) {
	var out []domain.Store
	for _, s := range r.stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[int]domain.Order
	lines  map[int][]domain.OrderLine
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int]domain.Order{}, lines: map[int][]domain.OrderLine{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, login string, storeID int,
	total decimal.Decimal, ts time.Time, lines []domain.ResolvedLine) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := 0
	for existing := range r.orders {
		if existing >= id {
			id = existing + 1
		}
	}
	r.orders[id] = domain.Order{
		ID: id, Login: login, StoreID: storeID, Total: total,
		Timestamp: ts, Status: domain.StatusPlaced,
	}
	for _, l := range lines {
		r.lines[id] = append(r.lines[id], domain.OrderLine{
			OrderID: id, ItemName: l.ItemName, Quantity: l.Quantity,
		})
	}
	return id, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, orderID int) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	return o, nil
}

func (r *fakeOrderRepo) GetLines(_ context.Context, orderID int) ([]domain.OrderLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lines[orderID], nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID int, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	o.Status = status
	r.orders[orderID] = o
	return nil
}

func (r *fakeOrderRepo) ListByLogin(_ context.Context, login string, limit int) ([]domain.OrderSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OrderSummary
	for _, o := range r.orders {
		if o.Login == login {
			out = append(out, summary(o))
		}
	}
	sortSummaries(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeOrderRepo) ListAll(context.Context) ([]domain.OrderSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OrderSummary
	for _, o := range r.orders {
		out = append(out, summary(o))
	}
	sortSummaries(out)
	return out, nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

func summary(o domain.Order) domain.OrderSummary {
	return domain.OrderSummary{
		OrderID: o.ID, Login: o.Login, StoreID: o.StoreID,
		Total: o.Total, Timestamp: o.Timestamp, Status: o.Status,
	}
}

func sortSummaries(s []domain.OrderSummary) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].Timestamp.Equal(s[j].Timestamp) {
			return s[i].Timestamp.After(s[j].Timestamp)
		}
		return s[i].OrderID > s[j].OrderID
	})
}
