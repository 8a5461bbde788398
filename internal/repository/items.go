package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"pizza-store/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, it domain.Item) error
	GetByName(ctx context.Context, name string) (domain.Item, error)
	List(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error)
	Types(ctx context.Context) ([]string, error)
	UpdatePrice(ctx context.Context, name string, price decimal.Decimal) error
	Delete(ctx context.Context, name string) error
}

type itemRepository struct {
	db DB
}

func NewItemRepository(db DB) ItemRepository { return &itemRepository{db: db} }

func (r *itemRepository) Create(ctx context.Context, it domain.Item) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO items (item_name, item_type, price, description, ingredients)
		VALUES ($1, $2, $3, $4, $5)
	`, it.Name, it.Type, it.Price.StringFixed(2), it.Description, it.Ingredients)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("item %q already exists: %w", it.Name, domain.ErrInvalidArgument)
		}
		return wrap("create item", err)
	}
	return nil
}

func (r *itemRepository) GetByName(ctx context.Context, name string) (domain.Item, error) {
	row := r.db.QueryRow(ctx, `
		SELECT item_name, item_type, price::text, description, ingredients
		FROM items WHERE item_name = $1
	`, name)
	return scanItem(row)
}

// List builds the WHERE/ORDER BY clause from the filter. Arguments are
// always bound by placeholder, never concatenated.
func (r *itemRepository) List(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	sql := `SELECT item_name, item_type, price::text, description, ingredients FROM items`
	var (
		conds []string
		args  []any
	)
	if f.Type != "" {
		args = append(args, "%"+f.Type+"%")
		conds = append(conds, `TRIM(item_type) ILIKE $`+strconv.Itoa(len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, f.MinPrice.StringFixed(2))
		conds = append(conds, `price >= $`+strconv.Itoa(len(args))+`::numeric`)
	}
	if f.MaxPrice != nil {
		args = append(args, f.MaxPrice.StringFixed(2))
		conds = append(conds, `price <= $`+strconv.Itoa(len(args))+`::numeric`)
	}
	for i, c := range conds {
		if i == 0 {
			sql += " WHERE " + c
		} else {
			sql += " AND " + c
		}
	}
	switch f.Sort {
	case domain.SortPriceAsc:
		sql += " ORDER BY price ASC, item_name"
	case domain.SortPriceDesc:
		sql += " ORDER BY price DESC, item_name"
	default:
		sql += " ORDER BY item_type, item_name"
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap("list items", err)
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list items", err)
	}
	return out, nil
}

func (r *itemRepository) Types(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT item_type FROM items ORDER BY item_type`)
	if err != nil {
		return nil, wrap("list item types", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, wrap("scan item type", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *itemRepository) UpdatePrice(ctx context.Context, name string, price decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, `UPDATE items SET price = $2 WHERE item_name = $1`, name, price.StringFixed(2))
	if err != nil {
		return wrap("update price", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update price: item %q: %w", name, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE item_name = $1`, name)
	if err != nil {
		return wrap("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete item: item %q: %w", name, domain.ErrNotFound)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (domain.Item, error) {
	var it domain.Item
	var price string
	if err := row.Scan(&it.Name, &it.Type, &price, &it.Description, &it.Ingredients); err != nil {
		return domain.Item{}, wrap("scan item", err)
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Item{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	it.Price = p
	return it, nil
}
