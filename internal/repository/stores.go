package repository

import (
	"context"

	"pizza-store/internal/domain"
)

type StoreRepository interface {
	GetByID(ctx context.Context, id int) (domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
}

type storeRepository struct {
	db DB
}

func NewStoreRepository(db DB) StoreRepository { return &storeRepository{db: db} }

func (r *storeRepository) GetByID(ctx context.Context, id int) (domain.Store, error) {
	var s domain.Store
	err := r.db.QueryRow(ctx, `
		SELECT store_id, address, city, state, is_open, review_score
		FROM stores WHERE store_id = $1
	`, id).Scan(&s.ID, &s.Address, &s.City, &s.State, &s.IsOpen, &s.ReviewScore)
	if err != nil {
		return domain.Store{}, wrap("get store", err)
	}
	return s, nil
}

func (r *storeRepository) List(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.Query(ctx, `
		SELECT store_id, address, city, state, is_open, review_score
		FROM stores ORDER BY store_id
	`)
	if err != nil {
		return nil, wrap("list stores", err)
	}
	defer rows.Close()

	var out []domain.Store
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Address, &s.City, &s.State, &s.IsOpen, &s.ReviewScore); err != nil {
			return nil, wrap("scan store", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list stores", err)
	}
	return out, nil
}
