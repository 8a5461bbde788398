package service

import (
	"context"

	"pizza-store/internal/domain"
	"pizza-store/internal/repository"
)

type StoreService struct {
	stores repository.StoreRepository
}

func NewStoreService(stores repository.StoreRepository) *StoreService {
	return &StoreService{stores: stores}
}

// ListStores is open to everyone.
func (s *StoreService) ListStores(ctx context.Context) ([]domain.Store, error) {
	return s.stores.List(ctx)
}
