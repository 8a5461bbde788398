package service

import (
	"time"

	"pizza-store/internal/common/logger"
	"pizza-store/internal/events"
	"pizza-store/internal/repository"
)

// Services bundles the application workflows. All policy (authentication,
// role gating, validation) lives here; the console driver stays thin.
type Services struct {
	Users  *UserService
	Menu   *MenuService
	Stores *StoreService
	Orders *OrderService
}

func New(repo *repository.Repository, pub *events.Publisher, lg *logger.Logger) *Services {
	return &Services{
		Users:  NewUserService(repo.Users, repo.Items, lg),
		Menu:   NewMenuService(repo.Items, lg),
		Stores: NewStoreService(repo.Stores),
		Orders: NewOrderService(repo.Orders, repo.Items, repo.Stores, pub, lg, time.Now),
	}
}
