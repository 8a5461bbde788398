package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pizza-store/internal/common/logger"
	"pizza-store/internal/domain"
	"pizza-store/internal/repository"
)

const minPasswordLen = 3

type UserService struct {
	users repository.UserRepository
	items repository.ItemRepository
	lg    *logger.Logger
}

func NewUserService(users repository.UserRepository, items repository.ItemRepository, lg *logger.Logger) *UserService {
	return &UserService{users: users, items: items, lg: lg}
}

// Register creates a customer account. Passwords are stored as bcrypt
// hashes, never plaintext.
func (s *UserService) Register(ctx context.Context, login, password, phone string) error {
	login = strings.TrimSpace(login)
	password = strings.TrimSpace(password)
	phone = strings.TrimSpace(phone)

	if login == "" || password == "" || phone == "" {
		return fmt.Errorf("register: all fields must be filled out: %w", domain.ErrInvalidArgument)
	}
	if !digitsOnly(phone) {
		return fmt.Errorf("register: phone number must contain only digits: %w", domain.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("register: hash password: %w", err)
	}
	if err := s.users.Create(ctx, domain.User{
		Login:        login,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		Phone:        phone,
	}); err != nil {
		return err
	}
	s.lg.Info("user_registered", map[string]any{"login": login})
	return nil
}

// Login checks credentials and returns the actor identity the session
// runs under. Unknown logins and wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, login, password string) (domain.Actor, error) {
	u, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, fmt.Errorf("invalid username or password: %w", domain.ErrNotAuthenticated)
		}
		return domain.Actor{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.Actor{}, fmt.Errorf("invalid username or password: %w", domain.ErrNotAuthenticated)
	}
	s.lg.Info("user_logged_in", map[string]any{"login": u.Login, "role": string(u.Role)})
	return domain.Actor{Login: u.Login, Role: u.Role}, nil
}

// Profile returns the actor's own user record.
func (s *UserService) Profile(ctx context.Context, actor domain.Actor) (domain.User, error) {
	if actor.Login == "" {
		return domain.User{}, fmt.Errorf("profile: %w", domain.ErrNotAuthenticated)
	}
	return s.users.GetByLogin(ctx, actor.Login)
}

// UpdatePassword changes the actor's password after re-verifying the
// current one.
func (s *UserService) UpdatePassword(ctx context.Context, actor domain.Actor, current, next string) error {
	if actor.Login == "" {
		return fmt.Errorf("update password: %w", domain.ErrNotAuthenticated)
	}
	u, err := s.users.GetByLogin(ctx, actor.Login)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return fmt.Errorf("update password: incorrect current password: %w", domain.ErrPermissionDenied)
	}
	if len(next) < minPasswordLen {
		return fmt.Errorf("update password: must be at least %d characters: %w", minPasswordLen, domain.ErrInvalidArgument)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("update password: hash: %w", err)
	}
	return s.users.UpdatePassword(ctx, actor.Login, string(hash))
}

// UpdateFavoriteItem sets the actor's favorite item; it must exist on
// the menu.
func (s *UserService) UpdateFavoriteItem(ctx context.Context, actor domain.Actor, itemName string) error {
	if actor.Login == "" {
		return fmt.Errorf("update favorite item: %w", domain.ErrNotAuthenticated)
	}
	if _, err := s.items.GetByName(ctx, itemName); err != nil {
		return fmt.Errorf("item %q: %w", itemName, err)
	}
	return s.users.UpdateFavoriteItem(ctx, actor.Login, itemName)
}

// UpdatePhone changes the actor's phone number: digits only, at least
// ten of them.
func (s *UserService) UpdatePhone(ctx context.Context, actor domain.Actor, phone string) error {
	if actor.Login == "" {
		return fmt.Errorf("update phone: %w", domain.ErrNotAuthenticated)
	}
	phone = strings.TrimSpace(phone)
	if len(phone) < 10 || !digitsOnly(phone) {
		return fmt.Errorf("update phone: need at least 10 digits, digits only: %w", domain.ErrInvalidArgument)
	}
	return s.users.UpdatePhone(ctx, actor.Login, phone)
}

// SetRole reassigns a user's role. Managers only.
func (s *UserService) SetRole(ctx context.Context, actor domain.Actor, targetLogin string, role domain.Role) error {
	if err := requireManager(actor, "set role"); err != nil {
		return err
	}
	if !domain.ValidRole(role) {
		return fmt.Errorf("set role: %q is not a valid role: %w", role, domain.ErrInvalidArgument)
	}
	if err := s.users.UpdateRole(ctx, targetLogin, role); err != nil {
		return err
	}
	s.lg.Info("user_role_changed", map[string]any{"login": targetLogin, "role": string(role), "changed_by": actor.Login})
	return nil
}

// ResetPassword sets a user's password without knowing the old one.
// Managers only.
func (s *UserService) ResetPassword(ctx context.Context, actor domain.Actor, targetLogin, password string) error {
	if err := requireManager(actor, "reset password"); err != nil {
		return err
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("reset password: must be at least %d characters: %w", minPasswordLen, domain.ErrInvalidArgument)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("reset password: hash: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, targetLogin, string(hash)); err != nil {
		return err
	}
	s.lg.Info("user_password_reset", map[string]any{"login": targetLogin, "changed_by": actor.Login})
	return nil
}

// ListUsers returns all accounts. Managers only.
func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if err := requireManager(actor, "list users"); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func requireManager(actor domain.Actor, op string) error {
	if actor.Login == "" {
		return fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}
	if actor.Role != domain.RoleManager {
		return fmt.Errorf("%s: role %s: %w", op, actor.Role, domain.ErrPermissionDenied)
	}
	return nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
