package repository

import (
	"context"
	"fmt"

	"pizza-store/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u domain.User) error
	GetByLogin(ctx context.Context, login string) (domain.User, error)
	UpdatePassword(ctx context.Context, login, passwordHash string) error
	UpdateFavoriteItem(ctx context.Context, login, itemName string) error
	UpdatePhone(ctx context.Context, login, phone string) error
	UpdateRole(ctx context.Context, login string, role domain.Role) error
	List(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	db DB
}

func NewUserRepository(db DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (login, password, role, favorite_item, phone)
		VALUES ($1, $2, $3, $4, $5)
	`, u.Login, u.PasswordHash, string(u.Role), u.FavoriteItem, u.Phone)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q already exists: %w", u.Login, domain.ErrInvalidArgument)
		}
		return wrap("create user", err)
	}
	return nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	var u domain.User
	var role string
	err := r.db.QueryRow(ctx, `
		SELECT login, password, role, favorite_item, phone
		FROM users WHERE login = $1
	`, login).Scan(&u.Login, &u.PasswordHash, &role, &u.FavoriteItem, &u.Phone)
	if err != nil {
		return domain.User{}, wrap("get user", err)
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, login, passwordHash string) error {
	return r.update(ctx, "update password", `UPDATE users SET password = $2 WHERE login = $1`, login, passwordHash)
}

func (r *userRepository) UpdateFavoriteItem(ctx context.Context, login, itemName string) error {
	return r.update(ctx, "update favorite item", `UPDATE users SET favorite_item = $2 WHERE login = $1`, login, itemName)
}

func (r *userRepository) UpdatePhone(ctx context.Context, login, phone string) error {
	return r.update(ctx, "update phone", `UPDATE users SET phone = $2 WHERE login = $1`, login, phone)
}

func (r *userRepository) UpdateRole(ctx context.Context, login string, role domain.Role) error {
	return r.update(ctx, "update role", `UPDATE users SET role = $2 WHERE login = $1`, login, string(role))
}

func (r *userRepository) update(ctx context.Context, op, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: user: %w", op, domain.ErrNotFound)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT login, password, role, favorite_item, phone
		FROM users ORDER BY login
	`)
	if err != nil {
		return nil, wrap("list users", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		var role string
		if err := rows.Scan(&u.Login, &u.PasswordHash, &role, &u.FavoriteItem, &u.Phone); err != nil {
			return nil, wrap("scan user", err)
		}
		u.Role = domain.Role(role)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list users", err)
	}
	return out, nil
}
