package user

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) error

	// FindByEmail returns apperrors.ErrNotFound when no user owns the address.
	FindByEmail(ctx context.Context, email string) (*User, error)
}
