package users

import (
	"context"
	"errors"

	"github.com/radiantlabs/cyberboy/internal/model/account"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("user not found")
)

// Store persists registered identities. Email uniqueness is enforced
// at write time by every implementation.
type Store interface {
	Create(ctx context.Context, user account.User) (account.User, error)
	FindByEmail(ctx context.Context, email string) (account.User, error)
	Delete(ctx context.Context, id string) error
}
