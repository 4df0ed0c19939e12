package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/radiantlabs/cyberboy/internal/model/account"
	"github.com/radiantlabs/cyberboy/internal/server/store/users"
)

var (
	ErrMissingFields = errors.New("email and password required")
	// ErrInvalidCredentials is returned for unknown emails AND wrong
	// passwords alike, so responses cannot be used to enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = users.ErrEmailTaken
	ErrNotFound           = users.ErrNotFound
)

// Service handles registration, login and account deletion.
type Service struct {
	users users.Store
}

// NewService constructs an auth service over the given user store.
func NewService(store users.Store) *Service {
	return &Service{users: store}
}

// Register hashes the password and stores a new identity. The stored
// hash never leaves this package.
func (s *Service) Register(ctx context.Context, email, password string) (account.Public, error) {
	if email == "" || password == "" {
		return account.Public{}, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return account.Public{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, account.User{Email: email, Password: string(hash)})
	if err != nil {
		return account.Public{}, err
	}
	return user.Public(), nil
}

// Login verifies the credentials and returns the identity.
func (s *Service) Login(ctx context.Context, email, password string) (account.Public, error) {
	if email == "" || password == "" {
		return account.Public{}, ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return account.Public{}, ErrInvalidCredentials
		}
		return account.Public{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return account.Public{}, ErrInvalidCredentials
	}
	return user.Public(), nil
}

// Delete removes the identity with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
