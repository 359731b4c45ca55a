package auth

import (
	"context"
	"errors"

	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/users"

	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the login response never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProviderUnavailable marks a federated login that failed because the
	// identity provider could not be reached or rejected the exchange.
	ErrProviderUnavailable = errors.New("authentication provider unavailable")
)

// Credentials carries the input of one login attempt. Local logins use
// Email/Password, federated logins use the authorization Code.
type Credentials struct {
	Email    string
	Password string
	Code     string
}

// Strategy is one way of turning credentials into a local user account.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, creds Credentials) (users.User, error)
}

type LocalStrategy struct {
	DB *gorm.DB
}

func (s *LocalStrategy) Name() string { return "local" }

func (s *LocalStrategy) Attempt(ctx context.Context, creds Credentials) (users.User, error) {
	var user users.User
	err := s.DB.WithContext(ctx).Where("email = ?", creds.Email).First(&user).Error
	if err != nil {
		return users.User{}, ErrInvalidCredentials
	}

	if user.Password == nil || !CheckPassword(creds.Password, *user.Password) {
		return users.User{}, ErrInvalidCredentials
	}

	return user, nil
}
