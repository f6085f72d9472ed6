// Package auth issues and validates bearer tokens. Everything past
// the middleware only ever sees an authenticated user id; no other
// package branches on auth state.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
	"github.com/rolurq/shopify-backend-challenge/internal/repository"
)

var (
	ErrUsernameTaken = errors.New("username is already taken")
	ErrUserNotFound  = errors.New("user does not exist")
	ErrWrongPassword = errors.New("incorrect password")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

type Manager struct {
	users  repository.UserRepository
	secret []byte
	expiry time.Duration
}

func NewManager(users repository.UserRepository, secret string, expiry time.Duration) *Manager {
	return &Manager{
		users:  users,
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Signup registers a new account and returns a signed token for it.
func (m *Manager) Signup(ctx context.Context, username, password string) (string, error) {
	_, err := m.users.GetByUsername(ctx, username)
	if err == nil {
		return "", ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{Username: username, PasswordHash: hash}
	if _, err := m.users.Insert(ctx, user); err != nil {
		return "", err
	}

	return m.signToken(user)
}

func (m *Manager) Login(ctx context.Context, username, password string) (string, error) {
	user, err := m.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !verifyPassword(password, user.PasswordHash) {
		return "", ErrWrongPassword
	}

	return m.signToken(user)
}

// UserByID resolves an authenticated id back to its account record.
func (m *Manager) UserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := m.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (m *Manager) signToken(user *domain.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(m.expiry).Unix(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a bearer token and returns the identity it carries.
func (m *Manager) Verify(tokenString string) (*domain.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" {
		return nil, ErrInvalidToken
	}

	return &domain.User{ID: id, Username: username}, nil
}
