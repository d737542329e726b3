package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hongminglow/shoptrack-be/internal/auth"
	"github.com/hongminglow/shoptrack-be/internal/models"
	"github.com/hongminglow/shoptrack-be/internal/storage"
)

const (
	minPasswordLen = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
	maxNameLen       = 64
	maxEmailLen      = 254
)

// Accounts registers users and exchanges credentials for identity tokens.
type Accounts struct {
	users    storage.UserStore
	tokens   *auth.TokenManager
	timeouts timeouts
}

// NewAccounts wires the account operations to a user store and token issuer.
func NewAccounts(users storage.UserStore, tokens *auth.TokenManager, storageTimeout time.Duration) *Accounts {
	return &Accounts{users: users, tokens: tokens, timeouts: newTimeouts(storageTimeout)}
}

// Register creates a user and returns its id. Email is checked for
// uniqueness before name.
func (a *Accounts) Register(ctx context.Context, name, email, password string) (int64, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateRegistration(name, email, password); err != nil {
		return 0, err
	}

	ctx, cancel := a.timeouts.bound(ctx)
	defer cancel()

	if err := a.ensureFree(ctx, "email", a.users.FindByEmail, email); err != nil {
		return 0, err
	}
	if err := a.ensureFree(ctx, "name", a.users.FindByName, name); err != nil {
		return 0, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	created, err := a.users.CreateUser(ctx, models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return 0, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return 0, storageErr("create user", err)
	}
	return created.ID, nil
}

func (a *Accounts) ensureFree(ctx context.Context, field string, find func(context.Context, string) (models.User, error), value string) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s already taken", ErrConflict, field)
	case errors.Is(err, storage.ErrNotFound):
		return nil
	default:
		return storageErr("find user by "+field, err)
	}
}

// Authenticate verifies a login (email or name) and password and issues a token.
func (a *Accounts) Authenticate(ctx context.Context, login, password string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", invalid("login and password are required")
	}

	ctx, cancel := a.timeouts.bound(ctx)
	defer cancel()

	user, err := a.users.FindByNameOrEmail(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", storageErr("find user", err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", ErrInvalidCredential
		}
		return "", fmt.Errorf("compare password: %w", err)
	}
	token, err := a.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

func validateRegistration(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return invalid("name, email, and password are required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return invalid("name must be at most %d characters", maxNameLen)
	}
	if len(email) > maxEmailLen || !strings.Contains(email, "@") {
		return invalid("email is not valid")
	}
	if !utf8.ValidString(password) || utf8.RuneCountInString(password) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordBytes {
		return invalid("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}
