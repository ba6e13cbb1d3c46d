package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/store"
	"yatube/internal/utils"

	"go.uber.org/zap"
)

type Credentials struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

var errBadCredentials = &ValidationError{Reason: "invalid username or password"}

// Register creates a user with a bcrypt-hashed password.
func (b *Blog) Register(ctx context.Context, in Credentials) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: in.Username, Password: hash}
	err = b.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetUserByUsername(ctx, in.Username); err == nil {
			return &ConflictError{Resource: "user", Reason: "username " + in.Username + " is taken"}
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return &ConflictError{Resource: "user", Reason: "username " + in.Username + " is taken"}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate checks a username and password pair.
func (b *Blog) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := b.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, errBadCredentials
	}
	return user, nil
}

func (b *Blog) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := b.store.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", strconv.FormatUint(uint64(id), 10))
	}
	return user, nil
}

func (b *Blog) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := b.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user", username)
	}
	return user, nil
}

// DeleteUser removes a user and everything they own.
func (b *Blog) DeleteUser(ctx context.Context, id uint) error {
	if err := b.store.DeleteUser(ctx, id); err != nil {
		return notFound(err, "user", strconv.FormatUint(uint64(id), 10))
	}
	b.log.Info("User deleted", zap.Uint("user_id", id))
	return nil
}
