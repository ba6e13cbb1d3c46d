package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/store"

	"go.uber.org/zap"
)

type GroupInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"required,max=50,slug"`
	Description string `json:"description" validate:"max=500"`
}

func (b *Blog) CreateGroup(ctx context.Context, actorID uint, in GroupInput) (*models.Group, error) {
	if actorID == 0 {
		return nil, ErrAuthenticationRequired
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	group := &models.Group{Title: in.Title, Slug: in.Slug, Description: in.Description}
	err := b.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := b.actor(ctx, tx, actorID); err != nil {
			return err
		}
		if _, err := tx.GetGroupBySlug(ctx, in.Slug); err == nil {
			return &ConflictError{Resource: "group", Reason: "slug " + in.Slug + " is taken"}
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.CreateGroup(ctx, group); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return &ConflictError{Resource: "group", Reason: "slug " + in.Slug + " is taken"}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.log.Info("Group created", zap.Uint("group_id", group.ID), zap.String("slug", group.Slug))
	return group, nil
}

func (b *Blog) GetGroup(ctx context.Context, slug string) (*models.Group, error) {
	group, err := b.store.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "group", slug)
	}
	return group, nil
}

func (b *Blog) ListGroups(ctx context.Context) ([]models.Group, error) {
	return b.store.ListGroups(ctx)
}

// DeleteGroup removes a group. Its posts stay and lose their group.
func (b *Blog) DeleteGroup(ctx context.Context, id uint) error {
	if err := b.store.DeleteGroup(ctx, id); err != nil {
		return notFound(err, "group", strconv.FormatUint(uint64(id), 10))
	}
	b.log.Info("Group deleted", zap.Uint("group_id", id))
	return nil
}
