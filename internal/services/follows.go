package services

import (
	"context"
	"errors"
	"strconv"

	"yatube/internal/models"
	"yatube/internal/store"

	"go.uber.org/zap"
)

// Follow subscribes userID to authorID. Following yourself is rejected and a
// second follow of the same author is a conflict, never a duplicate row.
func (b *Blog) Follow(ctx context.Context, userID, authorID uint) (*models.Follow, error) {
	if userID == 0 {
		return nil, ErrAuthenticationRequired
	}
	if userID == authorID {
		return nil, &ValidationError{Field: "author", Reason: "you cannot follow yourself"}
	}

	var follow *models.Follow
	err := b.store.Transaction(ctx, func(tx store.Store) error {
		user, err := b.actor(ctx, tx, userID)
		if err != nil {
			return err
		}
		author, err := tx.GetUser(ctx, authorID)
		if err != nil {
			return notFound(err, "user", strconv.FormatUint(uint64(authorID), 10))
		}

		exists, err := tx.FollowExists(ctx, userID, authorID)
		if err != nil {
			return err
		}
		if exists {
			return &ConflictError{Resource: "follow", Reason: "already following " + author.Username}
		}

		f := &models.Follow{UserID: userID, AuthorID: authorID}
		if err := tx.CreateFollow(ctx, f); err != nil {
			// Lost a race against a concurrent follow of the same pair.
			if errors.Is(err, store.ErrDuplicate) {
				return &ConflictError{Resource: "follow", Reason: "already following " + author.Username}
			}
			return err
		}
		f.User = *user
		f.Author = *author
		follow = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.log.Info("Follow created", zap.Uint("user_id", userID), zap.Uint("author_id", authorID))
	return follow, nil
}

// Unfollow removes the edge if it exists; a missing edge is not an error.
func (b *Blog) Unfollow(ctx context.Context, userID, authorID uint) error {
	if userID == 0 {
		return ErrAuthenticationRequired
	}
	return b.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := b.actor(ctx, tx, userID); err != nil {
			return err
		}
		deleted, err := tx.DeleteFollow(ctx, userID, authorID)
		if err != nil {
			return err
		}
		if deleted {
			b.log.Info("Follow removed", zap.Uint("user_id", userID), zap.Uint("author_id", authorID))
		}
		return nil
	})
}

func (b *Blog) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return b.store.FollowExists(ctx, userID, authorID)
}
