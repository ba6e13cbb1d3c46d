package services

import (
	"context"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/store"

	"go.uber.org/zap"
)

// MaxCommentLength is the longest comment accepted, in characters.
const MaxCommentLength = 300

type CommentInput struct {
	Text string `json:"text" validate:"required,max=300"`
}

func (b *Blog) CreateComment(ctx context.Context, postID, actorID uint, in CommentInput) (*models.Comment, error) {
	if actorID == 0 {
		return nil, ErrAuthenticationRequired
	}
	in.Text = strings.TrimSpace(in.Text)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var comment *models.Comment
	err := b.store.Transaction(ctx, func(tx store.Store) error {
		author, err := b.actor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if _, err := tx.GetPost(ctx, postID); err != nil {
			return notFound(err, "post", strconv.FormatUint(uint64(postID), 10))
		}

		c := &models.Comment{
			PostID:   &postID,
			AuthorID: actorID,
			Text:     in.Text,
		}
		if err := tx.CreateComment(ctx, c); err != nil {
			return err
		}
		c.Author = *author
		comment = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.log.Info("Comment created",
		zap.Uint("comment_id", comment.ID),
		zap.Uint("post_id", postID),
		zap.Uint("author_id", actorID))
	return comment, nil
}

// ListComments returns the comments of a post, newest first.
func (b *Blog) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := b.store.GetPost(ctx, postID); err != nil {
		return nil, notFound(err, "post", strconv.FormatUint(uint64(postID), 10))
	}
	return b.store.ListComments(ctx, postID)
}
