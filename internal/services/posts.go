package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/store"

	"go.uber.org/zap"
)

type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterGroup
	FilterAuthor
	FilterFollowed
)

// PostFilter selects which posts ListPosts returns.
type PostFilter struct {
	Kind       FilterKind
	GroupSlug  string
	Username   string
	FollowerID uint
}

func AllPosts() PostFilter { return PostFilter{Kind: FilterAll} }

func ByGroup(slug string) PostFilter { return PostFilter{Kind: FilterGroup, GroupSlug: slug} }

func ByAuthor(username string) PostFilter { return PostFilter{Kind: FilterAuthor, Username: username} }

// ByFollowed selects posts by every author userID follows.
func ByFollowed(userID uint) PostFilter { return PostFilter{Kind: FilterFollowed, FollowerID: userID} }

type PostInput struct {
	Text    string  `json:"text" validate:"required"`
	GroupID *uint   `json:"group"`
	Image   *Upload `json:"-" validate:"-"`
}

// PostUpdate changes only the fields that are set. ClearGroup removes the
// post from its group and wins over GroupID.
type PostUpdate struct {
	Text       *string `json:"text" validate:"omitnil,min=1"`
	GroupID    *uint   `json:"group"`
	ClearGroup bool    `json:"-"`
	Image      *Upload `json:"-" validate:"-"`
}

// ListPosts returns one page of posts, newest first. Only the unfiltered
// listing is served from the index cache.
func (b *Blog) ListPosts(ctx context.Context, filter PostFilter, page, pageSize int) (*Page, error) {
	page, pageSize = normalizePage(page, pageSize, b.pageSize)

	var q store.PostQuery
	switch filter.Kind {
	case FilterAll:
	case FilterGroup:
		group, err := b.store.GetGroupBySlug(ctx, filter.GroupSlug)
		if err != nil {
			return nil, notFound(err, "group", filter.GroupSlug)
		}
		q.GroupID = &group.ID
	case FilterAuthor:
		author, err := b.store.GetUserByUsername(ctx, filter.Username)
		if err != nil {
			return nil, notFound(err, "user", filter.Username)
		}
		q.AuthorID = &author.ID
	case FilterFollowed:
		if filter.FollowerID == 0 {
			return nil, ErrAuthenticationRequired
		}
		q.FollowerID = &filter.FollowerID
	default:
		return nil, fmt.Errorf("unknown post filter %d", filter.Kind)
	}

	cacheKey := fmt.Sprintf("index:page:%d:size:%d", page, pageSize)
	if filter.Kind == FilterAll && b.cache != nil {
		if cached, ok := b.cache.Get(cacheKey); ok {
			return cached, nil
		}
	}

	posts, total, err := b.store.ListPosts(ctx, q, pageOffset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}

	result := &Page{
		Items:      posts,
		Number:     page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}

	if filter.Kind == FilterAll && b.cache != nil {
		b.cache.Set(cacheKey, result, b.cacheTTL)
	}
	return result, nil
}

func (b *Blog) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := b.store.GetPost(ctx, id)
	if err != nil {
		return nil, notFound(err, "post", strconv.FormatUint(uint64(id), 10))
	}
	return post, nil
}

func (b *Blog) CreatePost(ctx context.Context, actorID uint, in PostInput) (*models.Post, error) {
	if actorID == 0 {
		return nil, ErrAuthenticationRequired
	}
	in.Text = strings.TrimSpace(in.Text)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	image, err := b.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	var created *models.Post
	txErr := b.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := b.actor(ctx, tx, actorID); err != nil {
			return err
		}
		if err := checkGroup(ctx, tx, in.GroupID); err != nil {
			return err
		}

		post := &models.Post{
			Text:     in.Text,
			AuthorID: actorID,
			GroupID:  in.GroupID,
			Image:    image,
		}
		if err := tx.CreatePost(ctx, post); err != nil {
			return err
		}

		var err error
		created, err = tx.GetPost(ctx, post.ID)
		return err
	})
	if txErr != nil {
		b.discardImage(ctx, image)
		return nil, txErr
	}

	b.log.Info("Post created", zap.Uint("post_id", created.ID), zap.Uint("author_id", actorID))
	return created, nil
}

// UpdatePost edits a post on behalf of its author. The author and the
// creation time never change.
func (b *Blog) UpdatePost(ctx context.Context, postID, actorID uint, upd PostUpdate) (*models.Post, error) {
	if actorID == 0 {
		return nil, ErrAuthenticationRequired
	}
	if upd.Text != nil {
		text := strings.TrimSpace(*upd.Text)
		upd.Text = &text
	}
	if err := validateInput(upd); err != nil {
		return nil, err
	}

	// Check ownership before touching the media store.
	if _, err := b.editablePost(ctx, b.store, postID, actorID); err != nil {
		return nil, err
	}

	image, err := b.saveImage(ctx, upd.Image)
	if err != nil {
		return nil, err
	}

	var (
		updated  *models.Post
		oldImage string
	)
	txErr := b.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := b.actor(ctx, tx, actorID); err != nil {
			return err
		}
		post, err := b.editablePost(ctx, tx, postID, actorID)
		if err != nil {
			return err
		}

		if upd.Text != nil {
			post.Text = *upd.Text
		}
		switch {
		case upd.ClearGroup:
			post.GroupID = nil
		case upd.GroupID != nil:
			if err := checkGroup(ctx, tx, upd.GroupID); err != nil {
				return err
			}
			post.GroupID = upd.GroupID
		}
		if image != "" {
			oldImage = post.Image
			post.Image = image
		}

		if err := tx.SavePost(ctx, post); err != nil {
			return err
		}
		updated, err = tx.GetPost(ctx, postID)
		return err
	})
	if txErr != nil {
		b.discardImage(ctx, image)
		return nil, txErr
	}

	b.discardImage(ctx, oldImage)
	b.log.Info("Post updated", zap.Uint("post_id", postID), zap.Uint("author_id", actorID))
	return updated, nil
}

func (b *Blog) editablePost(ctx context.Context, s store.Store, postID, actorID uint) (*models.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, notFound(err, "post", strconv.FormatUint(uint64(postID), 10))
	}
	if post.AuthorID != actorID {
		return nil, &AuthorizationError{ActorID: actorID, Action: fmt.Sprintf("edit post %d", postID)}
	}
	return post, nil
}

func checkGroup(ctx context.Context, tx store.Store, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	if _, err := tx.GetGroup(ctx, *groupID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &ValidationError{Field: "group", Reason: "select a valid group"}
		}
		return err
	}
	return nil
}

func (b *Blog) saveImage(ctx context.Context, upload *Upload) (string, error) {
	if upload == nil {
		return "", nil
	}
	if b.media == nil {
		return "", &ValidationError{Field: "image", Reason: "image uploads are disabled"}
	}
	return b.media.Save(ctx, *upload)
}

// discardImage removes a stored image that no post references any more.
func (b *Blog) discardImage(ctx context.Context, path string) {
	if path == "" || b.media == nil {
		return
	}
	if err := b.media.Delete(ctx, path); err != nil {
		b.log.Warn("Failed to remove image", zap.String("path", path), zap.Error(err))
	}
}
