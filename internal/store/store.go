// Package store persists the blog schema behind a typed repository interface.
//
// Ownership rules are applied by the implementation itself instead of being left
// to foreign keys: deleting a user removes their posts, comments and follow
// edges, deleting a group detaches its posts.
package store

import (
	"context"
	"errors"

	"yatube/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// PostQuery narrows a post listing. Nil fields do not filter.
type PostQuery struct {
	GroupID    *uint
	AuthorID   *uint
	FollowerID *uint // posts by authors this user follows
}

type Store interface {
	// Transaction runs fn against a Store bound to a single transaction.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error

	CreateGroup(ctx context.Context, g *models.Group) error
	GetGroup(ctx context.Context, id uint) (*models.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	DeleteGroup(ctx context.Context, id uint) error

	CreatePost(ctx context.Context, p *models.Post) error
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	// SavePost writes the mutable columns (text, group, image) of p.
	SavePost(ctx context.Context, p *models.Post) error
	ListPosts(ctx context.Context, q PostQuery, offset, limit int) ([]models.Post, int64, error)

	CreateComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)

	CreateFollow(ctx context.Context, f *models.Follow) error
	DeleteFollow(ctx context.Context, userID, authorID uint) (bool, error)
	FollowExists(ctx context.Context, userID, authorID uint) (bool, error)
}
