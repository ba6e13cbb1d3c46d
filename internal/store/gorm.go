package store

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of gorm. The same code serves PostgreSQL
// in production and SQLite in tests.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func translate(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf(format+": %w", append(args, ErrDuplicate)...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	return translate(err, "create user %q", u.Username)
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user %d", id)
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "user %q", username)
	}
	return &user, nil
}

// DeleteUser removes the user together with everything they own: comments on
// their posts, their own comments, their posts and follow edges in both
// directions.
func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("post_id IN (?)", ownPosts).Delete(&models.Comment{}).Error; err != nil {
			return translate(err, "delete comments on posts of user %d", id)
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return translate(err, "delete comments of user %d", id)
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return translate(err, "delete posts of user %d", id)
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return translate(err, "delete follows of user %d", id)
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return translate(res.Error, "delete user %d", id)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (s *GormStore) CreateGroup(ctx context.Context, g *models.Group) error {
	err := s.db.WithContext(ctx).Create(g).Error
	return translate(err, "create group %q", g.Slug)
}

func (s *GormStore) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translate(err, "group %d", id)
	}
	return &group, nil
}

func (s *GormStore) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, translate(err, "group %q", slug)
	}
	return &group, nil
}

func (s *GormStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.WithContext(ctx).Order("title ASC, id ASC").Find(&groups).Error; err != nil {
		return nil, translate(err, "list groups")
	}
	return groups, nil
}

// DeleteGroup detaches the group's posts before removing the group itself.
func (s *GormStore) DeleteGroup(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("group_id = ?", id).
			Update("group_id", gorm.Expr("NULL")).Error; err != nil {
			return translate(err, "detach posts of group %d", id)
		}

		res := tx.Delete(&models.Group{}, id)
		if res.Error != nil {
			return translate(res.Error, "delete group %d", id)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("group %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (s *GormStore) CreatePost(ctx context.Context, p *models.Post) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
	return translate(err, "create post")
}

func (s *GormStore) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, id).Error; err != nil {
		return nil, translate(err, "post %d", id)
	}
	posts := []models.Post{post}
	if err := s.fillCommentCounts(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (s *GormStore) SavePost(ctx context.Context, p *models.Post) error {
	res := s.db.WithContext(ctx).Model(p).
		Omit(clause.Associations).
		Select("text", "group_id", "image").
		Updates(p)
	if res.Error != nil {
		return translate(res.Error, "save post %d", p.ID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (s *GormStore) postScope(q PostQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.GroupID != nil {
			db = db.Where("group_id = ?", *q.GroupID)
		}
		if q.AuthorID != nil {
			db = db.Where("author_id = ?", *q.AuthorID)
		}
		if q.FollowerID != nil {
			followed := s.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", *q.FollowerID)
			db = db.Where("author_id IN (?)", followed)
		}
		return db
	}
}

// ListPosts returns one slice of the newest-first listing plus the total
// number of matching posts.
func (s *GormStore) ListPosts(ctx context.Context, q PostQuery, offset, limit int) ([]models.Post, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Scopes(s.postScope(q)).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count posts")
	}

	posts := make([]models.Post, 0, limit)
	// A negative offset can only come from an overflowed page number.
	if offset < 0 || int64(offset) >= total {
		return posts, total, nil
	}
	if err := s.db.WithContext(ctx).Scopes(s.postScope(q)).
		Preload("Author").Preload("Group").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, 0, translate(err, "list posts")
	}

	if err := s.fillCommentCounts(ctx, posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// fillCommentCounts fills CommentCount for a batch of posts with one query.
func (s *GormStore) fillCommentCounts(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error; err != nil {
		return translate(err, "count comments")
	}

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
	return nil
}

func (s *GormStore) CreateComment(ctx context.Context, c *models.Comment) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
	return translate(err, "create comment")
}

func (s *GormStore) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	if err := s.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		return nil, translate(err, "list comments of post %d", postID)
	}
	return comments, nil
}

func (s *GormStore) CreateFollow(ctx context.Context, f *models.Follow) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error
	return translate(err, "follow %d -> %d", f.UserID, f.AuthorID)
}

func (s *GormStore) DeleteFollow(ctx context.Context, userID, authorID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, translate(res.Error, "unfollow %d -> %d", userID, authorID)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) FollowExists(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, translate(err, "check follow %d -> %d", userID, authorID)
	}
	return count > 0, nil
}
