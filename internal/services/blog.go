package services

import (
	"context"
	"errors"
	"time"

	"yatube/internal/models"
	"yatube/internal/store"

	"go.uber.org/zap"
)

// DefaultIndexTTL is how long a cached index page stays fresh.
const DefaultIndexTTL = 20 * time.Second

// PageCache holds rendered index pages. *utils.Cache[*Page] satisfies it.
type PageCache interface {
	Get(key string) (*Page, bool)
	Set(key string, page *Page, ttl time.Duration)
	Purge()
}

// Blog is the query and mutation façade over the blog schema. Every mutation
// takes the acting user's id explicitly; zero means an anonymous caller.
type Blog struct {
	store    store.Store
	media    MediaStore
	cache    PageCache
	cacheTTL time.Duration
	pageSize int
	log      *zap.Logger
}

type Option func(*Blog)

func WithMedia(m MediaStore) Option {
	return func(b *Blog) { b.media = m }
}

// WithIndexCache caches the unfiltered post listing for ttl.
func WithIndexCache(c PageCache, ttl time.Duration) Option {
	return func(b *Blog) {
		b.cache = c
		b.cacheTTL = ttl
	}
}

func WithPageSize(n int) Option {
	return func(b *Blog) {
		if n > 0 {
			b.pageSize = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Blog) {
		if l != nil {
			b.log = l
		}
	}
}

func NewBlog(s store.Store, opts ...Option) *Blog {
	b := &Blog{
		store:    s,
		cacheTTL: DefaultIndexTTL,
		pageSize: DefaultPageSize,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// InvalidateIndex drops every cached index page. Callers decide when the
// index has to reflect new writes.
func (b *Blog) InvalidateIndex() {
	if b.cache != nil {
		b.cache.Purge()
	}
}

// actor resolves the acting user inside tx. A missing or deleted user is
// treated like an anonymous caller.
func (b *Blog) actor(ctx context.Context, tx store.Store, actorID uint) (*models.User, error) {
	if actorID == 0 {
		return nil, ErrAuthenticationRequired
	}
	user, err := tx.GetUser(ctx, actorID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAuthenticationRequired
	}
	return user, err
}
