package router

import (
	"yatube/internal/handlers"
	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionName = "yatube_session"
	MediaURL    = "/media/"
)

type Options struct {
	SessionSecret string
	MediaRoot     string
	SiteURL       string
	Logger        *zap.Logger
}

// New builds the engine with sessions, the current-user loader, the media
// directory and every route.
func New(blog *services.Blog, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 14 * 24 * 3600, HttpOnly: true})
	r.Use(sessions.Sessions(SessionName, store))

	if opts.MediaRoot != "" {
		r.Static(MediaURL, opts.MediaRoot)
	}

	r.Use(middleware.LoadUser(blog))

	RegisterRoutes(r, blog, log, opts.SiteURL)
	return r
}

func RegisterRoutes(r *gin.Engine, blog *services.Blog, log *zap.Logger, siteURL string) {
	// Handlers
	authHandler := handlers.NewAuthHandler(blog, log)
	postHandler := handlers.NewPostHandler(blog, log, MediaURL)
	followHandler := handlers.NewFollowHandler(blog, log, MediaURL)
	groupHandler := handlers.NewGroupHandler(blog, log)
	seoHandler := handlers.NewSEOHandler(blog, log, MediaURL, siteURL)

	// Public routes
	r.GET("/", postHandler.Index)                     // newest posts
	r.GET("/group/:slug/", postHandler.GroupPosts)    // posts of one group
	r.GET("/profile/:username/", postHandler.Profile) // posts of one author
	r.GET("/posts/:id/", postHandler.Detail)          // post with comments
	r.GET("/groups/", groupHandler.ListGroups)        // all groups

	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.RSSFeed)

	r.GET("/auth/login/", authHandler.ShowLogin)
	r.POST("/auth/login/", authHandler.Login)
	r.POST("/auth/signup/", authHandler.Signup)
	r.GET("/auth/logout/", authHandler.Logout)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", postHandler.ShowCreate)
		authorized.POST("/create/", postHandler.Create)
		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)
		authorized.POST("/posts/:id/edit/", postHandler.Update)
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)

		authorized.GET("/follow/", followHandler.Feed)                         // followed authors feed
		authorized.GET("/profile/:username/follow/", followHandler.Follow)     // subscribe
		authorized.GET("/profile/:username/unfollow/", followHandler.Unfollow) // unsubscribe

		authorized.POST("/groups/", groupHandler.Create)
	}
}
