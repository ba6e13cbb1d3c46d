package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/models"
	"yatube/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CheckUserKey   = "user"
	SessionUserKey = "user_id"
	LoginPath      = "/auth/login/"
)

// AuthRequired sends anonymous visitors to the login page, remembering where
// they were going.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser(blog *services.Blog) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID, ok := session.Get(SessionUserKey).(uint); ok {
			user, err := blog.GetUser(c.Request.Context(), userID)
			switch {
			case err == nil:
				c.Set(CheckUserKey, user)
			case errors.Is(err, services.ErrNotFound):
				// The account is gone; forget the stale session.
				session.Delete(SessionUserKey)
				session.Save()
			}
		}
		c.Next()
	}
}

// CurrentUser returns the logged-in user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(CheckUserKey); exists {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}

// CurrentUserID returns the logged-in user's id, zero when anonymous.
func CurrentUserID(c *gin.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

// LoginURL builds the login redirect, keeping slashes in next readable.
func LoginURL(next string) string {
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}
