package handlers

import (
	"errors"
	"net/http"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	base
}

func NewAuthHandler(blog *services.Blog, log *zap.Logger) *AuthHandler {
	return &AuthHandler{base: newBase(blog, log, "")}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"next": safeNext(c.Query("next"))})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	user, err := h.blog.Register(c.Request.Context(), services.Credentials{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	})
	if errors.Is(err, services.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "field": "username"})
		return
	}
	if err != nil {
		h.RenderError(c, err)
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		h.RenderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Login(c *gin.Context) {
	user, err := h.blog.Authenticate(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if errors.Is(err, services.ErrValidation) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.RenderError(c, err)
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		h.RenderError(c, err)
		return
	}
	h.log.Info("User logged in", zap.Uint("user_id", user.ID))

	next := safeNext(c.PostForm("next"))
	if next == "" {
		next = safeNext(c.Query("next"))
	}
	if next == "" {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, userID)
	return session.Save()
}

// safeNext accepts only local paths so the login form cannot be used as an
// open redirect.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return ""
	}
	return next
}
