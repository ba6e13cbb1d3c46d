package handlers

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FollowHandler struct {
	base
}

func NewFollowHandler(blog *services.Blog, log *zap.Logger, mediaURL string) *FollowHandler {
	return &FollowHandler{base: newBase(blog, log, mediaURL)}
}

// Feed - posts of every author the current user follows.
func (h *FollowHandler) Feed(c *gin.Context) {
	filter := services.ByFollowed(middleware.CurrentUserID(c))
	page, err := h.blog.ListPosts(c.Request.Context(), filter, pageParam(c), 0)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page_obj": h.newPageView(page)})
}

func (h *FollowHandler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.blog.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		h.RenderError(c, err)
		return
	}
	if _, err := h.blog.Follow(ctx, middleware.CurrentUserID(c), author.ID); err != nil {
		h.RenderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.blog.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		h.RenderError(c, err)
		return
	}
	if err := h.blog.Unfollow(ctx, middleware.CurrentUserID(c), author.ID); err != nil {
		h.RenderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}
