package handlers

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GroupHandler struct {
	base
}

func NewGroupHandler(blog *services.Blog, log *zap.Logger) *GroupHandler {
	return &GroupHandler{base: newBase(blog, log, "")}
}

// ListGroups - every group ordered by title.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.blog.ListGroups(c.Request.Context())
	if err != nil {
		h.RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *GroupHandler) Create(c *gin.Context) {
	group, err := h.blog.CreateGroup(c.Request.Context(), middleware.CurrentUserID(c), services.GroupInput{
		Title:       c.PostForm("title"),
		Slug:        c.PostForm("slug"),
		Description: c.PostForm("description"),
	})
	if err != nil {
		h.RenderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/group/"+group.Slug+"/")
}
