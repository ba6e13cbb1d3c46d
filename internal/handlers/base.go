package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// base carries what every handler needs.
type base struct {
	blog     *services.Blog
	log      *zap.Logger
	mediaURL string
}

func newBase(blog *services.Blog, log *zap.Logger, mediaURL string) base {
	if log == nil {
		log = zap.NewNop()
	}
	return base{blog: blog, log: log, mediaURL: mediaURL}
}

// RenderError maps a façade error onto the response the client sees.
func (h *base) RenderError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAuthenticationRequired):
		c.Redirect(http.StatusFound, middleware.LoginURL(c.Request.URL.RequestURI()))
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusOK, gin.H{"message": err.Error(), "changed": false})
	default:
		h.log.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// postView is a post as the API returns it, with rendered text.
type postView struct {
	models.Post
	TextHTML template.HTML `json:"text_html"`
	ImageURL string        `json:"image_url,omitempty"`
}

type pageView struct {
	Items       []postView `json:"items"`
	Number      int        `json:"page"`
	PageSize    int        `json:"page_size"`
	Total       int64      `json:"total"`
	TotalPages  int        `json:"total_pages"`
	HasNext     bool       `json:"has_next"`
	HasPrevious bool       `json:"has_previous"`
}

type commentView struct {
	models.Comment
	TextHTML template.HTML `json:"text_html"`
}

func (h *base) newPostView(p models.Post) postView {
	return postView{
		Post:     p,
		TextHTML: utils.RenderText(p.Text, h.mediaURL),
		ImageURL: utils.MediaURL(h.mediaURL, p.Image),
	}
}

func (h *base) newPageView(p *services.Page) pageView {
	items := make([]postView, len(p.Items))
	for i, post := range p.Items {
		items[i] = h.newPostView(post)
	}
	return pageView{
		Items:       items,
		Number:      p.Number,
		PageSize:    p.PageSize,
		Total:       p.Total,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext(),
		HasPrevious: p.HasPrevious(),
	}
}

func (h *base) newCommentViews(comments []models.Comment) []commentView {
	views := make([]commentView, len(comments))
	for i, com := range comments {
		views[i] = commentView{Comment: com, TextHTML: utils.RenderText(com.Text, h.mediaURL)}
	}
	return views
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

// postID reads the :id path parameter, answering 404 when it is malformed.
func postID(c *gin.Context) (uint, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	}
	return id, ok
}

func pageParam(c *gin.Context) int {
	return utils.ParsePage(c.Query("page"))
}
