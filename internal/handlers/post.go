package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	base
}

func NewPostHandler(blog *services.Blog, log *zap.Logger, mediaURL string) *PostHandler {
	return &PostHandler{base: newBase(blog, log, mediaURL)}
}

// Index - newest posts of every author, served from the index cache.
func (h *PostHandler) Index(c *gin.Context) {
	page, err := h.blog.ListPosts(c.Request.Context(), services.AllPosts(), pageParam(c), 0)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page_obj": h.newPageView(page)})
}

// GroupPosts - /group/:slug/
func (h *PostHandler) GroupPosts(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	group, err := h.blog.GetGroup(ctx, slug)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	page, err := h.blog.ListPosts(ctx, services.ByGroup(slug), pageParam(c), 0)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"group":    group,
		"page_obj": h.newPageView(page),
	})
}

// Profile - /profile/:username/
func (h *PostHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	username := c.Param("username")

	author, err := h.blog.GetUserByUsername(ctx, username)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	page, err := h.blog.ListPosts(ctx, services.ByAuthor(username), pageParam(c), 0)
	if err != nil {
		h.RenderError(c, err)
		return
	}

	following := false
	if viewer := middleware.CurrentUserID(c); viewer != 0 && viewer != author.ID {
		if following, err = h.blog.IsFollowing(ctx, viewer, author.ID); err != nil {
			h.RenderError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"author":      author,
		"posts_count": page.Total,
		"following":   following,
		"page_obj":    h.newPageView(page),
	})
}

// Detail - /posts/:id/ with its comments.
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	post, err := h.blog.GetPost(ctx, id)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	comments, err := h.blog.ListComments(ctx, id)
	if err != nil {
		h.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     h.newPostView(*post),
		"comments": h.newCommentViews(comments),
		"can_edit": middleware.CurrentUserID(c) == post.AuthorID,
	})
}

// ShowCreate lists the groups a new post can be filed under.
func (h *PostHandler) ShowCreate(c *gin.Context) {
	groups, err := h.blog.ListGroups(c.Request.Context())
	if err != nil {
		h.RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "is_edit": false})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	groupID, _, err := groupField(c)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	upload, closeUpload, err := imageField(c)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	defer closeUpload()

	_, err = h.blog.CreatePost(c.Request.Context(), user.ID, services.PostInput{
		Text:    c.PostForm("text"),
		GroupID: groupID,
		Image:   upload,
	})
	if err != nil {
		h.RenderError(c, err)
		return
	}

	h.blog.InvalidateIndex()
	c.Redirect(http.StatusFound, profileURL(user.Username))
}

// ShowEdit returns the post for the edit form. Only the author may edit;
// everyone else is sent back to the post.
func (h *PostHandler) ShowEdit(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	post, err := h.blog.GetPost(ctx, id)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	if post.AuthorID != middleware.CurrentUserID(c) {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}

	groups, err := h.blog.ListGroups(ctx)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":    h.newPostView(*post),
		"groups":  groups,
		"is_edit": true,
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	upd := services.PostUpdate{}
	if text, exists := c.GetPostForm("text"); exists {
		upd.Text = &text
	}
	groupID, clearGroup, err := groupField(c)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	upd.GroupID, upd.ClearGroup = groupID, clearGroup

	upload, closeUpload, err := imageField(c)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	defer closeUpload()
	upd.Image = upload

	_, err = h.blog.UpdatePost(c.Request.Context(), id, middleware.CurrentUserID(c), upd)
	switch {
	case errors.Is(err, services.ErrForbidden):
		c.Redirect(http.StatusFound, postURL(id))
		return
	case err != nil:
		h.RenderError(c, err)
		return
	}

	h.blog.InvalidateIndex()
	c.Redirect(http.StatusFound, postURL(id))
}

// AddComment - /posts/:id/comment/
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	_, err := h.blog.CreateComment(c.Request.Context(), id, middleware.CurrentUserID(c), services.CommentInput{
		Text: c.PostForm("text"),
	})
	if err != nil {
		h.RenderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(id))
}

// groupField reads the optional "group" form value. A submitted empty value
// asks for the group to be cleared.
func groupField(c *gin.Context) (groupID *uint, clearGroup bool, err error) {
	raw, exists := c.GetPostForm("group")
	if !exists {
		return nil, false, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true, nil
	}
	n, perr := strconv.ParseUint(raw, 10, 0)
	if perr != nil || n == 0 {
		return nil, false, &services.ValidationError{Field: "group", Reason: "select a valid group"}
	}
	id := uint(n)
	return &id, false, nil
}

// imageField opens the optional "image" upload. The returned func closes it.
func imageField(c *gin.Context) (*services.Upload, func(), error) {
	header, err := c.FormFile("image")
	if err != nil {
		// No file, or not a multipart request at all.
		return nil, func() {}, nil
	}
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, &services.ValidationError{Field: "image", Reason: "the submitted file could not be read"}
	}
	return &services.Upload{Filename: header.Filename, Content: f}, func() { f.Close() }, nil
}
