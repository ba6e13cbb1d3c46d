package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"yatube/internal/models"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sitemapPostLimit = services.MaxPageSize
	feedPostLimit    = 20
)

type SEOHandler struct {
	base
	siteURL string
}

func NewSEOHandler(blog *services.Blog, log *zap.Logger, mediaURL, siteURL string) *SEOHandler {
	return &SEOHandler{base: newBase(blog, log, mediaURL), siteURL: strings.TrimSuffix(siteURL, "/")}
}

func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /auth/
Disallow: /create/
Disallow: /follow/

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapXML lists the index, every group and the most recent posts.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().Format("2006-01-02")

	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs,
		sitemapURL{Loc: h.siteURL + "/", LastMod: now, ChangeFreq: "hourly", Priority: "1.0"},
		sitemapURL{Loc: h.siteURL + "/groups/", LastMod: now, ChangeFreq: "weekly", Priority: "0.8"},
	)

	groups, err := h.blog.ListGroups(ctx)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	for _, g := range groups {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + "/group/" + g.Slug + "/",
			ChangeFreq: "daily",
			Priority:   "0.7",
		})
	}

	page, err := h.blog.ListPosts(ctx, services.AllPosts(), 1, sitemapPostLimit)
	if err != nil {
		h.RenderError(c, err)
		return
	}
	for _, post := range page.Items {
		// Fresh posts change more often while comments come in.
		daysSinceCreated := time.Since(post.CreatedAt).Hours() / 24
		priority, changefreq := "0.6", "weekly"
		if daysSinceCreated < 7 {
			priority, changefreq = "0.8", "daily"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + postURL(post.ID),
			LastMod:    post.CreatedAt.Format("2006-01-02"),
			ChangeFreq: changefreq,
			Priority:   priority,
		})
	}

	h.writeXML(c, "application/xml; charset=utf-8", set)
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description cdata   `xml:"description"`
	Author      string  `xml:"author"`
	Category    string  `xml:"category,omitempty"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

// RSSFeed renders the newest posts as RSS 2.0. It shares the cached index.
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	page, err := h.blog.ListPosts(c.Request.Context(), services.AllPosts(), 1, feedPostLimit)
	if err != nil {
		h.RenderError(c, err)
		return
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:         "Yatube",
			Link:          h.siteURL + "/",
			Description:   "Newest posts",
			Language:      "ru",
			LastBuildDate: time.Now().Format(time.RFC1123Z),
		},
	}
	for _, post := range page.Items {
		feed.Channel.Items = append(feed.Channel.Items, h.feedItem(post))
	}

	h.writeXML(c, "application/rss+xml; charset=utf-8", feed)
}

func (h *SEOHandler) feedItem(post models.Post) rssItem {
	link := h.siteURL + postURL(post.ID)
	item := rssItem{
		Title:       post.String(),
		Link:        link,
		Description: cdata{Value: string(h.newPostView(post).TextHTML)},
		Author:      post.Author.Username,
		PubDate:     post.CreatedAt.Format(time.RFC1123Z),
		GUID:        rssGUID{IsPermaLink: true, Value: link},
	}
	if post.Group != nil {
		item.Category = post.Group.Title
	}
	return item
}

func (h *SEOHandler) writeXML(c *gin.Context, contentType string, v any) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		h.RenderError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}
