package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnhanceHTMLContent adds lazy loading to images, points relative image
// sources at mediaURL and marks external links as nofollow.
func EnhanceHTMLContent(htmlStr, mediaURL string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && !isAbsoluteURL(src) && !strings.HasPrefix(src, "/") {
			s.SetAttr("src", MediaURL(mediaURL, src))
		}
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		if href, _ := s.Attr("href"); isAbsoluteURL(href) {
			s.SetAttr("rel", "nofollow noopener noreferrer")
		}
	})

	// goquery wraps fragments in <html><body>; only the body content is wanted.
	html, _ := doc.Find("body").Html()
	if html == "" {
		html, _ = doc.Html()
	}

	return template.HTML(html)
}

// MediaURL joins the public media prefix and a stored relative path.
func MediaURL(mediaURL, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimSuffix(mediaURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "//")
}
