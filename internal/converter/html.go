// Package converter normalizes documentation files before they are
// serialized: legacy encodings are decoded to UTF-8 and HTML pages are
// reduced to their main content and converted to Markdown.
package converter

import (
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// TagsToRemove are HTML elements dropped before conversion
var TagsToRemove = []string{
	"script",
	"style",
	"noscript",
	"iframe",
	"object",
	"embed",
	"form",
	"button",
	"nav",
	"header",
	"footer",
	"aside",
}

// HTMLConverter converts HTML documentation pages to Markdown
type HTMLConverter struct {
	selector string
}

// HTMLOptions contains options for the converter
type HTMLOptions struct {
	// Selector picks the main content element; empty uses readability
	Selector string
}

// NewHTMLConverter creates a new HTML converter
func NewHTMLConverter(opts HTMLOptions) *HTMLConverter {
	return &HTMLConverter{selector: opts.Selector}
}

// Convert decodes content, extracts its main content and returns Markdown.
// name is the page's path, used to resolve relative links.
func (c *HTMLConverter) Convert(content []byte, name string) (string, error) {
	utf8Content, err := ToUTF8(content)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	html := string(utf8Content)

	mainHTML, err := c.extractMain(html, name)
	if err != nil {
		return "", err
	}

	clean, err := sanitize(mainHTML)
	if err != nil {
		return "", err
	}

	markdown, err := md.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return cleanMarkdown(markdown), nil
}

func (c *HTMLConverter) extractMain(html, name string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}

	if c.selector != "" {
		if sel := doc.Find(c.selector).First(); sel.Length() > 0 {
			return sel.Html()
		}
	}

	pageURL := &url.URL{Scheme: "file", Path: "/" + strings.TrimPrefix(name, "/")}
	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		return article.Content, nil
	}

	// readability gives up on short pages; keep the whole body
	if body := doc.Find("body"); body.Length() > 0 {
		return body.Html()
	}
	return html, nil
}

func sanitize(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, tag := range TagsToRemove {
		doc.Find(tag).Remove()
	}
	doc.Find("[hidden]").Remove()
	doc.Find("[style*='display:none']").Remove()
	doc.Find("[style*='display: none']").Remove()

	return doc.Find("body").Html()
}

// cleanMarkdown collapses long runs of blank lines and trims the result
func cleanMarkdown(markdown string) string {
	for strings.Contains(markdown, "\n\n\n\n") {
		markdown = strings.ReplaceAll(markdown, "\n\n\n\n", "\n\n\n")
	}
	return strings.TrimSpace(markdown)
}
