// Package htmltext renders, sanitizes and flattens stored rich text.
package htmltext

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Content formats stored alongside rich text.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// ExcerptLength is the rune budget of a derived excerpt.
const ExcerptLength = 200

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

var blockTag = regexp.MustCompile(`(?i)<(/?)(p|div|br|li|ul|ol|h[1-6]|tr|td|th|table|blockquote|pre|hr)\b`)

var (
	ugcPolicy    *bluemonday.Policy
	stripPolicy  *bluemonday.Policy
	policiesOnce sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policiesOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
		ugcPolicy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td", "u", "s", "sub", "sup", "mark")
		ugcPolicy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")

		stripPolicy = bluemonday.StrictPolicy()
	})
	return ugcPolicy, stripPolicy
}

// Markdown renders markdown source to HTML. Rendering errors fall back to the
// escaped source so callers always get displayable text.
func Markdown(src string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(src), &buf); err != nil {
		return html.EscapeString(src)
	}
	return buf.String()
}

// ToHTML returns content as HTML according to its stored format.
func ToHTML(content, format string) string {
	if format == FormatMarkdown {
		return Markdown(content)
	}
	return content
}

// Sanitize removes unsafe markup from user supplied HTML.
func Sanitize(src string) string {
	if src == "" {
		return ""
	}
	p, _ := policies()
	return p.Sanitize(src)
}

// StripTags drops all markup and collapses whitespace.
func StripTags(src string) string {
	if src == "" {
		return ""
	}
	_, p := policies()
	// Block boundaries would otherwise glue words together.
	spaced := blockTag.ReplaceAllString(src, " <$1$2")
	text := html.UnescapeString(p.Sanitize(spaced))
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts s to n runes and appends "..." when anything was removed.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRight(string(r[:n]), " ") + "..."
}

// Excerpt derives a plain-text summary of stored content.
func Excerpt(content, format string) string {
	return Truncate(StripTags(ToHTML(content, format)), ExcerptLength)
}
