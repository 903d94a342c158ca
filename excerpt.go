package inkwell

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ExcerptLength is the maximum number of characters kept in an excerpt before the ellipsis.
const ExcerptLength = 150

var (
	stripPolicy = bluemonday.StrictPolicy()

	// Angle brackets left after unescaping could form a tag again
	angleBrackets = strings.NewReplacer("<", "", ">", "")
)

// StripTags removes all HTML tags from s and returns plain text, with entities such as &amp; decoded.
// The result never contains < or >.
func StripTags(s string) string {
	return angleBrackets.Replace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// GenerateExcerpt strips the HTML from body and truncates it to ExcerptLength characters,
// appending "..." when truncated.
func GenerateExcerpt(body string) string {
	return truncate(StripTags(body), ExcerptLength)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// paragraphs wraps each newline-separated line of text in paragraph markup
func paragraphs(text string) string {
	return "<p>" + strings.Join(strings.Split(text, "\n"), "</p><p>") + "</p>"
}
