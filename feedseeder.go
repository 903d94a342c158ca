package inkwell

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedSeeder seeds posts from the items of an RSS or Atom feed.
type FeedSeeder struct {
	url    string
	parser *gofeed.Parser
}

// NewFeedSeeder returns a FeedSeeder for the feed at url. If client is nil, gofeed's default client is used.
func NewFeedSeeder(url string, client *http.Client) *FeedSeeder {
	parser := gofeed.NewParser()
	if client != nil {
		parser.Client = client
	}
	return &FeedSeeder{url: url, parser: parser}
}

// Seed fetches the feed and returns one record per item, numbered from 1 in feed order.
func (fs *FeedSeeder) Seed(ctx context.Context) ([]RemotePost, error) {
	feed, err := fs.parser.ParseURLWithContext(fs.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", fs.url, err)
	}

	posts := make([]RemotePost, 0, len(feed.Items))
	for i, item := range feed.Items {
		desc := item.Description
		if desc == "" {
			desc = item.Content
		}

		posts = append(posts, RemotePost{
			ID:    i + 1,
			Title: strings.TrimSpace(item.Title),
			Body:  plainLines(desc),
		})
	}

	return posts, nil
}

// plainLines strips the HTML from s and returns its non-blank lines joined by newlines
func plainLines(s string) string {
	s = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</p>", "</p>\n").Replace(s)

	var lines []string
	for _, line := range strings.Split(StripTags(s), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
