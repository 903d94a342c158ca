package inkwell

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultSeedURL is the base URL of the remote content API used for seed posts.
const DefaultSeedURL = "https://jsonplaceholder.typicode.com"

// RemotePost is a raw seed record as returned by the remote content API.
type RemotePost struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Seeder provides the posts a Service starts with when its storage is empty.
type Seeder interface {
	Seed(ctx context.Context) ([]RemotePost, error)
}

// SeederFunc adapts a function to the Seeder interface.
type SeederFunc func(ctx context.Context) ([]RemotePost, error)

// Seed calls f(ctx).
func (f SeederFunc) Seed(ctx context.Context) ([]RemotePost, error) {
	return f(ctx)
}

// HTTPSeeder fetches seed posts from the collection endpoint of a JSON content API.
type HTTPSeeder struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSeeder returns an HTTPSeeder for baseURL. If client is nil, http.DefaultClient is used.
func NewHTTPSeeder(baseURL string, client *http.Client) *HTTPSeeder {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSeeder{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

// Seed issues a GET request for <baseURL>/posts and decodes the JSON array it returns.
func (hs *HTTPSeeder) Seed(ctx context.Context) ([]RemotePost, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hs.baseURL+"/posts", nil)
	if err != nil {
		return nil, fmt.Errorf("creating seed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching seed posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrSeedStatus, resp.Status)
	}

	var posts []RemotePost
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decoding seed posts: %w", err)
	}

	return posts, nil
}

// transformRemotePost converts a seed record into a Post. The created time is random within SeedWindow before now,
// and the updated time is random between the created time and now.
func transformRemotePost(rp RemotePost, now time.Time, rng *rand.Rand) *Post {
	windowMillis := SeedWindow.Milliseconds()
	created := now.Add(-time.Duration(rng.Int64N(windowMillis+1)) * time.Millisecond)
	sinceCreated := now.Sub(created).Milliseconds()
	updated := created.Add(time.Duration(rng.Int64N(sinceCreated+1)) * time.Millisecond)

	return &Post{
		ID:        strconv.Itoa(rp.ID),
		Title:     rp.Title,
		Body:      paragraphs(rp.Body),
		Excerpt:   GenerateExcerpt(rp.Body),
		CreatedAt: timestamp(created),
		UpdatedAt: timestamp(updated),
	}
}
