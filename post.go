package inkwell

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Post represents a blog post
type Post struct {
	ID        string    `json:"id"`        // ID is a decimal integer string, unique within the store
	Title     string    `json:"title"`     // Title is the title of the post
	Body      string    `json:"body"`      // Body is the HTML content of the post
	Excerpt   string    `json:"excerpt"`   // Excerpt is the plain-text summary derived from Body
	CreatedAt time.Time `json:"createdAt"` // CreatedAt is the creation time
	UpdatedAt time.Time `json:"updatedAt"` // UpdatedAt is the last modified time
}

// CreatePostData holds the fields accepted when creating a post.
type CreatePostData struct {
	Title string `json:"title" yaml:"title" toml:"title"`
	Body  string `json:"body" yaml:"body" toml:"body"`
}

// UpdatePostData holds the fields accepted when updating a post. A nil field is left unchanged.
type UpdatePostData struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// Validate returns an error if the title or body is blank.
func (d CreatePostData) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrMissingTitle
	}

	if strings.TrimSpace(d.Body) == "" {
		return ErrMissingBody
	}

	return nil
}

// Validate returns an error if a provided title or body is blank.
func (d UpdatePostData) Validate() error {
	if d.Title != nil && strings.TrimSpace(*d.Title) == "" {
		return ErrMissingTitle
	}

	if d.Body != nil && strings.TrimSpace(*d.Body) == "" {
		return ErrMissingBody
	}

	return nil
}

// IsEmpty returns true if neither field is set
func (d UpdatePostData) IsEmpty() bool {
	return d.Title == nil && d.Body == nil
}

// NumericID returns the ID as an integer, or 0 if it is not numeric.
func (p *Post) NumericID() int {
	n, err := strconv.Atoi(p.ID)
	if err != nil {
		return 0
	}
	return n
}

// Slug returns the URL-friendly version of the title
func (p *Post) Slug() string {
	return slug.Make(p.Title)
}

// ETag returns an entity tag for the title and body
func (p *Post) ETag() string {
	return GenerateETag(p.Title + "\n" + p.Body)
}

// ReadingTime returns the estimated reading time of the body text
func (p *Post) ReadingTime() string {
	return EstimateReadingTime(StripTags(p.Body))
}

// CreatedDate returns the created date in the format Jan 2, 2006
func (p *Post) CreatedDate() string {
	if p.CreatedAt.IsZero() {
		return ""
	}
	return p.CreatedAt.Format("Jan 2, 2006")
}

// WasEdited returns true if the post was updated after it was created
func (p *Post) WasEdited() bool {
	return p.UpdatedAt.After(p.CreatedAt)
}

// clone returns a copy of the post that shares nothing with the original
func (p *Post) clone() *Post {
	c := *p
	return &c
}

// GenerateETag generates an ETag for the content.
func GenerateETag(content string) string {
	hash := sha256.New()
	hash.Write([]byte(content))
	return fmt.Sprintf("%x", hash.Sum(nil))
}

// EstimateReadingTime estimates the reading time of the content.
func EstimateReadingTime(content string) string {
	const wordsPerMinute = 200

	minutes := len(strings.Fields(content)) / wordsPerMinute

	switch {
	case minutes < 1:
		return "< 1 min"
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	default:
		return fmt.Sprintf("%d hr %d min", minutes/60, minutes%60)
	}
}

// timestamp normalizes t so that it survives a JSON round trip unchanged
func timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// SerializePosts serializes posts to a JSON array
func SerializePosts(posts []*Post) ([]byte, error) {
	if posts == nil {
		posts = []*Post{}
	}
	return json.Marshal(posts)
}

// DeserializePosts deserializes a JSON array of posts
func DeserializePosts(data []byte) ([]*Post, error) {
	var posts []*Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
