package inkwell

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
	"gopkg.in/yaml.v3"
)

type FrontmatterFormat string

const (
	FrontmatterTOML FrontmatterFormat = "toml"
	FrontmatterYAML FrontmatterFormat = "yaml"
)

// PostMeta represents the frontmatter of a post markdown file
type PostMeta struct {
	ID      string    `yaml:"id,omitempty" toml:"id,omitempty"`
	Title   string    `yaml:"title" toml:"title"`
	Created time.Time `yaml:"created" toml:"created"`
	Updated time.Time `yaml:"updated" toml:"updated"`
}

type MarkdownParserFunc func(input []byte) (CreatePostData, error)

// DefaultMarkdownParser returns a MarkdownParserFunc that uses the default goldmark parser with the following extensions:
// - GFM
// - Typographer
// - Footnote
// - Frontmatter
// It also enables the following options:
// - AutoHeadingID
// - Attribute
// - Unsafe (raw HTML in the markdown is kept, so exported posts import unchanged)
func DefaultMarkdownParser() MarkdownParserFunc {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			extension.Footnote,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return func(input []byte) (CreatePostData, error) {
		return MarkdownToPostData(md, input)
	}
}

// MarkdownToPostData converts markdown content with a title in its frontmatter to the data for a new post.
func MarkdownToPostData(md goldmark.Markdown, content []byte) (CreatePostData, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(ctx)); err != nil {
		return CreatePostData{}, fmt.Errorf("failed to convert markdown: %w", err)
	}

	data := frontmatter.Get(ctx)
	if data == nil {
		return CreatePostData{}, fmt.Errorf("%w: no frontmatter found", ErrInvalidFrontmatter)
	}

	var meta PostMeta
	if err := data.Decode(&meta); err != nil {
		return CreatePostData{}, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}

	if strings.TrimSpace(meta.Title) == "" {
		return CreatePostData{}, fmt.Errorf("%w: title is required", ErrInvalidFrontmatter)
	}

	return CreatePostData{
		Title: meta.Title,
		Body:  strings.TrimSpace(buf.String()),
	}, nil
}

// ReadMarkdownFile reads a markdown file from the filesystem and converts it to the data for a new post.
func ReadMarkdownFile(markdownParser MarkdownParserFunc, path string) (CreatePostData, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return CreatePostData{}, fmt.Errorf("failed to read file: %w", err)
	}

	data, err := markdownParser(file)
	if err != nil {
		return CreatePostData{}, fmt.Errorf("failed to convert %s: %w", path, err)
	}

	return data, nil
}

// PostToMarkdown renders a post as a markdown document with frontmatter in the given format. The HTML body
// is written as-is, which markdown allows.
func PostToMarkdown(post *Post, format FrontmatterFormat) ([]byte, error) {
	meta := &PostMeta{
		ID:      post.ID,
		Title:   post.Title,
		Created: post.CreatedAt,
		Updated: post.UpdatedAt,
	}

	fm, err := generateFrontmatter(meta, format)
	if err != nil {
		return nil, err
	}

	var content string
	switch format {
	case FrontmatterYAML:
		content = fmt.Sprintf("---\n%s---\n\n%s\n", fm, post.Body)
	case FrontmatterTOML:
		content = fmt.Sprintf("+++\n%s+++\n\n%s\n", fm, post.Body)
	}

	return []byte(content), nil
}

// WriteMarkdownFile writes a post to <dir>/<id>-<slug>.md and returns the file path.
func WriteMarkdownFile(dir string, post *Post, format FrontmatterFormat) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	content, err := PostToMarkdown(post, format)
	if err != nil {
		return "", err
	}

	name := post.ID
	if s := post.Slug(); s != "" {
		name += "-" + s
	}

	filePath := filepath.Join(dir, name+".md")
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return filePath, fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

func generateFrontmatter(meta *PostMeta, format FrontmatterFormat) (string, error) {
	var fm strings.Builder

	switch format {
	case FrontmatterYAML:
		yamlData, err := yaml.Marshal(meta)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML frontmatter: %w", err)
		}
		fm.Write(yamlData)

	case FrontmatterTOML:
		encoder := toml.NewEncoder(&fm)
		if err := encoder.Encode(meta); err != nil {
			return "", fmt.Errorf("failed to marshal TOML frontmatter: %w", err)
		}

	default:
		return "", fmt.Errorf("unsupported frontmatter format: %s", format)
	}

	return fm.String(), nil
}
