package inkwell

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// searchDocument is the indexed form of a post
type searchDocument struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
}

// searchIndex is an in-memory bleve index over the posts of a Service
type searchIndex struct {
	index bleve.Index
}

func newSearchIndex() (*searchIndex, error) {
	index, err := bleve.NewMemOnly(defineSearchMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}
	return &searchIndex{index: index}, nil
}

func defineSearchMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	docMapping.AddFieldMappingsAt("title", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("content", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("excerpt", bleve.NewTextFieldMapping())

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func toSearchDocument(post *Post) searchDocument {
	return searchDocument{
		Title:   post.Title,
		Content: StripTags(post.Body),
		Excerpt: post.Excerpt,
	}
}

func (si *searchIndex) put(post *Post) error {
	if err := si.index.Index(post.ID, toSearchDocument(post)); err != nil {
		return fmt.Errorf("failed to index post %s: %w", post.ID, err)
	}
	return nil
}

func (si *searchIndex) remove(id string) error {
	if err := si.index.Delete(id); err != nil {
		return fmt.Errorf("failed to remove post %s from index: %w", id, err)
	}
	return nil
}

// rebuild replaces the index contents with posts
func (si *searchIndex) rebuild(posts []*Post) error {
	index, err := bleve.NewMemOnly(defineSearchMapping())
	if err != nil {
		return fmt.Errorf("failed to create bleve index: %w", err)
	}

	batch := index.NewBatch()
	for _, post := range posts {
		if err := batch.Index(post.ID, toSearchDocument(post)); err != nil {
			_ = index.Close()
			return fmt.Errorf("failed to index post %s: %w", post.ID, err)
		}
	}

	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return fmt.Errorf("failed to index posts: %w", err)
	}

	old := si.index
	si.index = index
	return old.Close()
}

// query returns the ids of the posts on the given page of matches for text, in relevance order,
// along with the total number of matches.
func (si *searchIndex) query(text string, page, pageSize int) ([]string, int, error) {
	titleQuery := bleve.NewMatchQuery(text)
	titleQuery.SetField("title")
	titleQuery.SetBoost(2)

	contentQuery := bleve.NewMatchQuery(text)
	contentQuery.SetField("content")

	excerptQuery := bleve.NewMatchQuery(text)
	excerptQuery.SetField("excerpt")

	q := bleve.NewDisjunctionQuery(titleQuery, contentQuery, excerptQuery)

	offset := (page - 1) * pageSize
	request := bleve.NewSearchRequestOptions(q, pageSize, offset, false)

	result, err := si.index.Search(request)
	if err != nil {
		return nil, 0, fmt.Errorf("error searching for posts: %w", err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}

	return ids, int(result.Total), nil
}

func (si *searchIndex) close() error {
	return si.index.Close()
}
