package inkwell

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// List returns the given page of posts, newest first. A pageSize below 1 uses the public page size.
func (s *Service) List(ctx context.Context, page, pageSize int) Paginator {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureInitialized(ctx)

	if pageSize < 1 {
		pageSize = s.publicPageSize
	}

	s.logger.Debug("listing posts", slog.Int("total", len(s.posts)), slog.Int("page", page))
	return Paginate(s.sorted(), page, pageSize)
}

// ListAdmin returns the given page of posts, newest first, for the admin surface. A pageSize below 1 uses the
// admin page size.
func (s *Service) ListAdmin(ctx context.Context, page, pageSize int) Paginator {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureInitialized(ctx)

	if pageSize < 1 {
		pageSize = s.adminPageSize
	}

	s.logger.Debug("listing admin posts", slog.Int("total", len(s.posts)), slog.Int("page", page))
	return Paginate(s.sorted(), page, pageSize)
}

// GetByID returns the post with the given ID. It returns false if the post does not exist.
func (s *Service) GetByID(ctx context.Context, id string) (*Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureInitialized(ctx)

	i := s.indexOf(id)
	if i == -1 {
		s.logger.Debug("post not found", slog.String("id", id))
		return nil, false
	}

	return s.posts[i].clone(), true
}

// Count returns the total number of posts.
func (s *Service) Count(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureInitialized(ctx)
	return len(s.posts)
}

// Search returns the given page of posts matching text in their title, body or excerpt, most relevant first.
// A blank query yields an empty page. A pageSize below 1 uses the public page size.
func (s *Service) Search(ctx context.Context, text string, page, pageSize int) Paginator {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureInitialized(ctx)

	if pageSize < 1 {
		pageSize = s.publicPageSize
	}

	text = strings.TrimSpace(text)
	if text == "" || page < 1 {
		return NewPaginator(nil, 0, page, pageSize)
	}

	ids, total, err := s.search.query(text, page, pageSize)
	if err != nil {
		s.logger.Error("failed to search posts", slog.String("query", text), slog.String("error", err.Error()))
		return NewPaginator(nil, 0, page, pageSize)
	}

	posts := make([]*Post, 0, len(ids))
	for _, id := range ids {
		if i := s.indexOf(id); i != -1 {
			posts = append(posts, s.posts[i].clone())
		}
	}

	return NewPaginator(posts, total, page, pageSize)
}

// sorted returns copies of the posts ordered by creation time, newest first
func (s *Service) sorted() []*Post {
	posts := make([]*Post, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, post.clone())
	}

	slices.SortStableFunc(posts, func(a, b *Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return posts
}
