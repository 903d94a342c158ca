package inkwell

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
)

// Create creates a new post at the head of the collection and persists it. The new post's ID is one more than
// the highest numeric ID in the store. Create does not validate data; see CreatePostData.Validate.
func (s *Service) Create(ctx context.Context, data CreatePostData) *Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureInitialized(ctx)

	now := timestamp(s.clock())
	post := &Post{
		ID:        strconv.Itoa(s.maxID() + 1),
		Title:     data.Title,
		Body:      data.Body,
		Excerpt:   GenerateExcerpt(data.Body),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.posts = slices.Insert(s.posts, 0, post)
	s.save(ctx)
	s.index(post)

	s.logger.Debug("created post", slog.String("id", post.ID), slog.Int("total", len(s.posts)))
	return post.clone()
}

// Update merges the non-nil fields of data onto the post with the given ID and persists it. The excerpt is
// recomputed when the body changes. It returns false if the post does not exist.
func (s *Service) Update(ctx context.Context, id string, data UpdatePostData) (*Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureInitialized(ctx)

	i := s.indexOf(id)
	if i == -1 {
		s.logger.Debug("post not found for update", slog.String("id", id))
		return nil, false
	}

	post := s.posts[i].clone()
	if data.Title != nil {
		post.Title = *data.Title
	}

	if data.Body != nil {
		post.Body = *data.Body
		post.Excerpt = GenerateExcerpt(post.Body)
	}

	updated := timestamp(s.clock())
	if updated.Before(post.UpdatedAt) {
		updated = post.UpdatedAt
	}
	post.UpdatedAt = updated

	s.posts[i] = post
	s.save(ctx)
	s.index(post)

	s.logger.Debug("updated post", slog.String("id", post.ID))
	return post.clone(), true
}

// Delete removes the post with the given ID and persists the change. It returns false if the post does not exist.
func (s *Service) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureInitialized(ctx)

	i := s.indexOf(id)
	if i == -1 {
		s.logger.Debug("post not found for deletion", slog.String("id", id))
		return false
	}

	s.posts = slices.Delete(s.posts, i, i+1)
	s.save(ctx)

	if err := s.search.remove(id); err != nil {
		s.logger.Error("failed to update search index", slog.String("error", err.Error()))
	}

	s.logger.Debug("deleted post", slog.String("id", id), slog.Int("remaining", len(s.posts)))
	return true
}

// ClearAll removes every post and the stored snapshot. It does not reseed: later calls see an empty collection
// until ResetToSeed is called or a new Service starts with empty storage.
func (s *Service) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.posts = nil
	s.remove(ctx)
	s.reindex()

	s.logger.Debug("cleared all posts")
}

// ResetToSeed removes the stored snapshot and all posts, then seeds the collection again.
func (s *Service) ResetToSeed(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(ctx)
	s.initialized = false
	s.posts = nil

	s.ensureInitialized(ctx)
	s.logger.Debug("reset to seed posts", slog.Int("count", len(s.posts)))
}

// maxID returns the highest numeric post ID, or 0
func (s *Service) maxID() int {
	maxID := 0
	for _, post := range s.posts {
		if n := post.NumericID(); n > maxID {
			maxID = n
		}
	}
	return maxID
}

func (s *Service) indexOf(id string) int {
	return slices.IndexFunc(s.posts, func(p *Post) bool {
		return p.ID == id
	})
}

func (s *Service) index(post *Post) {
	if err := s.search.put(post); err != nil {
		s.logger.Error("failed to update search index", slog.String("error", err.Error()))
	}
}
