package inkwell

import (
	"context"
	"errors"
	"log/slog"
)

// load reads the posts snapshot from the store. A missing, empty or unreadable snapshot yields no posts.
func (s *Service) load(ctx context.Context) []*Post {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Error("failed to load posts", slog.String("error", err.Error()))
		}
		return nil
	}

	if len(data) == 0 {
		return nil
	}

	posts, err := DeserializePosts(data)
	if err != nil {
		s.logger.Error("failed to parse stored posts", slog.String("error", err.Error()))
		return nil
	}

	loaded := make([]*Post, 0, len(posts))
	for _, post := range posts {
		if post != nil {
			loaded = append(loaded, post)
		}
	}

	s.logger.Debug("loaded posts", slog.Int("count", len(loaded)))
	return loaded
}

// save writes a snapshot of all posts to the store. Failures are logged and otherwise ignored.
func (s *Service) save(ctx context.Context) {
	data, err := SerializePosts(s.posts)
	if err != nil {
		s.logger.Error("failed to serialize posts", slog.String("error", err.Error()))
		return
	}

	if err := s.store.Set(ctx, s.key, data); err != nil {
		s.logger.Error("failed to save posts", slog.String("error", err.Error()))
		return
	}

	s.logger.Debug("saved posts", slog.Int("count", len(s.posts)))
}

// remove deletes the snapshot from the store
func (s *Service) remove(ctx context.Context) {
	if err := s.store.Delete(ctx, s.key); err != nil {
		s.logger.Error("failed to remove stored posts", slog.String("error", err.Error()))
	}
}
