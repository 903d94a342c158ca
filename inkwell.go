// Package inkwell is a small blog post service. It seeds posts from a remote content API, caches them in a
// durable key-value store, and provides CRUD, listing, pagination and full-text search over the cached posts.
package inkwell

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"sync"
	"time"
)

const (
	DefaultStorageKey     = "blogPosts"
	DefaultPublicPageSize = 9
	DefaultAdminPageSize  = 10

	// SeedWindow bounds how far in the past seeded posts are dated.
	SeedWindow = 10_000_000 * time.Second
)

// Service is the main entry point for reading and managing posts. It owns the in-memory posts and keeps the
// durable snapshot in its KVStore in sync with them. A Service is safe for concurrent use.
type Service struct {
	adminPageSize  int
	clock          func() time.Time
	key            string
	logger         *slog.Logger
	publicPageSize int
	rng            *rand.Rand
	search         *searchIndex
	seeder         Seeder
	store          KVStore

	mu          sync.Mutex
	initialized bool
	posts       []*Post
}

// Options is a struct for configuring a new Service.
type Options struct {
	AdminPageSize  int              // AdminPageSize is the page size used by ListAdmin when none is given. Default is 10.
	Clock          func() time.Time // Clock returns the current time. Default is time.Now.
	Logger         *slog.Logger     // Logger is the logger used by the Service. Default is a debug logger to stderr.
	PublicPageSize int              // PublicPageSize is the page size used by List when none is given. Default is 9.
	Rand           *rand.Rand       // Rand is the source for seeded timestamps. Default is a time-seeded PCG.
	Seeder         Seeder           // Seeder provides the seed posts. Default is an HTTPSeeder for DefaultSeedURL.
	Store          KVStore          // Store is the durable storage. Default is a MemoryKVStore.
	StorageKey     string           // StorageKey is the key the posts are stored under. Default is "blogPosts".
}

// New creates a new Service with the provided options. It initializes the store but does not load or seed
// any posts; that happens on the first operation. If New fails, the store is closed.
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		opts.Store = NewMemoryKVStore()
	}

	if opts.Seeder == nil {
		opts.Seeder = NewHTTPSeeder(DefaultSeedURL, &http.Client{Timeout: 15 * time.Second})
	}

	if opts.Logger == nil {
		opts.Logger = defaultLogger()
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}

	if opts.PublicPageSize < 1 {
		opts.PublicPageSize = DefaultPublicPageSize
	}

	if opts.AdminPageSize < 1 {
		opts.AdminPageSize = DefaultAdminPageSize
	}

	search, err := newSearchIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search index: %w", err)
	}

	if err := opts.Store.Init(); err != nil {
		_ = search.close()
		_ = opts.Store.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &Service{
		adminPageSize:  opts.AdminPageSize,
		clock:          opts.Clock,
		key:            opts.StorageKey,
		logger:         opts.Logger,
		publicPageSize: opts.PublicPageSize,
		rng:            opts.Rand,
		search:         search,
		seeder:         opts.Seeder,
		store:          opts.Store,
	}, nil
}

// Close closes the search index and the store.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.search.close(); err != nil {
		return fmt.Errorf("failed to close search index: %w", err)
	}

	return s.store.Close()
}

// ensureInitialized adopts the stored posts, or seeds them if storage is empty. It runs at most once until
// ResetToSeed clears the latch. Failures leave the store empty. The caller must hold s.mu.
func (s *Service) ensureInitialized(ctx context.Context) {
	if s.initialized {
		return
	}
	s.initialized = true

	if stored := s.load(ctx); len(stored) > 0 {
		s.posts = stored
		s.reindex()
		s.logger.Debug("using stored posts", slog.Int("count", len(s.posts)))
		return
	}

	s.logger.Debug("no stored posts found, fetching seed posts")
	remote, err := s.seeder.Seed(ctx)
	if err != nil {
		s.logger.Error("failed to initialize posts", slog.String("error", err.Error()))
		s.posts = nil
		s.reindex()
		return
	}

	now := s.clock()
	posts := make([]*Post, 0, len(remote))
	for _, rp := range remote {
		posts = append(posts, transformRemotePost(rp, now, s.rng))
	}

	s.posts = posts
	s.save(ctx)
	s.reindex()
	s.logger.Debug("loaded and saved seed posts", slog.Int("count", len(s.posts)))
}

// reindex rebuilds the search index from the current posts
func (s *Service) reindex() {
	if err := s.search.rebuild(s.posts); err != nil {
		s.logger.Error("failed to rebuild search index", slog.String("error", err.Error()))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelDebug,
		}))
}
