package inkwell_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypergopher/inkwell"
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := createService(t, inkwell.NewMemoryKVStore(), &countingSeeder{posts: remotePosts(5)})

	post := svc.Create(ctx, inkwell.CreatePostData{Title: "T", Body: "<p>Hello <em>there</em></p>"})

	assert.Equal(t, "6", post.ID)
	assert.Equal(t, "T", post.Title)
	assert.Equal(t, "<p>Hello <em>there</em></p>", post.Body)
	assert.Equal(t, "Hello there", post.Excerpt)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	assert.Equal(t, 6, svc.Count(ctx))

	// New posts are inserted at the head and are the newest
	page := svc.List(ctx, 1, 10)
	require.NotEmpty(t, page.Posts)
	assert.Equal(t, "6", page.Posts[0].ID)
}

func TestService_Create_IDsAreUniqueAndIncreasing(t *testing.T) {
	ctx := context.Background()
	svc := createService(t, inkwell.NewMemoryKVStore(), &countingSeeder{posts: remotePosts(3)})

	seen := map[string]bool{}
	last := 3
	for i := 0; i < 10; i++ {
		post := svc.Create(ctx, inkwell.CreatePostData{Title: "Post", Body: "Body"})
		assert.False(t, seen[post.ID], "duplicate id %s", post.ID)
		seen[post.ID] = true

		n, err := strconv.Atoi(post.ID)
		require.NoError(t, err)
		assert.Greater(t, n, last)
		last = n
	}

	// Deleting the newest post frees its id, but never an older one
	require.True(t, svc.Delete(ctx, strconv.Itoa(last)))
	require.True(t, svc.Delete(ctx, "1"))
	post := svc.Create(ctx, inkwell.CreatePostData{Title: "Post", Body: "Body"})
	assert.Equal(t, strconv.Itoa(last), post.ID)
}

func TestService_Create_EmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := createService(t, inkwell.NewMemoryKVStore(), &countingSeeder{})

	post := svc.Create(ctx, inkwell.CreatePostData{Title: "First", Body: "Body"})
	assert.Equal(t, "1", post.ID)
}

func TestService_Create_DoesNotValidate(t *testing.T) {
	ctx := context.Background()
	svc := createService(t, inkwell.NewMemoryKVStore(), &countingSeeder{})

	post := svc.Create(ctx, inkwell.CreatePostData{})
	assert.Equal(t, "1", post.ID)
	assert.Equal(t, "", post.Excerpt)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := createService(t, inkwell.NewMemoryKVStore(), &countingSeeder{})

	original := svc.Create(ctx, inkwell.CreatePostData{Title: "Title", Body: "<p>Original body</p>"})

	t.Run("Update title only", func(t *testing.T) {
		before, ok := svc.GetByID(ctx, original.ID)
		require.True(t, ok)

		updated, ok := svc.Update(ctx, original.ID, inkwell.UpdatePostData{Title: ptr("New title")})
		require.True(t, ok)

		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, before.Body, updated.Body)
		assert.Equal(t, before.Excerpt, updated.Excerpt)
		assert.Equal(t, before.CreatedAt, updated.CreatedAt)
		assert.False(t, updated.UpdatedAt.Before(before.UpdatedAt))
		assert.True(t, updated.WasEdited())
	})

	t.Run("Update body only", func(t *testing.T) {
		before, ok := svc.GetByID(ctx, original.ID)
		require.True(t, ok)

		updated, ok := svc.Update(ctx, original.ID, inkwell.UpdatePostData{Body: ptr("<h2>Changed</h2><p>body</p>")})
		require.True(t, ok)

		assert.Equal(t, before.Title, updated.Title)
		assert.Equal(t, "<h2>Changed</h2><p>body</p>", updated.Body)
		assert.Equal(t, "Changedbody", updated.Excerpt)
		assert.Equal(t, before.CreatedAt, updated.CreatedAt)
		assert.False(t, updated.UpdatedAt.Before(before.UpdatedAt))
	})

	t.Run("Update persists", func(t *testing.T) {
		got, ok := svc.GetByID(ctx, original.ID)
		require.True(t, ok)
		assert.Equal(t, "New title", got.Title)
		assert.Equal(t, "Changedbody", got.Excerpt)
	})

	t.Run("Update a post that doesn't exist", func(t *testing.T) {
		updated, ok := svc.Update(ctx, "does-not-exist", inkwell.UpdatePostData{Title: ptr("x")})
		assert.False(t, ok)
		assert.Nil(t, updated)
	})
}

func TestService_Update_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	svc := createService(t, inkwell.NewMemoryKVStore(), &countingSeeder{})

	post := svc.Create(ctx, inkwell.CreatePostData{Title: "Title", Body: "Body"})
	post.Title = "mutated by caller"

	got, ok := svc.GetByID(ctx, post.ID)
	require.True(t, ok)
	assert.Equal(t, "Title", got.Title)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := createService(t, inkwell.NewMemoryKVStore(), &countingSeeder{posts: remotePosts(4)})

	before := svc.Count(ctx)
	assert.True(t, svc.Delete(ctx, "2"))

	_, ok := svc.GetByID(ctx, "2")
	assert.False(t, ok)
	assert.Equal(t, before-1, svc.Count(ctx))

	t.Run("Delete a post that doesn't exist", func(t *testing.T) {
		assert.False(t, svc.Delete(ctx, "2"))
		assert.Equal(t, before-1, svc.Count(ctx))
	})
}

func TestService_ClearAll(t *testing.T) {
	ctx := context.Background()
	store := inkwell.NewMemoryKVStore()
	seeder := &countingSeeder{posts: remotePosts(5)}
	svc := createService(t, store, seeder)

	require.Equal(t, 5, svc.Count(ctx))

	svc.ClearAll(ctx)
	assert.Equal(t, 0, svc.Count(ctx))

	page := svc.List(ctx, 1, 10)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, seeder.Calls(), "clearing must not reseed")

	_, err := store.Get(ctx, inkwell.DefaultStorageKey)
	assert.ErrorIs(t, err, inkwell.ErrKeyNotFound)
}

func TestService_ClearAll_BeforeFirstUse(t *testing.T) {
	ctx := context.Background()
	seeder := &countingSeeder{posts: remotePosts(5)}
	svc := createService(t, inkwell.NewMemoryKVStore(), seeder)

	svc.ClearAll(ctx)
	assert.Equal(t, 0, svc.Count(ctx))
	assert.Equal(t, 0, seeder.Calls())
}

func TestService_ResetToSeed(t *testing.T) {
	ctx := context.Background()
	seeder := &countingSeeder{posts: remotePosts(5)}
	svc := createService(t, inkwell.NewMemoryKVStore(), seeder)

	created := svc.Create(ctx, inkwell.CreatePostData{Title: "Extra", Body: "Body"})
	require.Equal(t, 6, svc.Count(ctx))

	svc.ResetToSeed(ctx)

	assert.Equal(t, 5, svc.Count(ctx))
	assert.Equal(t, 2, seeder.Calls())
	_, ok := svc.GetByID(ctx, created.ID)
	assert.False(t, ok)

	// Reset also works after a clear
	svc.ClearAll(ctx)
	svc.ResetToSeed(ctx)
	assert.Equal(t, 5, svc.Count(ctx))
}

func TestService_RoundTripAcrossRestart(t *testing.T) {
	ctx := context.Background()
	store := inkwell.NewMemoryKVStore()
	seeder := &countingSeeder{posts: remotePosts(3)}

	svc := createService(t, store, seeder)
	created := svc.Create(ctx, inkwell.CreatePostData{Title: "T", Body: "<p>B</p>"})
	updated, ok := svc.Update(ctx, "1", inkwell.UpdatePostData{Title: ptr("Renamed")})
	require.True(t, ok)

	// A new service on the same storage simulates a process restart
	restarted := createService(t, store, seeder)

	got, ok := restarted.GetByID(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)

	got, ok = restarted.GetByID(ctx, "1")
	require.True(t, ok)
	assert.Equal(t, updated, got)

	assert.Equal(t, 4, restarted.Count(ctx))
	assert.Equal(t, 1, seeder.Calls())
}

// failingStore is a KVStore whose reads and writes always fail
type failingStore struct{}

func (failingStore) Init() error {
	return nil
}

func (failingStore) Close() error {
	return nil
}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage unavailable")
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("storage unavailable")
}

func TestService_StorageFailuresAreAbsorbed(t *testing.T) {
	ctx := context.Background()
	svc := createService(t, failingStore{}, &countingSeeder{posts: remotePosts(2)})

	assert.Equal(t, 2, svc.Count(ctx))

	post := svc.Create(ctx, inkwell.CreatePostData{Title: "T", Body: "B"})
	assert.Equal(t, "3", post.ID)

	_, ok := svc.Update(ctx, post.ID, inkwell.UpdatePostData{Body: ptr(strings.Repeat("x", 10))})
	assert.True(t, ok)
	assert.True(t, svc.Delete(ctx, post.ID))

	svc.ClearAll(ctx)
	assert.Equal(t, 0, svc.Count(ctx))
}

func TestService_CorruptSnapshotIsTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := inkwell.NewMemoryKVStore()
	require.NoError(t, store.Set(ctx, inkwell.DefaultStorageKey, []byte("{not json")))

	seeder := &countingSeeder{posts: remotePosts(2)}
	svc := createService(t, store, seeder)

	assert.Equal(t, 2, svc.Count(ctx))
	assert.Equal(t, 1, seeder.Calls())
}

// brokenInitStore is a KVStore whose Init fails after acquiring resources, and which records Close
type brokenInitStore struct {
	failingStore
	closed bool
}

func (s *brokenInitStore) Init() error {
	return errors.New("schema creation failed")
}

func (s *brokenInitStore) Close() error {
	s.closed = true
	return nil
}

func TestNew_ClosesStoreWhenInitFails(t *testing.T) {
	store := &brokenInitStore{}

	svc, err := inkwell.New(inkwell.Options{Store: store, Seeder: &countingSeeder{}, Logger: testLogger()})
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.True(t, store.closed, "New must release the store it failed to initialize")
}
