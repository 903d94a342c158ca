package inkwell_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hypergopher/inkwell"
)

// testClock is a clock that moves forward one second every time it is read
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)
	return c.now
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// remotePosts returns n seed records with ids 1..n
func remotePosts(n int) []inkwell.RemotePost {
	posts := make([]inkwell.RemotePost, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, inkwell.RemotePost{
			ID:    i,
			Title: fmt.Sprintf("Seed post %d", i),
			Body:  fmt.Sprintf("First line of post %d\nSecond line of post %d", i, i),
		})
	}
	return posts
}

// countingSeeder returns the same seed records on every call and counts the calls
type countingSeeder struct {
	mu    sync.Mutex
	calls int
	posts []inkwell.RemotePost
	err   error
}

func (cs *countingSeeder) Seed(_ context.Context) ([]inkwell.RemotePost, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.calls++
	return cs.posts, cs.err
}

func (cs *countingSeeder) Calls() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.calls
}

func createService(t *testing.T, store inkwell.KVStore, seeder inkwell.Seeder) *inkwell.Service {
	t.Helper()

	svc, err := inkwell.New(inkwell.Options{
		Store:  store,
		Seeder: seeder,
		Logger: testLogger(),
		Clock:  newTestClock().Now,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = svc.Close()
	})

	return svc
}

func ptr(s string) *string {
	return &s
}
