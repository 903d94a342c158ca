package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypergopher/inkwell"
	"github.com/hypergopher/inkwell/internal/httpapi"
)

func newTestServer(t *testing.T, seeded int) *httpapi.Server {
	t.Helper()

	seeder := inkwell.SeederFunc(func(ctx context.Context) ([]inkwell.RemotePost, error) {
		posts := make([]inkwell.RemotePost, 0, seeded)
		for i := 1; i <= seeded; i++ {
			posts = append(posts, inkwell.RemotePost{
				ID:    i,
				Title: fmt.Sprintf("Seed post %d", i),
				Body:  fmt.Sprintf("Body of seed post %d", i),
			})
		}
		return posts, nil
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := inkwell.New(inkwell.Options{
		Store:  inkwell.NewMemoryKVStore(),
		Seeder: seeder,
		Logger: logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = svc.Close()
	})

	return httpapi.New(svc, logger)
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestListAndCount(t *testing.T) {
	srv := newTestServer(t, 3)

	rec := do(t, srv, http.MethodGet, "/api/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	page := decode[inkwell.Paginator](t, rec)
	assert.Len(t, page.Posts, 3)
	assert.Equal(t, 3, page.TotalPosts)
	assert.Equal(t, inkwell.DefaultPublicPageSize, page.PageSize)

	rec = do(t, srv, http.MethodGet, "/api/admin/posts?page=2&pageSize=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[inkwell.Paginator](t, rec)
	assert.Len(t, page.Posts, 1)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)

	rec = do(t, srv, http.MethodGet, "/api/posts?page=abc&pageSize=xyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[inkwell.Paginator](t, rec)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Posts, 3)

	rec = do(t, srv, http.MethodGet, "/api/posts/count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())
}

func TestGetPost(t *testing.T) {
	srv := newTestServer(t, 2)

	rec := do(t, srv, http.MethodGet, "/api/posts/2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	post := decode[inkwell.Post](t, rec)
	assert.Equal(t, "2", post.ID)
	assert.Equal(t, "Seed post 2", post.Title)

	etag := rec.Header().Get("ETag")
	assert.Equal(t, `"`+post.ETag()+`"`, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/2", nil)
	req.Header.Set("If-None-Match", etag)
	notModified := httptest.NewRecorder()
	srv.ServeHTTP(notModified, req)
	assert.Equal(t, http.StatusNotModified, notModified.Code)

	rec = do(t, srv, http.MethodGet, "/api/posts/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"post not found"}`, rec.Body.String())
}

func TestCreatePost(t *testing.T) {
	srv := newTestServer(t, 3)

	cases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"Valid", `{"title":"New","body":"<p>Hello</p>"}`, http.StatusCreated},
		{"Blank title", `{"title":"  ","body":"x"}`, http.StatusBadRequest},
		{"Missing body", `{"title":"x"}`, http.StatusBadRequest},
		{"Unknown field", `{"title":"x","body":"y","author":"z"}`, http.StatusBadRequest},
		{"Malformed", `{"title":`, http.StatusBadRequest},
		{"Empty", ``, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/posts", tc.body)
			assert.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
			if tc.expectedStatus != http.StatusCreated {
				assert.Contains(t, decode[map[string]string](t, rec), "error")
			}
		})
	}

	rec := do(t, srv, http.MethodGet, "/api/posts/4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	post := decode[inkwell.Post](t, rec)
	assert.Equal(t, "New", post.Title)
	assert.Equal(t, "Hello", post.Excerpt)
}

func TestUpdatePost(t *testing.T) {
	srv := newTestServer(t, 2)

	for _, method := range []string{http.MethodPatch, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			rec := do(t, srv, method, "/api/posts/1", `{"title":"Renamed by `+method+`"}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			post := decode[inkwell.Post](t, rec)
			assert.Equal(t, "Renamed by "+method, post.Title)
			assert.Equal(t, "<p>Body of seed post 1</p>", post.Body)
		})
	}

	rec := do(t, srv, http.MethodPatch, "/api/posts/1", `{"body":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPatch, "/api/posts/999", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePost(t *testing.T) {
	srv := newTestServer(t, 2)

	rec := do(t, srv, http.MethodDelete, "/api/posts/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, srv, http.MethodDelete, "/api/posts/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/posts/count", "")
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, 3)

	rec := do(t, srv, http.MethodGet, "/api/search?q=seed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[inkwell.Paginator](t, rec)
	assert.Equal(t, 3, page.TotalPosts)

	rec = do(t, srv, http.MethodGet, "/api/search", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[inkwell.Paginator](t, rec)
	assert.Empty(t, page.Posts)
	assert.NotNil(t, page.Posts)
}

func TestAdminClearAndReset(t *testing.T) {
	srv := newTestServer(t, 3)

	rec := do(t, srv, http.MethodPost, "/api/admin/clear", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/posts/count", "")
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/admin/reset", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/posts/count", "")
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/admin/clear", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t, 1)

	rec := do(t, srv, http.MethodGet, "/api/posts/count", "")
	assert.Len(t, rec.Header().Get(httpapi.RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/count", nil)
	req.Header.Set(httpapi.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(httpapi.RequestIDHeader))
}

func TestListenAndServe_Shutdown(t *testing.T) {
	srv := newTestServer(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, "127.0.0.1:0")
	}()

	cancel()
	assert.NoError(t, <-done)
}
