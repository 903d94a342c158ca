package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/hypergopher/inkwell"
)

const maxBodyBytes = 1 << 20

type countResponse struct {
	Count int `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	writeJSON(w, http.StatusOK, s.svc.List(r.Context(), page, pageSize))
}

func (s *Server) handleListAdmin(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	writeJSON(w, http.StatusOK, s.svc.ListAdmin(r.Context(), page, pageSize))
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, countResponse{Count: s.svc.Count(r.Context())})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	post, ok := s.svc.GetByID(r.Context(), mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	etag := strconv.Quote(post.ETag())
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var data inkwell.CreatePostData
	if err := decodeBody(r, &data); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := data.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post := s.svc.Create(r.Context(), data)
	w.Header().Set("Location", "/api/posts/"+post.ID)
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var data inkwell.UpdatePostData
	if err := decodeBody(r, &data); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := data.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, ok := s.svc.Update(r.Context(), mux.Vars(r)["id"], data)
	if !ok {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.svc.Delete(r.Context(), mux.Vars(r)["id"]) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	writeJSON(w, http.StatusOK, s.svc.Search(r.Context(), r.URL.Query().Get("q"), page, pageSize))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearAll(r.Context())
	s.logger.Info("cleared all posts", slog.String("request_id", RequestID(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.svc.ResetToSeed(r.Context())
	s.logger.Info("reset posts to seed", slog.String("request_id", RequestID(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

// pageParams reads page and pageSize from the query. A missing or non-numeric page is 1 and a missing or
// non-numeric pageSize is 0, which lets the Service pick its default.
func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}

	pageSize, err := strconv.Atoi(q.Get("pageSize"))
	if err != nil {
		pageSize = 0
	}

	return page, pageSize
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
