// Package server exposes the registry and album aggregation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ChadFarrow/feedctl/internal/albums"
	"github.com/ChadFarrow/feedctl/internal/registry"
	"github.com/ChadFarrow/feedctl/internal/resolve"
)

// Albums aggregates album listings.
type Albums interface {
	FetchAlbums(ctx context.Context, opts albums.FetchOptions) *albums.FetchResult
}

// Resolver maps URL identifiers to feeds.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*resolve.Result, error)
}

// Server holds dependencies for the HTTP handlers.
type Server struct {
	store    *registry.Store
	albums   Albums
	resolver Resolver
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New wires up routes and returns a ready-to-use Server.
func New(store *registry.Store, albums Albums, resolver Resolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{store: store, albums: albums, resolver: resolver, logger: logger, mux: http.NewServeMux()}
	srv.routes()
	return srv
}

// ServeHTTP makes Server satisfy the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ---------- Routes ----------

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("GET /api/albums", s.handleListAlbums)
	s.mux.HandleFunc("GET /api/albums/{id}", s.handleResolveAlbum)

	s.mux.HandleFunc("GET /api/feeds", s.handleListFeeds)
	s.mux.HandleFunc("POST /api/feeds", s.handleAddFeed)
	s.mux.HandleFunc("DELETE /api/feeds/{id}", s.handleRemoveFeed)
}

// ---------- Handlers ----------

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		source = albums.SourceAuto
	}
	if !albums.ValidSource(source) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown source " + strconv.Quote(source)})
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	res := s.albums.FetchAlbums(r.Context(), albums.FetchOptions{Source: source, ForceRegenerate: force})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleResolveAlbum(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	res, err := s.resolver.Resolve(r.Context(), id)
	if err != nil {
		if errors.Is(err, resolve.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "album not found", "id": id})
			return
		}
		s.logger.Error("resolution failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "resolution failed"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListFeeds(w http.ResponseWriter, _ *http.Request) {
	feeds, err := s.store.Load()
	if err != nil {
		s.logger.Error("registry load failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "registry unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"feeds": feeds, "count": len(feeds)})
}

type addFeedRequest struct {
	URL      string `json:"url"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
}

func (s *Server) handleAddFeed(w http.ResponseWriter, r *http.Request) {
	var req addFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	feed := registry.Feed{ID: req.ID, OriginalURL: req.URL, Title: req.Title}
	if req.Type != "" {
		typ, err := registry.ParseType(req.Type)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		feed.Type = typ
	}
	if req.Priority != "" {
		pri, err := registry.ParsePriority(req.Priority)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		feed.Priority = pri
	}

	added, err := s.store.Add(feed)
	if err != nil {
		if errors.Is(err, registry.ErrDuplicateFeed) || errors.Is(err, registry.ErrIDConflict) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Error("add feed failed", "url", req.URL, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save feed"})
		return
	}

	s.logger.Info("feed added", "id", added.ID, "url", added.OriginalURL)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleRemoveFeed(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.Remove(id); err != nil {
		if errors.Is(err, registry.ErrFeedNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "feed not found", "id": id})
			return
		}
		s.logger.Error("remove feed failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not remove feed"})
		return
	}
	s.logger.Info("feed removed", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "feed removed"})
}

// ---------- Helpers ----------

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
