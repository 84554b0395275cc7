// Package inspect serves a read-only JSON view of a running session for
// debugging.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
)

const shutdownTimeout = 2 * time.Second

// Sources supplies the data the inspector exposes. Nil sources answer 404.
type Sources struct {
	Layout   func() any
	Tiles    func() any
	Surfaces func() []entity.SurfaceRecord
	Validate func() error
}

// Surface is the JSON form of a host surface record.
type Surface struct {
	ID              entity.NodeID `json:"id"`
	Rect            entity.Rect   `json:"rect"`
	Locator         string        `json:"locator,omitempty"`
	Visible         bool          `json:"visible"`
	HiddenForEdit   bool          `json:"hiddenForEdit,omitempty"`
	HiddenNoLocator bool          `json:"hiddenNoLocator,omitempty"`
}

// SurfaceFromRecord converts a registry record to its JSON form.
func SurfaceFromRecord(rec entity.SurfaceRecord) Surface {
	return Surface{
		ID:              rec.ID,
		Rect:            rec.Rect,
		Locator:         rec.Locator,
		Visible:         rec.Visible,
		HiddenForEdit:   rec.HiddenForEdit,
		HiddenNoLocator: rec.HiddenNoLocator,
	}
}

// Server is the inspector HTTP server.
type Server struct {
	addr    string
	sources Sources
	router  chi.Router
}

// NewServer creates an inspector listening on addr once Run is called.
func NewServer(addr string, sources Sources) *Server {
	s := &Server{addr: addr, sources: sources}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/layout", s.handleLayout)
	r.Get("/tiles", s.handleTiles)
	r.Get("/surfaces", s.handleSurfaces)
	r.Get("/healthz", s.handleHealth)
	s.router = r
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("inspector listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("inspector shutdown")
		}
		return nil
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	if s.sources.Layout == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.sources.Layout())
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	if s.sources.Tiles == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.sources.Tiles())
}

func (s *Server) handleSurfaces(w http.ResponseWriter, r *http.Request) {
	if s.sources.Surfaces == nil {
		http.NotFound(w, r)
		return
	}
	records := s.sources.Surfaces()
	out := make([]Surface, 0, len(records))
	for _, rec := range records {
		out = append(out, SurfaceFromRecord(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.sources.Validate != nil {
		if err := s.sources.Validate(); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "invalid", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
