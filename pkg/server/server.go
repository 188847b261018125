package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/utils"
)

// Enqueuer schedules fulltext extraction of a stored attachment
type Enqueuer interface {
	Enqueue(id string) error
}

// Server exposes attachment upload and fulltext retrieval over HTTP
type Server struct {
	store  interfaces.AttachmentStore
	queue  Enqueuer
	logger *logger.Logger
	router chi.Router
}

// New creates the server and its routes
func New(store interfaces.AttachmentStore, queue Enqueuer, log *logger.Logger) *Server {
	s := &Server{
		store:  store,
		queue:  queue,
		logger: log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/attachments", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/fulltext", s.handleFulltext)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": constants.AppName})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	src, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file part", http.StatusBadRequest)
		return
	}
	defer src.Close()

	contentType := r.FormValue("content_type")
	if contentType == "" {
		contentType = header.Header.Get("Content-Type")
	}
	contentType = mediaType(contentType, header.Filename)

	att, err := s.store.Create(header.Filename, contentType, src)
	if err != nil {
		s.logger.Error("Failed to store upload %s: %v", header.Filename, err)
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	// The upload succeeds whatever happens to extraction
	if err := s.queue.Enqueue(att.ID); err != nil {
		s.logger.Warn("Fulltext extraction of %s not scheduled: %v", att.ID, err)
	}

	writeJSON(w, http.StatusAccepted, att)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	att, err := s.store.Find(chi.URLParam(r, "id"))
	if err != nil {
		s.writeFindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, att)
}

func (s *Server) handleFulltext(w http.ResponseWriter, r *http.Request) {
	att, err := s.store.Find(chi.URLParam(r, "id"))
	if err != nil {
		s.writeFindError(w, err)
		return
	}
	if att.Fulltext == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(att.Fulltext))
}

func (s *Server) writeFindError(w http.ResponseWriter, err error) {
	if utils.GetErrorType(err) == utils.ErrorTypeNotFound {
		http.Error(w, "attachment not found", http.StatusNotFound)
		return
	}
	s.logger.Error("Failed to load attachment: %v", err)
	http.Error(w, "failed to load attachment", http.StatusInternalServerError)
}

// mediaType strips parameters from the declared type and falls back to the
// file extension
func mediaType(declared, filename string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			return mt
		}
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
	}
	return declared
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
