package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"concord/internal/annotations"
	"concord/internal/corpus"
	"concord/internal/export"
	"concord/internal/logging"
	"concord/internal/scheduler"
)

const maxSubmitBody = 64 << 10

// Scheduler is the subset of the scheduler the HTTP adapter drives.
type Scheduler interface {
	NextItem(split string) (corpus.Item, error)
	Submit(ctx context.Context, itemID int64, label string) error
	Progress(split string) scheduler.Progress
	Splits() []string
	Vocabulary() []string
}

// Options configure a Server.
type Options struct {
	Bind         string
	DefaultSplit string
	TextFields   []string
	Logger       *slog.Logger
}

// Server serves the JSON API.
type Server struct {
	bind         string
	defaultSplit string
	textFields   []string
	sched        Scheduler
	logger       *slog.Logger

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// NewServer builds a server for sched. It does not listen until Listen or Run.
func NewServer(sched Scheduler, opts Options) *Server {
	s := &Server{
		bind:         strings.TrimSpace(opts.Bind),
		defaultSplit: opts.DefaultSplit,
		textFields:   opts.TextFields,
		sched:        sched,
		logger:       logging.NewComponentLogger(opts.Logger, "api"),
	}
	if s.defaultSplit == "" {
		s.defaultSplit = corpus.SplitFull
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/next", s.handleNext)
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("GET /api/progress", s.handleProgress)
	mux.HandleFunc("GET /api/splits", s.handleSplits)
	s.handler = s.withRequestID(mux)

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the root handler, including request id middleware.
func (s *Server) Handler() http.Handler { return s.handler }

// Listen binds the configured address.
func (s *Server) Listen() error {
	if s.bind == "" {
		return errors.New("api bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	return nil
}

// Addr reports the bound address, or "" before Listen.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve handles requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("api server is not listening")
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()
	s.logger.Info("api server listening", logging.String("address", s.Addr()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api serve: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}

// Run listens and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	split := s.splitParam(r)
	item, err := s.sched.NextItem(split)
	if errors.Is(err, scheduler.ErrExhaustedSplit) {
		s.log(r).Info("split exhausted",
			logging.String(logging.FieldSplit, split),
			logging.String(logging.FieldEventType, "split_exhausted"),
		)
		s.writeJSON(w, r, http.StatusGone, ExhaustedResponse{
			Exhausted: true,
			Split:     split,
			Progress:  s.sched.Progress(split),
		})
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, ItemResponse{
		ItemID:   item.ID,
		Split:    item.Split,
		Fields:   item.Fields,
		Text:     export.ItemText(item, s.textFields),
		Progress: s.sched.Progress(split),
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxSubmitBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.ItemID == nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("item_id is required"))
		return
	}

	err := s.sched.Submit(r.Context(), *req.ItemID, req.Label)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, scheduler.ErrUnknownItem):
		s.writeError(w, r, http.StatusNotFound, err)
	case errors.Is(err, scheduler.ErrEmptyLabel), errors.Is(err, scheduler.ErrLabelNotAllowed):
		s.writeError(w, r, http.StatusBadRequest, err)
	case errors.Is(err, annotations.ErrReadOnly):
		s.writeError(w, r, http.StatusConflict, err)
	default:
		s.log(r).Error("submit failed", logging.Int64(logging.FieldItemID, *req.ItemID), logging.Error(err))
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.sched.Progress(s.splitParam(r)))
}

func (s *Server) handleSplits(w http.ResponseWriter, r *http.Request) {
	names := s.sched.Splits()
	progress := make([]scheduler.Progress, 0, len(names))
	for _, name := range names {
		progress = append(progress, s.sched.Progress(name))
	}
	s.writeJSON(w, r, http.StatusOK, SplitsResponse{
		Default:    s.defaultSplit,
		Splits:     progress,
		Vocabulary: s.sched.Vocabulary(),
	})
}

func (s *Server) splitParam(r *http.Request) string {
	if split := strings.TrimSpace(r.URL.Query().Get("split")); split != "" {
		return split
	}
	return s.defaultSplit
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log(r).Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.writeJSON(w, r, status, ErrorResponse{Error: err.Error(), RequestID: requestID(r)})
}

func (s *Server) log(r *http.Request) *slog.Logger {
	return logging.WithContext(r.Context(), s.logger)
}
