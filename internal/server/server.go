// Package server is a small local backend speaking the travel assistant's
// HTTP API. It stores threads in SQLite and answers through a language
// model, so the TUI can be run end to end without the hosted service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/zhubert/travelchat/internal/api"
	pkgerrors "github.com/zhubert/travelchat/internal/errors"
)

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "Hello, welcome to the Travel Assistant API!"

// DeletedMessage confirms a successful DELETE /threads/{id}.
const DeletedMessage = "Thread deleted successfully"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server serves the backend API.
type Server struct {
	store     Store
	assistant Assistant
	log       *slog.Logger
}

// New creates a Server. A nil log uses slog's default.
func New(store Store, assistant Assistant, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{store: store, assistant: assistant, log: log}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Get("/", s.handleRoot)
	r.Post("/travel-info", s.handleTravelInfo)
	r.Post("/chat", s.handleChat)

	r.Route("/threads", func(r chi.Router) {
		r.Get("/", s.handleListThreads)
		r.Post("/", s.handleCreateThread)
		r.Get("/{threadID}", s.handleGetThread)
		r.Delete("/{threadID}", s.handleDeleteThread)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // model replies can be slow
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs one JSON line per request with the chi request ID.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"request_id", chiMiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"detail": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response in the {detail} shape the client reads.
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, api.ErrorResponse{Detail: detail})
}

// storeError maps a store failure to a response.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if pkgerrors.Is(err, pkgerrors.KindNotFound) {
		Error(w, http.StatusNotFound, "Thread not found")
		return
	}
	s.log.Error("store failure",
		"request_id", chiMiddleware.GetReqID(r.Context()),
		"error", err,
	)
	Error(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func threadIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "threadID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("thread id must be a positive integer")
	}
	return id, nil
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := s.store.ListThreads(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, threads)
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req api.ThreadCreate
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := s.store.CreateThread(r.Context(), strings.TrimSpace(req.Title))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.log.Info("thread created", "thread_id", t.ID, "title", t.Title)
	JSON(w, http.StatusOK, api.ThreadCreateResponse{ThreadID: t.ID, Title: t.Title})
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	id, err := threadIDParam(r)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.store.GetThread(r.Context(), id); err != nil {
		s.storeError(w, r, err)
		return
	}
	msgs, err := s.store.Messages(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, api.ThreadWithMessages{ThreadID: id, Messages: msgs})
}

func (s *Server) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
	id, err := threadIDParam(r)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteThread(r.Context(), id); err != nil {
		s.storeError(w, r, err)
		return
	}
	s.log.Info("thread deleted", "thread_id", id)
	JSON(w, http.StatusOK, api.DeleteResponse{Message: DeletedMessage})
}

// handleChat stores the question, asks the assistant with the thread's
// history and stores the answer. The question stays stored when the
// assistant fails.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req api.MessageRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if req.ThreadID <= 0 || question == "" {
		Error(w, http.StatusBadRequest, "thread_id and question are required")
		return
	}

	ctx := r.Context()
	if _, err := s.store.GetThread(ctx, req.ThreadID); err != nil {
		s.storeError(w, r, err)
		return
	}
	history, err := s.store.Messages(ctx, req.ThreadID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if err := s.store.AddMessage(ctx, req.ThreadID, api.Message{Role: api.RoleUser, Content: question}); err != nil {
		s.storeError(w, r, err)
		return
	}

	reply, err := s.assistant.Reply(ctx, history, question)
	if err != nil {
		s.log.Error("assistant failed",
			"request_id", chiMiddleware.GetReqID(ctx),
			"thread_id", req.ThreadID,
			"error", err,
		)
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.store.AddMessage(ctx, req.ThreadID, api.Message{Role: api.RoleAssistant, Content: reply}); err != nil {
		s.storeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, api.ChatResponse{Response: reply})
}

// travelQuery is the body of the stateless POST /travel-info.
type travelQuery struct {
	Question string `json:"question"`
}

// handleTravelInfo answers a one-off question without a thread.
func (s *Server) handleTravelInfo(w http.ResponseWriter, r *http.Request) {
	var q travelQuery
	if err := decodeBody(w, r, &q); err != nil || strings.TrimSpace(q.Question) == "" {
		Error(w, http.StatusBadRequest, "question is required")
		return
	}
	reply, err := s.assistant.Reply(r.Context(), nil, strings.TrimSpace(q.Question))
	if err != nil {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	JSON(w, http.StatusOK, api.ChatResponse{Response: reply})
}
