package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/valorkin/mf-loadable-adapter/internal/ctxlog"
	"github.com/valorkin/mf-loadable-adapter/internal/loadable"
	"github.com/valorkin/mf-loadable-adapter/internal/tags"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestBody  = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Handler returns the sidecar's HTTP routes.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("POST /v1/tags", a.tagsHandler)
	return mux
}

// Serve runs the tag sidecar on addr until ctx is canceled.
func (a *App) Serve(ctx context.Context, addr string) error {
	if a.collector == nil {
		return ErrNoRemotes
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctxlog.WithLogger(context.Background(), a.logger) },
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Tag server starting.", "address", ln.Addr().String())
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("tag server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("Shutting down tag server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Tag server shutdown failed.", "error", err)
		return err
	}
	a.logger.Debug("Tag server shut down gracefully.")
	return nil
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}

type tagsResponse struct {
	*TagsOutput
	RequestID string `json:"requestId"`
}

// tagsHandler accepts the loadable payload {"namedChunks": [...]} and answers
// with the rendered tags of the federated components.
func (a *App) tagsHandler(w http.ResponseWriter, r *http.Request) {
	reqID := r.Header.Get(requestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, reqID)
	logger := a.logger.With("request_id", reqID)
	ctx := ctxlog.WithLogger(r.Context(), logger)

	mode, ok := tags.ParseLoadMode(r.URL.Query().Get("load_mode"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "load_mode must be 'async' or 'defer'", RequestID: reqID})
		return
	}

	var payload loadable.Payload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&payload); err != nil {
		logger.Warn("Rejected tags request.", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"namedChunks\": [...]}", RequestID: reqID})
		return
	}

	out, err := a.Tags(ctx, loadable.NamedChunks(payload.NamedChunks), mode)
	if err != nil {
		logger.Error("Tags request failed.", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), RequestID: reqID})
		return
	}
	logger.Debug("Tags rendered.", "components", len(payload.NamedChunks), "assets", len(out.Assets))
	writeJSON(w, http.StatusOK, tagsResponse{TagsOutput: out, RequestID: reqID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
