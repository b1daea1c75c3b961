package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const maxRequestSizeBytes = 2 << 20

type Config struct {
	Addr            string        `envconfig:"ADDR" split_words:"true" default:"127.0.0.1:9000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"5s"`
}

// Server serves the JSON-RPC tool surface over HTTP.
type Server struct {
	cfg        Config
	dispatcher *Dispatcher
}

func NewServer(cfg Config, dispatcher *Dispatcher) *Server {
	return &Server{cfg: cfg, dispatcher: dispatcher}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /mcp", s.handleRPC)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// Start serves until ctx is cancelled, then drains in-flight requests for up
// to the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", s.cfg.Addr).Msg("tool server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("tool server: %w", err)
	}
	return nil
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSizeBytes))
	if err != nil {
		writeResponse(w, newError(nil, CodeParseError, "read request body"))
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeResponse(w, newError(nil, CodeParseError, "parse request: "+err.Error()))
		return
	}
	if req.JSONRPC != protocolVersion || req.Method == "" {
		writeResponse(w, newError(req.ID, CodeInvalidRequest, "expected a jsonrpc 2.0 request with a method"))
		return
	}

	switch req.Method {
	case MethodPing:
		writeResponse(w, newResult(req.ID, struct{}{}))
	case MethodToolsList:
		writeResponse(w, newResult(req.ID, ListResult{Tools: Catalog()}))
	case MethodToolsCall:
		s.handleToolsCall(w, r, req)
	default:
		writeResponse(w, newError(req.ID, CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method)))
	}
}

func (s *Server) handleToolsCall(w http.ResponseWriter, r *http.Request, req Request) {
	var params CallParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		writeResponse(w, newError(req.ID, CodeInvalidParams, "tools/call params require a tool name"))
		return
	}

	result, err := s.dispatcher.Dispatch(r.Context(), params.Name, params.Arguments)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownTool), errors.Is(err, ErrInvalidArgs):
			writeResponse(w, newError(req.ID, CodeInvalidParams, err.Error()))
		default:
			writeResponse(w, newError(req.ID, CodeInternalError, err.Error()))
		}
		return
	}
	writeResponse(w, newResult(req.ID, result))
}

func writeResponse(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("write rpc response")
	}
}
