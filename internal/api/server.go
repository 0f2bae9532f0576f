// Package api serves the simulation engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rpgo/lifesim/internal/calculation"
	"github.com/rpgo/lifesim/internal/domain"
	"github.com/rpgo/lifesim/internal/output"
	"github.com/valyala/fasthttp"
)

// SeedHeader carries the seed a /simulate response was produced with.
const SeedHeader = "X-Lifesim-Seed"

// Server routes requests to the single-run engine and the sensitivity driver.
type Server struct {
	engine   *calculation.Engine
	analyzer *calculation.SensitivityAnalyzer
	logger   calculation.Logger
	base     context.Context
}

// NewServer wires the handlers. A nil logger discards output.
func NewServer(engine *calculation.Engine, analyzer *calculation.SensitivityAnalyzer, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{engine: engine, analyzer: analyzer, logger: logger, base: context.Background()}
}

type summaryResponse struct {
	Results []output.YearlyRow `json:"results"`
	Summary output.SummaryRow  `json:"summary"`
}

// Handler returns the routing request handler.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type")

		if ctx.IsOptions() {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		path := string(ctx.Path())
		switch path {
		case "/health":
			if !s.allow(ctx, fasthttp.MethodGet) {
				return
			}
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		case "/simulate":
			if s.allow(ctx, fasthttp.MethodPost) {
				s.handleSimulate(ctx, false)
			}
		case "/simulate/summary":
			if s.allow(ctx, fasthttp.MethodPost) {
				s.handleSimulate(ctx, true)
			}
		case "/sensitivity_analysis":
			if s.allow(ctx, fasthttp.MethodPost) {
				s.handleSensitivity(ctx)
			}
		default:
			writeError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("no route for %s", path))
		}
		s.logger.Debugf("%s %s -> %d in %s", ctx.Method(), path, ctx.Response.StatusCode(), time.Since(start))
	}
}

func (s *Server) allow(ctx *fasthttp.RequestCtx, method string) bool {
	if string(ctx.Method()) == method {
		return true
	}
	ctx.Response.Header.Set("Allow", method+", OPTIONS")
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	return false
}

func (s *Server) handleSimulate(ctx *fasthttp.RequestCtx, withSummary bool) {
	req := newSimulateRequest()
	if !decodeBody(ctx, &req) {
		return
	}
	params, err := req.params()
	if err != nil {
		s.writeFailure(ctx, err)
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = calculation.NewSeed()
	}

	records, err := s.engine.RunSeeded(params, seed)
	if err != nil {
		s.writeFailure(ctx, err)
		return
	}
	ctx.Response.Header.Set(SeedHeader, fmt.Sprint(seed))

	rows := output.YearlyRows(records)
	if !withSummary {
		writeJSON(ctx, fasthttp.StatusOK, rows)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, summaryResponse{
		Results: rows,
		Summary: output.Summary(calculation.Summarize(records)),
	})
}

func (s *Server) handleSensitivity(ctx *fasthttp.RequestCtx) {
	req := newSensitivityRequest()
	if !decodeBody(ctx, &req) {
		return
	}
	params, err := req.params()
	if err != nil {
		s.writeFailure(ctx, err)
		return
	}
	cells, err := s.analyzer.Run(s.base, params)
	if err != nil {
		s.writeFailure(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, output.SensitivityRows(cells))
}

// writeFailure maps engine errors onto status codes.
func (s *Server) writeFailure(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameters):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(ctx, fasthttp.StatusServiceUnavailable, "request cancelled")
	default:
		s.logger.Errorf("request %s failed: %v", ctx.Path(), err)
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
	}
}

func decodeBody(ctx *fasthttp.RequestCtx, v any) bool {
	body := ctx.PostBody()
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"error":"failed to encode response"}`)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, errorResponse{Error: message})
}

// ListenAndServe serves on addr until ctx is cancelled. In-flight sweeps are
// cancelled with it.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	base, cancel := context.WithCancel(ctx)
	defer cancel()
	s.base = base

	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "lifesim",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       5 * time.Minute,
		MaxRequestBodySize: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Infof("listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Infof("shutting down")
		if err := srv.Shutdown(); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
