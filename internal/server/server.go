// Package server exposes exports over HTTP.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"companyexport/internal/config"
	"companyexport/internal/crawler"
	"companyexport/internal/exporter"
	"companyexport/internal/formatter"
	"companyexport/internal/logger"
	"companyexport/internal/normalizer"
)

// maxBodyBytes bounds the JSON body of an export request.
const maxBodyBytes = 1 << 20

// FetcherFactory builds a fetcher for one request's token and environment.
type FetcherFactory func(token string, sandbox bool) exporter.Fetcher

// NewCrawlerFactory returns a factory building crawler clients from api.
func NewCrawlerFactory(api config.APIConfig, log *logger.Logger) FetcherFactory {
	return func(token string, sandbox bool) exporter.Fetcher {
		return crawler.NewClient(crawler.Config{
			BaseURL:         api.BaseURLFor(sandbox),
			Token:           token,
			UserAgent:       api.UserAgent,
			Timeout:         api.GetTimeout(),
			RequestInterval: api.GetRequestInterval(),
		}, log)
	}
}

// Server serves exports.
type Server struct {
	newFetcher FetcherFactory
	log        *logger.Logger
	metrics    *Metrics
	gatherer   prometheus.Gatherer
	writerOpts []formatter.Option
	cfg        config.ServerConfig
	export     config.ExportConfig
}

// Option configures a Server.
type Option func(*Server)

// WithWriterOptions passes options to every workbook writer.
func WithWriterOptions(opts ...formatter.Option) Option {
	return func(s *Server) {
		s.writerOpts = append(s.writerOpts, opts...)
	}
}

// New creates a server. Metrics are registered on reg.
func New(cfg *config.Config, newFetcher FetcherFactory, log *logger.Logger, reg *prometheus.Registry, opts ...Option) *Server {
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		newFetcher: newFetcher,
		log:        log.With("component", "server"),
		metrics:    NewMetrics(reg),
		gatherer:   reg,
		cfg:        cfg.Server,
		export:     cfg.Export,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Routes returns the HTTP handler of the service.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/export", s.handleExport)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := s.httpServer()

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("Listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.log.Info("Shutting down")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// httpServer builds the net/http server. Its own errors go to the service log.
func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.GetReadTimeout(),
		WriteTimeout: s.cfg.GetWriteTimeout(),
		ErrorLog:     slog.NewLogLogger(s.log.Slog().Handler(), slog.LevelError),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	exportID := uuid.NewString()
	log := s.log.With("export_id", exportID)

	finish := func(outcome string, rows int) {
		s.metrics.observe(outcome, time.Since(start).Seconds(), rows)
		log.Info("Export finished", "outcome", outcome, "rows", rows, "duration", time.Since(start))
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var body exportRequest
	if err := dec.Decode(&body); err != nil {
		finish(OutcomeInvalidRequest, 0)
		respondError(w, http.StatusBadRequest, "request body must be a JSON object")

		return
	}

	token := body.token()
	if token == "" {
		finish(OutcomeInvalidRequest, 0)
		respondError(w, http.StatusBadRequest, "token is required")

		return
	}

	req := exporter.Request{
		Filter:  body.filter(s.export.Limit, s.export.MaxResults),
		Sandbox: body.sandbox(),
		Source:  s.export.SourceLabel,
	}

	exp := exporter.New(s.newFetcher(token, req.Sandbox), log, s.writerOpts...)

	result, err := exp.Run(r.Context(), req)
	if err != nil {
		outcome, status := classify(err)
		finish(outcome, 0)
		log.Warn("Export failed", "error", err)
		respondError(w, status, errorMessage(err))

		return
	}

	if result.Empty {
		finish(OutcomeEmpty, 0)
		respondJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"total":    0,
			"message":  "no results found",
			"exportId": exportID,
		})

		return
	}

	finish(OutcomeSuccess, len(result.Rows))
	respondJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"total":             len(result.Rows),
		"fileName":          exporter.DefaultFileName(result.Filter.RegionCode, result.Filter.ClassificationCode),
		"fileContentBase64": base64.StdEncoding.EncodeToString(result.Workbook),
		"metadata":          result.Metadata.AsMap(),
		"exportId":          exportID,
		"sha256":            result.Checksum,
	})
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, normalizer.ErrInvalidFilter):
		return OutcomeInvalidRequest, http.StatusBadRequest
	case errors.Is(err, crawler.ErrAPI):
		return OutcomeAPIError, http.StatusBadRequest
	case errors.Is(err, crawler.ErrTransport):
		return OutcomeTransportError, http.StatusBadRequest
	default:
		return OutcomeInternalError, http.StatusInternalServerError
	}
}

// errorMessage prefers the API's own message over the wrapped error text.
func errorMessage(err error) string {
	var apiErr *crawler.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	return err.Error()
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"success": false, "message": message})
}
