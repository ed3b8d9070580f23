package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/estimaro/estimator/internal/calc"
	"github.com/estimaro/estimator/internal/model"
	"github.com/estimaro/estimator/internal/pipeline"
	"github.com/estimaro/estimator/pkg/scraper"
)

const maxBodyBytes = 1 << 20

var servePort int

// estimator runs one estimate. *pipeline.Pipeline satisfies it.
type estimator interface {
	Run(ctx context.Context, req model.EstimateRequest) (*pipeline.Result, error)
}

// healthProber reports the health of a downstream service.
type healthProber interface {
	Health(ctx context.Context) (*scraper.HealthResponse, error)
}

// apiDeps are the handlers' collaborators. Any of them may be nil.
type apiDeps struct {
	Estimator      estimator
	Scraper        healthProber
	Defaults       model.RequestDefaults
	AllowedOrigins []string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the estimate HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(cfg, "serve")
		if err != nil {
			return err
		}

		deps := apiDeps{
			Estimator:      env.Pipeline,
			Defaults:       cfg.Estimate.RequestDefaults(),
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}
		if env.Collaborators.Scraper != nil {
			deps.Scraper = env.Collaborators.Scraper
		}

		return startServer(ctx, buildRouter(deps), resolvePort(servePort, cfg.Server.Port))
	},
}

// resolvePort prefers the flag value when set.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// startServer serves h until ctx is cancelled, then shuts down gracefully.
func startServer(ctx context.Context, h http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func buildRouter(d apiDeps) http.Handler {
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", d.health)
	r.Route("/v1/estimates", func(r chi.Router) {
		r.Post("/generate", d.generate)
		r.Post("/calculate", d.calculate)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (d apiDeps) health(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok"}
	if d.Scraper != nil {
		h, err := d.Scraper.Health(r.Context())
		switch {
		case err != nil:
			body["status"] = "degraded"
			body["scraper"] = "unavailable"
		default:
			body["scraper"] = h.Status
		}
	}
	respondJSON(w, http.StatusOK, body)
}

func (d apiDeps) generate(w http.ResponseWriter, r *http.Request) {
	if d.Estimator == nil {
		respondError(w, http.StatusServiceUnavailable, "estimator not configured")
		return
	}

	var req model.EstimateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := d.Estimator.Run(r.Context(), req)
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			respondJSON(w, http.StatusBadRequest, map[string]any{
				"error":    "invalid estimate request",
				"problems": ve.Problems,
			})
			return
		}
		zap.L().Error("api: generate failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "estimate generation failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (d apiDeps) calculate(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := calculate(req, d.Defaults)
	if err != nil {
		if errors.Is(err, calc.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("api: calculate failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "calculation failed")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
