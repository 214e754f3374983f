package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"centro-site/api/internal/config"
	"centro-site/api/internal/content"
	"centro-site/api/internal/database"
	"centro-site/api/internal/models"
	"centro-site/api/internal/placement"
	"centro-site/api/internal/readcache"
	"centro-site/api/internal/server/api"
	"centro-site/api/internal/server/storage"
	"centro-site/api/internal/videos"
)

// apiKeyMiddleware checks for the X-API-Key header and validates it against the provided key.
// If key is empty, it allows all requests.
func apiKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			reqAPIKey := r.Header.Get("X-API-Key")
			if reqAPIKey == "" {
				hlog.FromRequest(r).Warn().Msg("Missing API key on write request")
				http.Error(w, "API key required", http.StatusUnauthorized)
				return
			}

			if reqAPIKey != apiKey {
				hlog.FromRequest(r).Warn().Msg("Invalid API key on write request")
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewHandler wires storage, services and routes into the full middleware chain.
// Only mutating routes require the API key.
func NewHandler(db *database.DB, cfg *config.Config, logger zerolog.Logger) http.Handler {
	store := storage.NewStore(db)
	cache := readcache.New(cfg.CacheTTL)

	placementSvc := placement.NewService(store, cache)
	videoSvc := videos.NewService(store, cache)

	featured := api.NewFeaturedHandler(placementSvc)
	videoHandler := api.NewVideosHandler(videoSvc)
	home := api.NewHomeHandler(placementSvc, videoSvc)
	news := api.NewContentHandler(content.NewService(models.ContentNews, store, cache))
	projects := api.NewContentHandler(content.NewService(models.ContentProject, store, cache))

	guard := apiKeyMiddleware(cfg.APIKey)
	write := func(fn http.HandlerFunc) http.Handler { return guard(fn) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthCheckHandler(db))
	mux.HandleFunc("GET /api/home", home.Get)

	mux.HandleFunc("GET /api/featured", featured.GetFeatured)
	mux.Handle("PUT /api/featured", write(featured.PutFeatured))
	mux.HandleFunc("GET /api/projects/featured", featured.GetProjectFeatured)
	mux.Handle("PUT /api/projects/featured", write(featured.PutProjectFeatured))

	mux.HandleFunc("GET /api/videos/featured", videoHandler.Featured)
	mux.HandleFunc("GET /api/videos", videoHandler.List)
	mux.HandleFunc("GET /api/videos/{id}", videoHandler.Get)
	mux.Handle("POST /api/videos", write(videoHandler.Create))
	mux.Handle("PUT /api/videos/{id}", write(videoHandler.Update))
	mux.Handle("DELETE /api/videos/{id}", write(videoHandler.Delete))

	for prefix, h := range map[string]*api.ContentHandler{"/api/news": news, "/api/projects": projects} {
		mux.HandleFunc("GET "+prefix, h.List)
		mux.HandleFunc("GET "+prefix+"/{slug}", h.Get)
		mux.Handle("POST "+prefix, write(h.Create))
		mux.Handle("PUT "+prefix+"/{slug}", write(h.Update))
		mux.Handle("DELETE "+prefix+"/{slug}", write(h.Delete))
	}

	if cfg.APIKey != "" {
		logger.Info().Msg("API key authentication enabled for write routes")
	} else {
		logger.Warn().Msg("API key authentication disabled")
	}

	var h http.Handler = mux
	h = cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-API-Key"},
	}).Handler(h)

	// Set up middleware chain for logging and request tracking
	h = hlog.NewHandler(logger)(h)
	h = hlog.MethodHandler("method")(h)
	h = hlog.URLHandler("url")(h)
	h = hlog.RemoteAddrHandler("remote_addr")(h)
	h = hlog.UserAgentHandler("user_agent")(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		idReq, _ := hlog.IDFromRequest(r)

		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Str("req_id", idReq.String()).
			Msg("HTTP Request")
	})(h)

	return h
}

// RunServer starts the HTTP server with graceful shutdown support.
// It sets up routes, middleware, and handles OS signals for clean termination.
func RunServer(db *database.DB, cfg *config.Config, logger zerolog.Logger) error {
	logger = logger.With().Str("service", "site-api").Logger()
	listenAddr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           NewHandler(db, cfg, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", listenAddr).Msg("API Server starting")
		err := httpServer.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error().Err(err).Msg("Server failed to start")
		return err

	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("HTTP server shutdown error")
			if err := httpServer.Close(); err != nil {
				logger.Error().Err(err).Msg("HTTP server force close error")
			}
		} else {
			logger.Info().Msg("HTTP server shutdown complete.")
		}
		if err := <-serverErr; err != nil {
			logger.Error().Err(err).Msg("ListenAndServe error during shutdown")
		}
	}

	logger.Info().Msg("Server exiting.")
	return nil
}

// healthCheckHandler reports 200 OK while the database answers a ping.
func healthCheckHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := hlog.FromRequest(r)
		log.Debug().Msg("Health check request received")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Error().Err(err).Msg("Health check database ping failed")
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("Error writing health check response")
		}
	}
}
