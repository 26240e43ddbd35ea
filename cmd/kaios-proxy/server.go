package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/cache"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/logging"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/playstore"
)

const (
	// ListPageSize is the number of apps per /api/jogos page.
	ListPageSize = 20

	// CacheNamespace separates scraped results from RAWG responses.
	CacheNamespace = "play"

	msgListFailed    = "Erro ao buscar jogos."
	msgSearchFailed  = "Erro ao buscar app."
	msgDetailsFailed = "Erro ao buscar detalhes."
)

// AppStore is the subset of the Play Store scraper the proxy serves.
type AppStore interface {
	List(ctx context.Context, opts playstore.ListOptions) ([]playstore.App, error)
	Search(ctx context.Context, term string, num int) ([]playstore.App, error)
	App(ctx context.Context, appID string) (*playstore.App, error)
}

// ServerConfig tunes the proxy.
type ServerConfig struct {
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int
	CORS           CORSConfig
}

// DefaultServerConfig returns the production defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		CacheTTL:       10 * time.Minute,
		RequestTimeout: 30 * time.Second,
		RateLimit:      10,
		RateBurst:      20,
		CORS:           DefaultCORSConfig(),
	}
}

// Server routes front-end requests to the scraper, caching results in Redis
// when available.
type Server struct {
	store       AppStore
	redis       *redis.Client
	cache       *cache.Manager
	config      ServerConfig
	logger      zerolog.Logger
	rateLimiter *RateLimiter
	router      chi.Router
}

// NewServer creates the proxy. redisClient may be nil.
func NewServer(store AppStore, redisClient *redis.Client, cfg ServerConfig) *Server {
	s := &Server{
		store:  store,
		redis:  redisClient,
		config: cfg,
		logger: logging.NewLogger("proxy"),
	}
	if redisClient != nil {
		s.cache = cache.NewManager(redisClient)
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(CORSMiddleware(s.config.CORS))

	r.Get("/health", healthHandler)
	r.Get("/ready", s.readyHandler)
	r.Handle("/metrics", promhttp.Handler())

	s.rateLimiter = NewRateLimiter(s.config.RateLimit, s.config.RateBurst)
	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimitMiddleware(s.rateLimiter))

		r.Get("/jogos", s.listHandler)
		r.Get("/buscar", s.searchHandler)
		r.Get("/app/{id}", s.appHandler)
	})

	return r
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases background resources.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Close()
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// readyHandler reports whether the cache backend answers. A proxy running
// without Redis is always ready.
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.cache.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Readiness check failed")
			http.Error(w, "Redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// listHandler serves GET /api/jogos?page=N. Invalid pages fall back to 1.
func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	key := cache.CacheKey{
		Namespace:   CacheNamespace,
		Endpoint:    "jogos",
		QueryParams: url.Values{"page": []string{strconv.Itoa(page)}},
	}
	s.serveCached(w, r, key, msgListFailed, func(ctx context.Context) (any, error) {
		return s.store.List(ctx, playstore.ListOptions{
			Collection: playstore.CollectionTopFreeGames,
			Start:      (page - 1) * ListPageSize,
			Num:        ListPageSize,
		})
	})
}

// searchHandler serves GET /api/buscar?q=term. An empty term answers [].
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeJSON(w, http.StatusOK, []playstore.App{})
		return
	}

	key := cache.CacheKey{
		Namespace:   CacheNamespace,
		Endpoint:    "buscar",
		QueryParams: url.Values{"q": []string{term}},
	}
	s.serveCached(w, r, key, msgSearchFailed, func(ctx context.Context) (any, error) {
		return s.store.Search(ctx, term, ListPageSize)
	})
}

// appHandler serves GET /api/app/{id}.
func (s *Server) appHandler(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "id")

	key := cache.CacheKey{
		Namespace:  CacheNamespace,
		Endpoint:   "app",
		PathParams: map[string]string{"id": appID},
	}
	s.serveCached(w, r, key, msgDetailsFailed, func(ctx context.Context) (any, error) {
		return s.store.App(ctx, appID)
	})
}

// serveCached answers from the cache when possible, otherwise runs fetch,
// stores its JSON encoding and writes it. Any fetch failure becomes a 500
// carrying failMsg.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key cache.CacheKey, failMsg string, fetch func(ctx context.Context) (any, error)) {
	ctx := r.Context()

	if s.cache != nil {
		entry, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			s.logger.Debug().Str("key", key.String()).Msg("Cache hit")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(entry.Data)
			return
		case !errors.Is(err, cache.ErrCacheMiss):
			s.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache lookup failed")
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	result, err := fetch(fetchCtx)
	if err != nil {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Upstream request failed")
		writeError(w, http.StatusInternalServerError, failMsg)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
		writeError(w, http.StatusInternalServerError, failMsg)
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cache.NewEntry(data, s.config.CacheTTL)); err != nil {
			s.logger.Warn().Err(err).Str("key", key.String()).Msg("Failed to cache response")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
