package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mwhitfield/jobwatch/internal/usecase"
	"go.uber.org/zap"
)

// Handler exposes the watch, alert, and check operations over HTTP.
type Handler struct {
	watches    *usecase.WatchUsecase
	alerts     *usecase.AlertUsecase
	check      *usecase.CheckUsecase
	cronSecret string
	maxRuntime time.Duration
	logger     *zap.Logger
}

func NewHandler(
	watches *usecase.WatchUsecase,
	alerts *usecase.AlertUsecase,
	check *usecase.CheckUsecase,
	cronSecret string,
	maxRuntime time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		watches:    watches,
		alerts:     alerts,
		check:      check,
		cronSecret: cronSecret,
		maxRuntime: maxRuntime,
		logger:     logger,
	}
}

func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(h.logRequests)

	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/watchlist", h.handleListWatches).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", h.handleCreateWatch).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/validate", h.handleValidateBoard).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/detect", h.handleDetectSource).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/check-now", h.handlePreview).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/{id}", h.handleUpdateWatch).Methods(http.MethodPatch)
	api.HandleFunc("/watchlist/{id}", h.handleDeleteWatch).Methods(http.MethodDelete)

	api.HandleFunc("/alerts", h.handleListAlerts).Methods(http.MethodGet)
	api.HandleFunc("/alerts/{id}", h.handleDecideAlert).Methods(http.MethodPatch)

	check := api.PathPrefix("/check").Subrouter()
	check.Use(h.requireCronSecret)
	check.HandleFunc("", h.handleCheck).Methods(http.MethodGet, http.MethodPost)

	return router
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// requireCronSecret gates the trigger endpoint with a bearer token. When no
// secret is configured the endpoint stays open, matching a single-user
// deployment where the scheduler and the API share a trust boundary.
func (h *Handler) requireCronSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cronSecret == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.cronSecret)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
