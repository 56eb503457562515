// Package api exposes the restaurant ordering REST surface.
package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dishly/restaurant-api/internal/events"
	"github.com/dishly/restaurant-api/internal/store"
	"github.com/dishly/restaurant-api/internal/websocket"
)

type Config struct {
	UploadDir string
	ServerURL string
}

type Handler struct {
	store     store.Store
	publisher events.Publisher
	hub       *websocket.Hub
	logger    *logrus.Logger
	validate  *validator.Validate
	cfg       Config
}

func New(s store.Store, publisher events.Publisher, hub *websocket.Hub, logger *logrus.Logger, cfg Config) *Handler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Handler{
		store:     s,
		publisher: publisher,
		hub:       hub,
		logger:    logger,
		validate:  validator.New(),
		cfg:       cfg,
	}
}

// Router wires every route plus logging and CORS middleware.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	if h.hub != nil {
		r.HandleFunc("/ws", h.hub.HandleWebSocket)
	}

	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.Logout).Methods("POST")

	r.HandleFunc("/api/dishes", h.ListDishes).Methods("GET")
	r.HandleFunc("/api/dishes/{id}", h.GetDish).Methods("GET")

	r.HandleFunc("/api/orders", h.CreateOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.ListOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}/status", h.UpdateOrderStatus).Methods("PUT")
	r.HandleFunc("/api/orders/{id}/items/{dishId}/complete", h.CompleteOrderItem).Methods("PUT")

	r.HandleFunc("/api/admin/dishes", h.CreateDish).Methods("POST")
	r.HandleFunc("/api/admin/dishes/{id}", h.UpdateDish).Methods("PUT")
	r.HandleFunc("/api/admin/dishes/{id}", h.DeleteDish).Methods("DELETE")
	r.HandleFunc("/api/admin/upload", h.UploadImage).Methods("POST")
	r.HandleFunc("/api/admin/statistics", h.GetStatistics).Methods("GET")
	r.HandleFunc("/api/admin/users", h.ListUsers).Methods("GET")
	r.HandleFunc("/api/admin/users", h.CreateUser).Methods("POST")
	r.HandleFunc("/api/admin/users/{id}", h.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/admin/users/{id}", h.DeleteUser).Methods("DELETE")

	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.cfg.UploadDir))))

	r.NotFoundHandler = http.HandlerFunc(h.notFound)

	return corsMiddleware(loggingMiddleware(h.logger)(r))
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.store.(interface{ Ping() error }); ok {
		if err := p.Ping(); err != nil {
			h.respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": "restaurant-api",
			})
			return
		}
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "restaurant-api",
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.respondWithError(w, http.StatusNotFound, "route not found")
}

func loggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"remote":   r.RemoteAddr,
				"duration": time.Since(start).Milliseconds(),
			}).Info("Request completed")
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
