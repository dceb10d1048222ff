// Package handlers provides HTTP request handlers
package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/findosh/folio/internal/config"
	"github.com/findosh/folio/internal/middleware"
	"github.com/findosh/folio/internal/models"
	"github.com/findosh/folio/internal/services/auth"
	"github.com/findosh/folio/internal/services/importer"
	"github.com/findosh/folio/internal/services/marketdata"
	"github.com/findosh/folio/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg           *config.Config
	logger        *logrus.Logger
	authService   *auth.Service
	portfolioRepo *storage.PortfolioRepository
	importer      *importer.Service
	prices        *marketdata.Service
	ids           models.IDGenerator
	clock         models.Clock

	// merges into one portfolio must not interleave
	locks sync.Map
}

// Deps groups what New needs
type Deps struct {
	Config        *config.Config
	Logger        *logrus.Logger
	AuthService   *auth.Service
	PortfolioRepo *storage.PortfolioRepository
	Prices        *marketdata.Service
	IDs           models.IDGenerator
	Clock         models.Clock
}

// New creates a new handler with all dependencies
func New(d Deps) *Handler {
	return &Handler{
		cfg:           d.Config,
		logger:        d.Logger,
		authService:   d.AuthService,
		portfolioRepo: d.PortfolioRepo,
		importer:      importer.NewService(d.IDs, d.Clock),
		prices:        d.Prices,
		ids:           d.IDs,
		clock:         d.Clock,
	}
}

// Router wires every route
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(h.logger))
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(h.cfg.CORSOrigins))

	authMW := middleware.NewAuth(h.authService)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/template.csv", h.DownloadTemplate)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Get("/portfolios", h.ListPortfolios)
			r.Post("/portfolios", h.CreatePortfolio)
			r.Route("/portfolios/{id}", func(r chi.Router) {
				r.Get("/", h.GetPortfolio)
				r.Delete("/", h.DeletePortfolio)
				r.Get("/export", h.ExportCSV)
				r.Post("/import/preview", h.PreviewImport)
				r.Post("/import", h.ImportCSV)
			})
		})
	})

	return r
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// lockPortfolio serializes imports into one portfolio. Entries live until
// the portfolio is deleted.
func (h *Handler) lockPortfolio(id string) func() {
	v, _ := h.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// errorResponse represents an error response
type errorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// jsonError writes a JSON error response
func jsonError(w http.ResponseWriter, message string, status int, details interface{}) {
	respondJSON(w, status, errorResponse{Error: message, Details: details})
}
