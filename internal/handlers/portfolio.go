package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/findosh/folio/internal/middleware"
	"github.com/findosh/folio/internal/models"
	"github.com/findosh/folio/internal/services/exporter"
	"github.com/findosh/folio/internal/services/importer"
	"github.com/findosh/folio/internal/storage"
	"github.com/go-chi/chi/v5"
)

// ListPortfolios returns the caller's portfolios
func (h *Handler) ListPortfolios(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	portfolios, err := h.portfolioRepo.GetByUserID(user.ID)
	if err != nil {
		h.logger.WithError(err).Error("failed to list portfolios")
		jsonError(w, "Failed to load portfolios", http.StatusInternalServerError, nil)
		return
	}
	respondJSON(w, http.StatusOK, portfolios)
}

// CreatePortfolio creates an empty portfolio
func (h *Handler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		jsonError(w, "Portfolio name is required", http.StatusBadRequest, nil)
		return
	}

	p := models.NewPortfolio(h.ids, h.clock, middleware.GetUser(r).ID, name)
	if err := h.portfolioRepo.Create(p); err != nil {
		h.logger.WithError(err).Error("failed to create portfolio")
		jsonError(w, "Failed to create portfolio", http.StatusInternalServerError, nil)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// GetPortfolio returns one portfolio with its accounts and positions
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPortfolio(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// ExportCSV downloads the portfolio as CSV. Live prices are used for
// market-traded positions unless offline=true.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPortfolio(w, r)
	if !ok {
		return
	}

	var lookup exporter.PriceLookup
	if h.prices != nil && h.prices.Enabled() && r.URL.Query().Get("offline") != "true" {
		if err := h.prices.Prefetch(r.Context(), p); err != nil {
			h.logger.WithError(err).Warn("exporting without live prices")
		}
		lookup = h.prices
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporter.ExportFilename(h.clock.Now())))
	io.WriteString(w, exporter.Export(p, lookup))
}

// DeletePortfolio removes the portfolio with its accounts and positions
func (h *Handler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPortfolio(w, r)
	if !ok {
		return
	}

	unlock := h.lockPortfolio(p.ID)
	err := h.portfolioRepo.Delete(p.ID)
	h.locks.Delete(p.ID)
	unlock()

	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.logger.WithError(err).Error("failed to delete portfolio")
		jsonError(w, "Failed to delete portfolio", http.StatusInternalServerError, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewImport reports what importing the uploaded CSV would do without
// changing the portfolio.
func (h *Handler) PreviewImport(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPortfolio(w, r)
	if !ok {
		return
	}
	text, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.importer.Preview(p, text))
}

// ImportCSV merges the uploaded CSV into the portfolio. duplicates=skip
// leaves out positions already held in the target account.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.loadPortfolio(w, r); !ok {
		return
	}
	text, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	unlock := h.lockPortfolio(id)
	defer unlock()

	// reload under the lock so concurrent imports see each other
	p, err := h.portfolioRepo.GetByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		jsonError(w, "Portfolio not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("failed to reload portfolio")
		jsonError(w, "Failed to load portfolio", http.StatusInternalServerError, nil)
		return
	}

	opts := importer.ImportOptions{SkipDuplicates: r.URL.Query().Get("duplicates") == "skip"}
	result, err := h.importer.Import(p, text, opts)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity, result)
		return
	}

	if err := h.portfolioRepo.Save(p); err != nil {
		h.logger.WithError(err).Error("failed to save imported portfolio")
		jsonError(w, "Failed to save portfolio", http.StatusInternalServerError, nil)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// DownloadTemplate serves a sample CSV template
func (h *Handler) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=portfolio-template.csv")
	io.WriteString(w, exporter.Template())
}

func (h *Handler) loadPortfolio(w http.ResponseWriter, r *http.Request) (*models.Portfolio, bool) {
	p, err := h.portfolioRepo.GetByID(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		jsonError(w, "Portfolio not found", http.StatusNotFound, nil)
		return nil, false
	}
	if err != nil {
		h.logger.WithError(err).Error("failed to load portfolio")
		jsonError(w, "Failed to load portfolio", http.StatusInternalServerError, nil)
		return nil, false
	}
	if p.UserID != middleware.GetUser(r).ID {
		jsonError(w, "Portfolio not found", http.StatusNotFound, nil)
		return nil, false
	}
	return p, true
}

// readUpload accepts either a multipart form with a "file" field or a raw
// CSV request body.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
			jsonError(w, "File too large or malformed upload", http.StatusRequestEntityTooLarge, nil)
			return "", false
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "No file uploaded", http.StatusBadRequest, nil)
			return "", false
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		jsonError(w, "File too large", http.StatusRequestEntityTooLarge, nil)
		return "", false
	}
	return string(data), true
}
