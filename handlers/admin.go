// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/gva-map/auth"
	"github.com/danielhkuo/gva-map/cliparse"
	"github.com/danielhkuo/gva-map/middleware"
	"github.com/danielhkuo/gva-map/models"
	"github.com/danielhkuo/gva-map/seed"
	"github.com/danielhkuo/gva-map/store"
)

// maxImportBytes caps an uploaded GVA export
const maxImportBytes = 32 << 20

type AdminHandler struct {
	db   *sql.DB
	cfg  cliparse.Config
	data *store.Holder
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config, data *store.Holder) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, data: data}
}

func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request, scope string) bool {
	adminKey := r.Header.Get(auth.AdminKeyHeader)
	if adminKey == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Admin key required")
		return false
	}
	if err := auth.ValidateAdminKey(scope, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid admin key")
		return false
	}
	return true
}

// reload reads every table and swaps the snapshot in
func (h *AdminHandler) reload(r *http.Request) (models.ReloadResponse, error) {
	ds, err := store.Load(r.Context(), h.db)
	if err != nil {
		return models.ReloadResponse{}, err
	}
	h.data.Swap(ds)

	slog.Info("dataset reloaded",
		"request_id", middleware.RequestID(r.Context()),
		"incidents", len(ds.Incidents),
		"states", len(ds.Shapes),
	)
	return models.ReloadResponse{
		Incidents: len(ds.Incidents),
		States:    len(ds.Shapes),
		LoadedAt:  ds.LoadedAt,
	}, nil
}

// Reload handles POST /admin/reload
// Requires X-Admin-Key for the reload scope
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, auth.ScopeReload) {
		return
	}

	resp, err := h.reload(r)
	if err != nil {
		slog.Error("failed to reload dataset", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reload dataset")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Import handles POST /admin/import
// Upserts a GVA CSV export sent as the request body, then reloads
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, auth.ScopeImport) {
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	defer body.Close()

	n, err := seed.NewSeeder(h.db, h.cfg.DatabaseType).ImportIncidents(r.Context(), body)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Export too large")
		return
	case errors.Is(err, seed.ErrMissingColumn):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("failed to import incidents", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import incidents")
		return
	}
	slog.Info("incidents imported", "rows", n)

	resp, err := h.reload(r)
	if err != nil {
		slog.Error("failed to reload dataset", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reload dataset")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ImportResponse{Imported: n, ReloadResponse: resp})
}
