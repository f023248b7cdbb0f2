package api

import (
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/importer"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	importer *importer.Importer
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, imp *importer.Importer) *Handler {
	return &Handler{
		store:    s,
		importer: imp,
	}
}
