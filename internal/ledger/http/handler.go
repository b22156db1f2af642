// Package ledgerhttp exposes the business facade over a JSON HTTP API.
package ledgerhttp

import (
	"log/slog"

	"github.com/ia-usgs/field-service-manager-sub001/internal/ledger"
)

// Handler coordinates HTTP requests for the ledger facade.
type Handler struct {
	logger *slog.Logger
	ledger *ledger.Facade
}

// NewHandler constructs the ledger HTTP handler.
func NewHandler(logger *slog.Logger, facade *ledger.Facade) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, ledger: facade}
}
