package ledgerhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ia-usgs/field-service-manager-sub001/internal/inventory"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/httpx"
)

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req inventory.CreateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	item, err := h.ledger.AddInventoryItem(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.ledger.GetInventoryItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req inventory.UpdateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	item, err := h.ledger.UpdateInventoryItem(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) handleListInventory(w http.ResponseWriter, r *http.Request) {
	list, err := h.ledger.ListInventory(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleListLowStock(w http.ResponseWriter, r *http.Request) {
	list, err := h.ledger.ListLowStock(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}
