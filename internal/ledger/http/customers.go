package ledgerhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ia-usgs/field-service-manager-sub001/internal/customers"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/httpx"
)

func (h *Handler) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customers.CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	c, err := h.ledger.AddCustomer(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.ledger.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customers.UpdateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	c, err := h.ledger.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleArchiveCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.ledger.ArchiveCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := customers.ListCustomersRequest{Search: q.Get("search")}
	if v := q.Get("archived"); v != "" {
		archived := v == "true"
		req.Archived = &archived
	}
	list, err := h.ledger.ListCustomers(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}
