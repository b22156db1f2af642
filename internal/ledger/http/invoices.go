package ledgerhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ia-usgs/field-service-manager-sub001/internal/invoices"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/httpx"
)

func (h *Handler) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.ledger.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := invoices.ListInvoicesRequest{
		CustomerID: q.Get("customer_id"),
		JobID:      q.Get("job_id"),
		Status:     q.Get("status"),
	}
	list, err := h.ledger.ListInvoices(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	list, err := h.ledger.ListPayments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req invoices.RecordPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	inv, err := h.ledger.RecordPayment(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}
