package ledgerhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ia-usgs/field-service-manager-sub001/internal/attachments"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/httpx"
)

func (h *Handler) handleCreateAttachment(w http.ResponseWriter, r *http.Request) {
	var req attachments.CreateAttachmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	a, err := h.ledger.AddAttachment(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *Handler) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteAttachment(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	list, err := h.ledger.ListAttachments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}
