package ledgerhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/httpx"
)

func (h *Handler) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobs.CreateJobRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	j, err := h.ledger.AddJob(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, j)
}

func (h *Handler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	j, err := h.ledger.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (h *Handler) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var req jobs.UpdateJobRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	j, err := h.ledger.UpdateJob(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

type statusChangeRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	var req statusChangeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	j, err := h.ledger.UpdateJobStatus(r.Context(), chi.URLParam(r, "id"), jobs.Status(req.Status))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (h *Handler) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.ledger.DeleteJob(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"deleted":     id,
		"undo_window": h.ledger.Trash().Window().String(),
	})
}

func (h *Handler) handleRestoreJob(w http.ResponseWriter, r *http.Request) {
	j, err := h.ledger.RestoreJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := jobs.ListJobsRequest{
		CustomerID: q.Get("customer_id"),
		Status:     q.Get("status"),
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
	}
	list, err := h.ledger.ListJobs(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}
