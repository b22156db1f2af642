package ledgerhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/httpx"
	"github.com/ia-usgs/field-service-manager-sub001/internal/reminders"
)

func (h *Handler) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminders.CreateReminderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	rem, err := h.ledger.AddReminder(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rem)
}

func (h *Handler) handleCompleteReminder(w http.ResponseWriter, r *http.Request) {
	rem, err := h.ledger.CompleteReminder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rem)
}

func (h *Handler) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteReminder(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListReminders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := reminders.ListRemindersRequest{
		DueBefore: q.Get("due_before"),
		JobID:     q.Get("job_id"),
	}
	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		req.Completed = &completed
	}
	list, err := h.ledger.ListReminders(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}
