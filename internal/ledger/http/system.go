package ledgerhttp

import (
	"net/http"
	"strconv"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/httpx"
	"github.com/ia-usgs/field-service-manager-sub001/internal/settings"
)

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.ledger.GetSettings(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateSettingsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	s, err := h.ledger.UpdateSettings(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) handleAuditTimeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := audit.TimelineFilters{
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		Action:     q.Get("action"),
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	result, err := h.ledger.AuditTimeline(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handlePurgeAudit(w http.ResponseWriter, r *http.Request) {
	n, err := h.ledger.PurgeAudit(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"purged": n})
}

func (h *Handler) handleListTrash(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.ledger.Trash().Pending())
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.ledger.GetSummary(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}
