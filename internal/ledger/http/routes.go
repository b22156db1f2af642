package ledgerhttp

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the ledger endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.handleCreateCustomer)
		r.Get("/", h.handleListCustomers)
		r.Get("/{id}", h.handleGetCustomer)
		r.Patch("/{id}", h.handleUpdateCustomer)
		r.Post("/{id}/archive", h.handleArchiveCustomer)
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Post("/", h.handleCreateJob)
		r.Get("/", h.handleListJobs)
		r.Get("/{id}", h.handleGetJob)
		r.Patch("/{id}", h.handleUpdateJob)
		r.Post("/{id}/status", h.handleUpdateJobStatus)
		r.Delete("/{id}", h.handleDeleteJob)
		r.Post("/{id}/restore", h.handleRestoreJob)
		r.Get("/{id}/attachments", h.handleListAttachments)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", h.handleListInvoices)
		r.Get("/{id}", h.handleGetInvoice)
		r.Get("/{id}/payments", h.handleListPayments)
		r.Post("/{id}/payments", h.handleRecordPayment)
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Post("/", h.handleCreateItem)
		r.Get("/", h.handleListInventory)
		r.Get("/low-stock", h.handleListLowStock)
		r.Get("/{id}", h.handleGetItem)
		r.Patch("/{id}", h.handleUpdateItem)
	})

	r.Route("/reminders", func(r chi.Router) {
		r.Post("/", h.handleCreateReminder)
		r.Get("/", h.handleListReminders)
		r.Post("/{id}/complete", h.handleCompleteReminder)
		r.Delete("/{id}", h.handleDeleteReminder)
	})

	r.Route("/attachments", func(r chi.Router) {
		r.Post("/", h.handleCreateAttachment)
		r.Delete("/{id}", h.handleDeleteAttachment)
	})

	r.Get("/settings", h.handleGetSettings)
	r.Patch("/settings", h.handleUpdateSettings)

	r.Get("/audit", h.handleAuditTimeline)
	r.Delete("/audit", h.handlePurgeAudit)

	r.Get("/trash", h.handleListTrash)
	r.Get("/summary", h.handleSummary)
}
