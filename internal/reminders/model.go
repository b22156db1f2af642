package reminders

import "time"

// Reminder is a follow-up tied to one job and one customer.
type Reminder struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	CustomerID  string    `json:"customer_id"`
	Title       string    `json:"title"`
	DueAt       time.Time `json:"due_at"`
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateReminderRequest struct {
	JobID string `json:"job_id" validate:"required"`
	Title string `json:"title" validate:"required,max=200"`
	DueAt string `json:"due_at" validate:"required"`
}

type ListRemindersRequest struct {
	DueBefore string `json:"due_before,omitempty"`
	Completed *bool  `json:"completed,omitempty"`
	JobID     string `json:"job_id,omitempty"`
}
