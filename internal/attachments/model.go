package attachments

import "time"

// Attachment stores a filesystem reference plus metadata for one job. The
// bytes themselves live outside the ledger; collaborators handle file I/O.
type Attachment struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	Mime      string    `json:"mime,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAttachmentRequest struct {
	JobID     string `json:"job_id" validate:"required"`
	Path      string `json:"path" validate:"required,max=1000"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0"`
	Mime      string `json:"mime,omitempty" validate:"omitempty,max=100"`
}
