package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ia-usgs/field-service-manager-sub001/internal/attachments"
	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// AddAttachment records a file reference for a job. Only metadata is stored;
// the caller owns the bytes on disk.
func (f *Facade) AddAttachment(ctx context.Context, req attachments.CreateAttachmentRequest) (*attachments.Attachment, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return nil, err
	}
	now := f.now()
	var a attachments.Attachment
	err := db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		j, err := jobs.NewRepository(tx).Get(ctx, req.JobID)
		if err != nil {
			return err
		}
		a = attachments.Attachment{
			ID:        newID(),
			JobID:     j.ID,
			Path:      req.Path,
			SizeBytes: req.SizeBytes,
			Mime:      req.Mime,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := attachments.NewRepository(tx).Insert(ctx, a); err != nil {
			return err
		}
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "attachment",
			EntityID:   a.ID,
			Action:     "create",
			Details:    fmt.Sprintf("attached %q (%d bytes) to job %q", a.Path, a.SizeBytes, j.Title),
			At:         now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAttachment removes a file reference. The underlying file is the
// caller's to clean up.
func (f *Facade) DeleteAttachment(ctx context.Context, id string) error {
	now := f.now()
	return db.WithTx(ctx, f.db, func(tx *sql.Tx) error {
		repo := attachments.NewRepository(tx)
		a, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return audit.NewLogger(tx).Record(ctx, audit.Entry{
			EntityType: "attachment",
			EntityID:   a.ID,
			Action:     "delete",
			Details:    fmt.Sprintf("removed attachment %q from job %s", a.Path, a.JobID),
			At:         now,
		})
	})
}

// ListAttachments returns the file references for a job.
func (f *Facade) ListAttachments(ctx context.Context, jobID string) ([]attachments.Attachment, error) {
	if _, err := jobs.NewRepository(f.db).Get(ctx, jobID); err != nil {
		return nil, err
	}
	return attachments.NewRepository(f.db).ListByJob(ctx, jobID)
}
