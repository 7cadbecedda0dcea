package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/status"
)

// ActivityLogRepo provides access to the append-only `activity_logs`
// table.  Rows are only ever inserted; there are no update or delete
// operations by design.
type ActivityLogRepo struct{ DB *sql.DB }

func NewActivityLogRepo(db *sql.DB) *ActivityLogRepo { return &ActivityLogRepo{DB: db} }

// CreateTx appends an activity log row within the caller's transaction.
// The ID must already be allocated from the activitylogs counter.
func (r *ActivityLogRepo) CreateTx(ctx context.Context, tx *sql.Tx, entry model.ActivityLog) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO activity_logs (id, application_id, action, previous_status, new_status,
		 comment, updated_by_id, is_automated, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		entry.ID, entry.ApplicationID, entry.Action, entry.PreviousStatus, entry.NewStatus,
		entry.Comment, entry.UpdatedByID, entry.IsAutomated, entry.CreatedAt)
	return err
}

// ListByApplication returns all activity for an application, newest
// first, which is the order the audit trail is displayed in.
func (r *ActivityLogRepo) ListByApplication(ctx context.Context, applicationID uint64) ([]model.ActivityLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, application_id, action, previous_status, new_status, comment,
		 updated_by_id, is_automated, created_at
		 FROM activity_logs WHERE application_id=? ORDER BY created_at DESC, id DESC`,
		applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.ActivityLog, 0)
	for rows.Next() {
		var (
			entry    model.ActivityLog
			prev     sql.NullString
			next     sql.NullString
			comment  sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.ApplicationID, &entry.Action, &prev, &next,
			&comment, &entry.UpdatedByID, &entry.IsAutomated, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if prev.Valid {
			s := status.Normalize(prev.String)
			entry.PreviousStatus = &s
		}
		if next.Valid {
			s := status.Normalize(next.String)
			entry.NewStatus = &s
		}
		entry.Comment = comment.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
