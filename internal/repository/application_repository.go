package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/status"
)

// ApplicationRepo provides access to the `applications` table.  Status
// values are normalized on every scan, so legacy labels in old rows are
// always surfaced in the canonical vocabulary.  Writes that must pair
// with an activity log entry are exposed as *Tx variants and driven by
// the Store.
type ApplicationRepo struct{ DB *sql.DB }

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{DB: db} }

const applicationColumns = `id, job_id, applicant_id, status, name, email, phone, location,
	cover_letter, having_skills, resume_url, created_at, updated_at`

// CreateTx inserts a new application within the caller's transaction.
// The ID must already be allocated by the caller (from the applications
// counter) and the status must be canonical.
func (r *ApplicationRepo) CreateTx(ctx context.Context, tx *sql.Tx, app model.Application) error {
	if app.HavingSkills == nil {
		app.HavingSkills = []string{}
	}
	skillsJSON, err := json.Marshal(app.HavingSkills)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO applications (id, job_id, applicant_id, status, name, email, phone, location,
		 cover_letter, having_skills, resume_url, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		app.ID, app.JobID, app.ApplicantID, status.Normalize(app.Status),
		app.Name, app.Email, app.Phone, app.Location,
		app.CoverLetter, string(skillsJSON), app.ResumeURL, app.CreatedAt, app.UpdatedAt)
	return err
}

// GetByID fetches an application by id.  sql.ErrNoRows is returned when
// it does not exist.
func (r *ApplicationRepo) GetByID(ctx context.Context, id uint64) (model.Application, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE id=? LIMIT 1", id)
	return scanApplication(row)
}

// GetByIDForUpdateTx fetches an application inside a transaction with a
// row lock, so a concurrent transition on the same application waits and
// observes the committed status rather than racing the paired log write.
func (r *ApplicationRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Application, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE id=? LIMIT 1 FOR UPDATE", id)
	return scanApplication(row)
}

// ListAll returns every application ordered by id ascending.  The
// automation engine iterates this snapshot in order.
func (r *ApplicationRepo) ListAll(ctx context.Context) ([]model.Application, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+applicationColumns+" FROM applications ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

// ListByApplicant returns the applicant's applications, newest first.
func (r *ApplicationRepo) ListByApplicant(ctx context.Context, applicantID uint64) ([]model.Application, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE applicant_id=? ORDER BY created_at DESC, id DESC",
		applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

// UpdateStatusTx persists a new status and updated_at within the
// caller's transaction.  The caller is responsible for appending the
// matching activity log row in the same transaction.
func (r *ApplicationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, newStatus string, updatedAt time.Time) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE applications SET status=?, updated_at=? WHERE id=?",
		status.Normalize(newStatus), updatedAt, id)
	return err
}

func collectApplications(rows *sql.Rows) ([]model.Application, error) {
	apps := make([]model.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

func scanApplication(row rowScanner) (model.Application, error) {
	var (
		app         model.Application
		name        sql.NullString
		email       sql.NullString
		phone       sql.NullString
		location    sql.NullString
		coverLetter sql.NullString
		skillsRaw   sql.NullString
		resumeURL   sql.NullString
	)
	err := row.Scan(&app.ID, &app.JobID, &app.ApplicantID, &app.Status,
		&name, &email, &phone, &location, &coverLetter, &skillsRaw, &resumeURL,
		&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return model.Application{}, err
	}
	app.Status = status.Normalize(app.Status)
	app.Name = name.String
	app.Email = email.String
	app.Phone = phone.String
	app.Location = location.String
	app.CoverLetter = coverLetter.String
	app.HavingSkills = decodeSkills(skillsRaw)
	app.ResumeURL = resumeURL.String
	return app, nil
}
