package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/iliyamo/job-application-tracker/internal/model"
)

// JobRepo provides access to the `jobs` table.  Postings are created once
// and then read-only; required skills are persisted as a JSON array in
// the required_skills column.
type JobRepo struct {
	DB       *sql.DB
	Counters *CounterRepo
}

func NewJobRepo(db *sql.DB, counters *CounterRepo) *JobRepo {
	return &JobRepo{DB: db, Counters: counters}
}

// Create allocates an ID from the jobs counter and inserts the posting.
// A nil RequiredSkills slice is stored as an empty array so that reads
// never surface null skill lists.
func (r *JobRepo) Create(ctx context.Context, job model.Job) (model.Job, error) {
	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	}
	skillsJSON, err := json.Marshal(job.RequiredSkills)
	if err != nil {
		return model.Job{}, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Job{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	id, err := r.Counters.NextTx(ctx, tx, CounterJobs)
	if err != nil {
		return model.Job{}, err
	}
	job.ID = id
	job.CreatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO jobs (id, title, company, description, requirements, required_skills, type, created_by_id, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		job.ID, job.Title, job.Company, job.Description, job.Requirements,
		string(skillsJSON), job.Type, job.CreatedByID, job.CreatedAt)
	if err != nil {
		return model.Job{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Job{}, err
	}
	committed = true
	return job, nil
}

const jobColumns = "id, title, company, description, requirements, required_skills, type, created_by_id, created_at"

// GetByID fetches a posting by id.  sql.ErrNoRows is returned when the
// posting does not exist.
func (r *JobRepo) GetByID(ctx context.Context, id uint64) (model.Job, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id=? LIMIT 1", id)
	return scanJob(row)
}

// List returns all postings, newest first.
func (r *JobRepo) List(ctx context.Context) ([]model.Job, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM jobs ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (model.Job, error) {
	var (
		job         model.Job
		description sql.NullString
		reqs        sql.NullString
		skillsRaw   sql.NullString
	)
	err := row.Scan(&job.ID, &job.Title, &job.Company, &description, &reqs,
		&skillsRaw, &job.Type, &job.CreatedByID, &job.CreatedAt)
	if err != nil {
		return model.Job{}, err
	}
	job.Description = description.String
	job.Requirements = reqs.String
	job.RequiredSkills = decodeSkills(skillsRaw)
	return job, nil
}

// decodeSkills unpacks a JSON array column; missing or malformed values
// degrade to an empty list rather than failing the whole read.
func decodeSkills(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var skills []string
	if err := json.Unmarshal([]byte(raw.String), &skills); err != nil || skills == nil {
		return []string{}
	}
	return skills
}
