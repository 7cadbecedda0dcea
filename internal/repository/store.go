package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/status"
	"github.com/iliyamo/job-application-tracker/internal/workflow"
)

// Store is the MySQL implementation of workflow.Store.  It aggregates
// the entity repositories and owns the transactions that make each
// (record write, activity log) pair atomic.
type Store struct {
	DB           *sql.DB
	Jobs         *JobRepo
	Applications *ApplicationRepo
	Logs         *ActivityLogRepo
	Counters     *CounterRepo
}

func NewStore(db *sql.DB, jobs *JobRepo, apps *ApplicationRepo, logs *ActivityLogRepo, counters *CounterRepo) *Store {
	if jobs == nil || apps == nil || logs == nil || counters == nil {
		panic("nil repository passed to NewStore")
	}
	return &Store{DB: db, Jobs: jobs, Applications: apps, Logs: logs, Counters: counters}
}

var _ workflow.Store = (*Store)(nil)

// GetApplication maps the repository's sql.ErrNoRows onto the workflow
// sentinel.
func (s *Store) GetApplication(ctx context.Context, id uint64) (model.Application, error) {
	app, err := s.Applications.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Application{}, workflow.ErrApplicationNotFound
	}
	return app, err
}

// GetJob maps the repository's sql.ErrNoRows onto the workflow sentinel.
func (s *Store) GetJob(ctx context.Context, id uint64) (model.Job, error) {
	job, err := s.Jobs.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Job{}, workflow.ErrJobNotFound
	}
	return job, err
}

// ListApplications returns the batch snapshot in id order.
func (s *Store) ListApplications(ctx context.Context) ([]model.Application, error) {
	return s.Applications.ListAll(ctx)
}

// CreateApplication allocates IDs for the application and its initial
// activity log entry and inserts both inside one transaction.
func (s *Store) CreateApplication(ctx context.Context, app model.Application, entry model.ActivityLog) (model.Application, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Application{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	appID, err := s.Counters.NextTx(ctx, tx, CounterApplications)
	if err != nil {
		return model.Application{}, err
	}
	app.ID = appID
	if err := s.Applications.CreateTx(ctx, tx, app); err != nil {
		return model.Application{}, err
	}

	logID, err := s.Counters.NextTx(ctx, tx, CounterActivityLogs)
	if err != nil {
		return model.Application{}, err
	}
	entry.ID = logID
	entry.ApplicationID = appID
	if err := s.Logs.CreateTx(ctx, tx, entry); err != nil {
		return model.Application{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Application{}, err
	}
	committed = true
	return app, nil
}

// ApplyTransition locks the application row, updates its status and
// appends the activity log entry in one transaction.  The previous
// status recorded in the entry is re-captured from the locked row, so a
// transition that raced a concurrent update still logs the state it
// actually replaced.  The captured value is also returned to the caller
// for event payloads.
func (s *Store) ApplyTransition(ctx context.Context, applicationID uint64, newStatus string, updatedAt time.Time, entry model.ActivityLog) (model.Application, string, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Application{}, "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	app, err := s.Applications.GetByIDForUpdateTx(ctx, tx, applicationID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Application{}, "", workflow.ErrApplicationNotFound
	}
	if err != nil {
		return model.Application{}, "", err
	}
	previous := status.Normalize(app.Status)
	if entry.PreviousStatus != nil {
		entry.PreviousStatus = &previous
	}

	newStatus = status.Normalize(newStatus)
	if err := s.Applications.UpdateStatusTx(ctx, tx, applicationID, newStatus, updatedAt); err != nil {
		return model.Application{}, "", err
	}

	logID, err := s.Counters.NextTx(ctx, tx, CounterActivityLogs)
	if err != nil {
		return model.Application{}, "", err
	}
	entry.ID = logID
	entry.ApplicationID = applicationID
	if err := s.Logs.CreateTx(ctx, tx, entry); err != nil {
		return model.Application{}, "", err
	}

	if err := tx.Commit(); err != nil {
		return model.Application{}, "", err
	}
	committed = true

	app.Status = newStatus
	app.UpdatedAt = updatedAt
	return app, previous, nil
}
