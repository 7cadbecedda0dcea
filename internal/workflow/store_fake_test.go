package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/status"
)

// fakeStore is an in-memory Store used by the workflow tests.  It
// mirrors the contract of the MySQL store: IDs are assigned on create,
// the log entry's ApplicationID is filled in, and the paired write either
// fully happens or fails as a unit.
type fakeStore struct {
	apps    map[uint64]model.Application
	jobs    map[uint64]model.Job
	logs    []model.ActivityLog
	order   []uint64
	nextApp uint64
	nextLog uint64

	// failTransition makes ApplyTransition fail for the given
	// application IDs, simulating a persistence fault on one item.
	failTransition map[uint64]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		apps:           map[uint64]model.Application{},
		jobs:           map[uint64]model.Job{},
		failTransition: map[uint64]error{},
	}
}

func (f *fakeStore) addJob(job model.Job) model.Job {
	f.jobs[job.ID] = job
	return job
}

func (f *fakeStore) addApplication(app model.Application) model.Application {
	if app.ID == 0 {
		f.nextApp++
		app.ID = f.nextApp
	}
	f.apps[app.ID] = app
	f.order = append(f.order, app.ID)
	return app
}

func (f *fakeStore) logsFor(applicationID uint64) []model.ActivityLog {
	var out []model.ActivityLog
	for _, entry := range f.logs {
		if entry.ApplicationID == applicationID {
			out = append(out, entry)
		}
	}
	return out
}

func (f *fakeStore) GetApplication(_ context.Context, id uint64) (model.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return model.Application{}, ErrApplicationNotFound
	}
	return app, nil
}

func (f *fakeStore) GetJob(_ context.Context, id uint64) (model.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return model.Job{}, ErrJobNotFound
	}
	return job, nil
}

func (f *fakeStore) ListApplications(_ context.Context) ([]model.Application, error) {
	out := make([]model.Application, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.apps[id])
	}
	return out, nil
}

func (f *fakeStore) CreateApplication(_ context.Context, app model.Application, entry model.ActivityLog) (model.Application, error) {
	f.nextApp++
	app.ID = f.nextApp
	f.apps[app.ID] = app
	f.order = append(f.order, app.ID)

	f.nextLog++
	entry.ID = f.nextLog
	entry.ApplicationID = app.ID
	f.logs = append(f.logs, entry)
	return app, nil
}

func (f *fakeStore) ApplyTransition(_ context.Context, applicationID uint64, newStatus string, updatedAt time.Time, entry model.ActivityLog) (model.Application, string, error) {
	if err, ok := f.failTransition[applicationID]; ok {
		return model.Application{}, "", err
	}
	app, ok := f.apps[applicationID]
	if !ok {
		return model.Application{}, "", ErrApplicationNotFound
	}
	previous := status.Normalize(app.Status)
	if entry.PreviousStatus != nil {
		entry.PreviousStatus = &previous
	}
	app.Status = status.Normalize(newStatus)
	app.UpdatedAt = updatedAt
	f.apps[applicationID] = app

	f.nextLog++
	entry.ID = f.nextLog
	entry.ApplicationID = applicationID
	f.logs = append(f.logs, entry)
	return app, previous, nil
}

var errStorageDown = errors.New("storage unavailable")
