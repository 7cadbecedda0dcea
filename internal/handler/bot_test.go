package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/queue"
	"github.com/iliyamo/job-application-tracker/internal/status"
	"github.com/iliyamo/job-application-tracker/internal/workflow"
)

// botStore is the minimal in-memory workflow.Store the automation
// endpoint tests need.
type botStore struct {
	apps []model.Application
	jobs map[uint64]model.Job
	logs []model.ActivityLog
}

func (s *botStore) GetApplication(_ context.Context, id uint64) (model.Application, error) {
	for _, app := range s.apps {
		if app.ID == id {
			return app, nil
		}
	}
	return model.Application{}, workflow.ErrApplicationNotFound
}

func (s *botStore) GetJob(_ context.Context, id uint64) (model.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return model.Job{}, workflow.ErrJobNotFound
	}
	return job, nil
}

func (s *botStore) ListApplications(_ context.Context) ([]model.Application, error) {
	return append([]model.Application(nil), s.apps...), nil
}

func (s *botStore) CreateApplication(_ context.Context, app model.Application, entry model.ActivityLog) (model.Application, error) {
	app.ID = uint64(len(s.apps) + 1)
	s.apps = append(s.apps, app)
	entry.ApplicationID = app.ID
	s.logs = append(s.logs, entry)
	return app, nil
}

func (s *botStore) ApplyTransition(_ context.Context, applicationID uint64, newStatus string, updatedAt time.Time, entry model.ActivityLog) (model.Application, string, error) {
	for i, app := range s.apps {
		if app.ID != applicationID {
			continue
		}
		previous := status.Normalize(app.Status)
		app.Status = status.Normalize(newStatus)
		app.UpdatedAt = updatedAt
		s.apps[i] = app
		entry.ApplicationID = applicationID
		s.logs = append(s.logs, entry)
		return app, previous, nil
	}
	return model.Application{}, "", workflow.ErrApplicationNotFound
}

func runAutomate(t *testing.T, store *botStore, published chan queue.StatusChangedEvent) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/bot/automate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(3))
	c.Set("role", model.RoleBotMimic)

	h := NewBotHandler(workflow.NewAutomation(store))
	h.Publish = func(_ context.Context, ev queue.StatusChangedEvent) {
		published <- ev
	}
	require.NoError(t, h.Automate(c))
	return rec
}

func TestAutomateReportsProcessedAndErrors(t *testing.T) {
	store := &botStore{
		jobs: map[uint64]model.Job{
			1: {ID: 1, Type: model.JobTypeTechnical, RequiredSkills: []string{"Go", "SQL"}},
		},
		apps: []model.Application{
			{ID: 10, JobID: 1, ApplicantID: 2, Status: status.Applied, HavingSkills: []string{"Go", "SQL"}},
			{ID: 11, JobID: 99, ApplicantID: 2, Status: status.Applied},
		},
	}
	published := make(chan queue.StatusChangedEvent, 4)

	rec := runAutomate(t, store, published)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message        string               `json:"message"`
		ProcessedCount int                  `json:"processedCount"`
		Processed      []model.Application  `json:"processed"`
		Errors         []workflow.ItemError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Processed 1 applications, 1 errors", resp.Message)
	assert.Equal(t, 1, resp.ProcessedCount)
	require.Len(t, resp.Processed, 1)
	assert.Equal(t, status.Reviewed, resp.Processed[0].Status)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, uint64(11), resp.Errors[0].ApplicationID)

	select {
	case ev := <-published:
		assert.Equal(t, uint64(10), ev.ApplicationID)
		assert.Equal(t, uint64(1), ev.JobID)
		assert.Equal(t, status.Applied, ev.PreviousStatus)
		assert.Equal(t, status.Reviewed, ev.NewStatus)
		assert.Contains(t, ev.Comment, "100%")
		assert.Equal(t, uint64(3), ev.UpdatedByID)
		assert.True(t, ev.IsAutomated)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a status event for the processed application")
	}
	select {
	case ev := <-published:
		t.Fatalf("unexpected extra event for application %d", ev.ApplicationID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAutomateCleanBatchMessage(t *testing.T) {
	store := &botStore{
		jobs: map[uint64]model.Job{
			1: {ID: 1, Type: model.JobTypeTechnical},
		},
		apps: []model.Application{
			{ID: 10, JobID: 1, ApplicantID: 2, Status: status.Applied},
		},
	}
	published := make(chan queue.StatusChangedEvent, 4)

	rec := runAutomate(t, store, published)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Processed 1 applications", resp.Message,
		"a clean batch omits the error suffix")
}
