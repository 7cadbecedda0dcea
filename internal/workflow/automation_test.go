package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/status"
)

var botActor = Actor{ID: 3, Role: model.RoleBotMimic}

func TestRunProgressesFullMatch(t *testing.T) {
	f := newFakeStore()
	f.addJob(model.Job{ID: 1, Type: model.JobTypeTechnical, RequiredSkills: []string{"X"}})
	app := f.addApplication(model.Application{JobID: 1, ApplicantID: 10, Status: status.Applied, HavingSkills: []string{"X"}})

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	require.Len(t, result.Processed, 1)
	assert.Equal(t, status.Reviewed, result.Processed[0].Status)
	assert.Empty(t, result.Errors)

	// Each status change is also surfaced for event publication.
	require.Len(t, result.Changes, 1)
	assert.Equal(t, app.ID, result.Changes[0].Application.ID)
	assert.Equal(t, status.Applied, result.Changes[0].Previous)
	assert.Contains(t, result.Changes[0].Comment, "100%")

	logs := f.logsFor(app.ID)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].IsAutomated)
	assert.Equal(t, status.Applied, *logs[0].PreviousStatus)
	assert.Equal(t, status.Reviewed, *logs[0].NewStatus)
	assert.Contains(t, logs[0].Comment, "100%")
	assert.Contains(t, logs[0].Comment, "1/1")
}

func TestRunHoldsBelowThresholdButLogs(t *testing.T) {
	// Non-empty havingSkills below 50% is held at Applied, and the
	// deliberation is still audited.
	f := newFakeStore()
	f.addJob(model.Job{ID: 1, Type: model.JobTypeTechnical, RequiredSkills: []string{"X", "Y", "Z"}})
	app := f.addApplication(model.Application{JobID: 1, ApplicantID: 10, Status: status.Applied, HavingSkills: []string{"X"}})

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	assert.Zero(t, result.ProcessedCount, "held applications are not counted as processed")
	assert.Empty(t, result.Changes, "held applications emit no status event")
	assert.Equal(t, status.Applied, f.apps[app.ID].Status)

	logs := f.logsFor(app.ID)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Comment, "33%")
	assert.Contains(t, logs[0].Comment, "Below 50% threshold, keeping as Applied")
	assert.Equal(t, status.Applied, *logs[0].PreviousStatus)
	assert.Equal(t, status.Applied, *logs[0].NewStatus)
}

func TestRunEmptyHavingSkillsIsNoDataNotZeroPercent(t *testing.T) {
	// An empty havingSkills set is treated as "no data available" and
	// progresses unconditionally; it is NOT a 0% held case.
	f := newFakeStore()
	f.addJob(model.Job{ID: 1, Type: model.JobTypeTechnical, RequiredSkills: []string{"X", "Y"}})
	app := f.addApplication(model.Application{JobID: 1, ApplicantID: 10, Status: status.Applied, HavingSkills: []string{}})

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, status.Reviewed, f.apps[app.ID].Status)

	logs := f.logsFor(app.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "No skills data available. Automatically progressed to Reviewed.", logs[0].Comment)
}

func TestRunEmptyRequiredSkillsIsNoData(t *testing.T) {
	f := newFakeStore()
	f.addJob(model.Job{ID: 1, Type: model.JobTypeTechnical, RequiredSkills: []string{}})
	app := f.addApplication(model.Application{JobID: 1, ApplicantID: 10, Status: status.Applied, HavingSkills: []string{"Go"}})

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, status.Reviewed, f.apps[app.ID].Status)
	require.Len(t, f.logsFor(app.ID), 1)
	assert.Contains(t, f.logsFor(app.ID)[0].Comment, "No skills data available")
}

func TestRunLinearChain(t *testing.T) {
	f := newFakeStore()
	f.addJob(model.Job{ID: 1, Type: model.JobTypeTechnical, RequiredSkills: []string{"X"}})
	reviewed := f.addApplication(model.Application{JobID: 1, ApplicantID: 10, Status: status.Reviewed})
	interview := f.addApplication(model.Application{JobID: 1, ApplicantID: 11, Status: status.Interview})

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProcessedCount)
	assert.Equal(t, status.Interview, f.apps[reviewed.ID].Status)
	assert.Equal(t, status.Offer, f.apps[interview.ID].Status)

	require.Len(t, f.logsFor(reviewed.ID), 1)
	assert.Equal(t, "Automatically progressed from Reviewed to Interview", f.logsFor(reviewed.ID)[0].Comment)
	require.Len(t, f.logsFor(interview.ID), 1)
	assert.Equal(t, "Automatically progressed from Interview to Offer", f.logsFor(interview.ID)[0].Comment)
}

func TestRunSkipsTerminalAndUnknownStatuses(t *testing.T) {
	f := newFakeStore()
	f.addJob(model.Job{ID: 1, Type: model.JobTypeTechnical, RequiredSkills: []string{"X"}})
	offer := f.addApplication(model.Application{JobID: 1, ApplicantID: 10, Status: status.Offer})
	rejected := f.addApplication(model.Application{JobID: 1, ApplicantID: 11, Status: status.Rejected})
	unknown := f.addApplication(model.Application{JobID: 1, ApplicantID: 12, Status: "Ghosted"})

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	assert.Zero(t, result.ProcessedCount)
	assert.Empty(t, result.Errors)
	assert.Equal(t, status.Offer, f.apps[offer.ID].Status)
	assert.Equal(t, status.Rejected, f.apps[rejected.ID].Status)
	assert.Equal(t, "Ghosted", f.apps[unknown.ID].Status)
	assert.Empty(t, f.logs, "skipped applications must not produce audit entries")
}

func TestRunSkipsNonTechnicalJobs(t *testing.T) {
	f := newFakeStore()
	f.addJob(model.Job{ID: 2, Type: model.JobTypeNonTechnical})
	app := f.addApplication(model.Application{JobID: 2, ApplicantID: 10, Status: status.Applied})

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	assert.Zero(t, result.ProcessedCount)
	assert.Empty(t, result.Errors)
	assert.Equal(t, status.Applied, f.apps[app.ID].Status)
	assert.Empty(t, f.logs)
}

func TestRunIsolatesItemFailures(t *testing.T) {
	// A persistence failure on one application is recorded and does not
	// stop later items from being processed.
	f := newFakeStore()
	f.addJob(model.Job{ID: 1, Type: model.JobTypeTechnical, RequiredSkills: []string{"X"}})
	broken := f.addApplication(model.Application{JobID: 1, ApplicantID: 10, Status: status.Reviewed})
	healthy := f.addApplication(model.Application{JobID: 1, ApplicantID: 11, Status: status.Reviewed})
	f.failTransition[broken.ID] = errStorageDown

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, broken.ID, result.Errors[0].ApplicationID)
	assert.Equal(t, errStorageDown.Error(), result.Errors[0].Error)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, status.Interview, f.apps[healthy.ID].Status)
	assert.Equal(t, status.Reviewed, f.apps[broken.ID].Status)
}

func TestRunRecordsMissingJobAsItemError(t *testing.T) {
	f := newFakeStore()
	orphan := f.addApplication(model.Application{JobID: 99, ApplicantID: 10, Status: status.Applied})

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, orphan.ID, result.Errors[0].ApplicationID)
}

func TestRunPreservesIterationOrder(t *testing.T) {
	f := newFakeStore()
	f.addJob(model.Job{ID: 1, Type: model.JobTypeTechnical, RequiredSkills: []string{"X"}})
	first := f.addApplication(model.Application{JobID: 1, ApplicantID: 10, Status: status.Reviewed})
	second := f.addApplication(model.Application{JobID: 1, ApplicantID: 11, Status: status.Interview})
	third := f.addApplication(model.Application{JobID: 1, ApplicantID: 12, Status: status.Reviewed})

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	require.Len(t, result.Processed, 3)
	assert.Equal(t, []uint64{first.ID, second.ID, third.ID},
		[]uint64{result.Processed[0].ID, result.Processed[1].ID, result.Processed[2].ID})
}

func TestRunEndToEndFiftyPercentScenario(t *testing.T) {
	// Technical job requiring ["React", "Node.js"]; applicant declares
	// ["React"].  50% meets the threshold, the application moves to
	// Reviewed and the comment records both the percentage and counts.
	f := newFakeStore()
	f.addJob(model.Job{ID: 1, Title: "Frontend Engineer", Company: "Acme", Type: model.JobTypeTechnical, RequiredSkills: []string{"React", "Node.js"}})
	machine := NewStateMachine(f)
	app, err := machine.Submit(context.Background(), Actor{ID: 10, Role: model.RoleApplicant}, Submission{
		JobID:        1,
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		HavingSkills: []string{"React"},
	})
	require.NoError(t, err)

	result, err := NewAutomation(f).Run(context.Background(), botActor)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, status.Reviewed, f.apps[app.ID].Status)

	logs := f.logsFor(app.ID)
	require.Len(t, logs, 2, "submission log plus automation log")
	var automated *model.ActivityLog
	for i := range logs {
		if logs[i].IsAutomated {
			automated = &logs[i]
		}
	}
	require.NotNil(t, automated)
	assert.Contains(t, automated.Comment, "50%")
	assert.Contains(t, automated.Comment, "1/2")
	assert.Contains(t, automated.Comment, "Automatically progressed to Reviewed")
}
