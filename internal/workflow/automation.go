package workflow

import (
	"context"
	"fmt"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/skills"
	"github.com/iliyamo/job-application-tracker/internal/status"
)

// ItemError records a single application's failure during an automation
// run without aborting the batch.
type ItemError struct {
	ApplicationID uint64 `json:"id"`
	Error         string `json:"error"`
}

// Change pairs a processed application with the status it left, and
// with the comment the transition logged.  The batch caller publishes a
// status event per change; held decisions do not appear here.
type Change struct {
	Application model.Application
	Previous    string
	Comment     string
}

// RunResult summarises one automation batch.  Processed holds the
// applications whose status actually changed, in iteration order; held
// decisions are audited via activity logs but not counted as processed.
// Changes carries the same transitions with their previous status for
// event publication and is not part of the response body.
type RunResult struct {
	ProcessedCount int                 `json:"processedCount"`
	Processed      []model.Application `json:"processed"`
	Errors         []ItemError         `json:"errors"`
	Changes        []Change            `json:"-"`
}

// Automation progresses Technical applications through the status chain
// on behalf of the Bot Mimic.  Each run iterates a snapshot of all
// applications taken at batch start; items are processed sequentially
// and independently, so one bad record never aborts the rest.
type Automation struct {
	Store   Store
	Machine *StateMachine
}

func NewAutomation(store Store) *Automation {
	return &Automation{Store: store, Machine: NewStateMachine(store)}
}

// Run executes one automation batch.  The returned error is non-nil only
// when the application snapshot itself cannot be loaded; per-item
// failures are collected in the result.
func (a *Automation) Run(ctx context.Context, actor Actor) (*RunResult, error) {
	apps, err := a.Store.ListApplications(ctx)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Processed: make([]model.Application, 0, len(apps)),
		Errors:    []ItemError{},
	}
	for _, app := range apps {
		change, changed, err := a.processOne(ctx, actor, app)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{ApplicationID: app.ID, Error: err.Error()})
			continue
		}
		if changed {
			result.Processed = append(result.Processed, change.Application)
			result.Changes = append(result.Changes, change)
		}
	}
	result.ProcessedCount = len(result.Processed)
	return result, nil
}

// processOne decides and, when warranted, applies the next step for a
// single application.  The bool result reports whether the status
// actually changed.  Non-Technical applications and applications at
// Offer, Rejected or an unrecognized status are skipped without a log
// entry; the Applied "held" case writes its deliberation through a
// same-status transition.
func (a *Automation) processOne(ctx context.Context, actor Actor, app model.Application) (Change, bool, error) {
	job, err := a.Store.GetJob(ctx, app.JobID)
	if err != nil {
		return Change{}, false, err
	}
	if job.Type != model.JobTypeTechnical {
		return Change{}, false, nil
	}

	current := status.Normalize(app.Status)
	var target, comment string
	switch current {
	case status.Applied:
		if len(job.RequiredSkills) > 0 && len(app.HavingSkills) > 0 {
			m := skills.Evaluate(job.RequiredSkills, app.HavingSkills)
			if m.ReadyForReview() {
				target = status.Reviewed
				comment = fmt.Sprintf(
					"Skills match rate: %d%% (%d/%d skills matched). Automatically progressed to Reviewed.",
					m.Percent(), m.Matched, m.Required)
			} else {
				target = current
				comment = fmt.Sprintf(
					"Skills match rate: %d%% (%d/%d skills matched). Below 50%% threshold, keeping as Applied.",
					m.Percent(), m.Matched, m.Required)
			}
		} else {
			// Either skill set missing entirely: no data to compare,
			// progression proceeds unconditionally.
			target = status.Reviewed
			comment = "No skills data available. Automatically progressed to Reviewed."
		}
	case status.Reviewed:
		target = status.Interview
		comment = fmt.Sprintf("Automatically progressed from %s to %s", current, target)
	case status.Interview:
		target = status.Offer
		comment = fmt.Sprintf("Automatically progressed from %s to %s", current, target)
	default:
		return Change{}, false, nil
	}

	updated, previous, err := a.Machine.Transition(ctx, actor, app.ID, target, comment, true)
	if err != nil {
		return Change{}, false, err
	}
	return Change{Application: updated, Previous: previous, Comment: comment}, target != current, nil
}
