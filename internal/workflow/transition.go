package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/status"
)

// Actor is the authenticated identity performing an operation.  The
// identity and role gate lives outside this package; by the time a
// transition runs, the actor is trusted to be who it says it is.
type Actor struct {
	ID   uint64
	Role string
}

// Store is the persistence contract the workflow layer depends on.
// Implementations must make CreateApplication and ApplyTransition atomic
// from the caller's perspective: the record write and its activity log
// entry both happen or neither does.  Implementations assign record IDs
// and fill in the log entry's ApplicationID.
type Store interface {
	// GetApplication returns ErrApplicationNotFound when the id is unknown.
	GetApplication(ctx context.Context, id uint64) (model.Application, error)
	// GetJob returns ErrJobNotFound when the id is unknown.
	GetJob(ctx context.Context, id uint64) (model.Job, error)
	// ListApplications returns a snapshot of all applications in id order.
	ListApplications(ctx context.Context) ([]model.Application, error)
	// CreateApplication persists a new application together with its
	// initial activity log entry.
	CreateApplication(ctx context.Context, app model.Application, entry model.ActivityLog) (model.Application, error)
	// ApplyTransition persists the status change and appends the log
	// entry in one atomic step.  It returns the updated application and
	// the previous status it observed under the row lock, which is the
	// value the log entry records.
	ApplyTransition(ctx context.Context, applicationID uint64, newStatus string, updatedAt time.Time, entry model.ActivityLog) (model.Application, string, error)
}

// StateMachine enforces the status transition rules: canonical target
// statuses only, role-scoped authority by job type, and a paired
// activity log entry for every invocation - including no-op invocations
// carrying an automation comment, so that every deliberation is
// auditable.
type StateMachine struct {
	Store Store
}

func NewStateMachine(store Store) *StateMachine { return &StateMachine{Store: store} }

// checkAuthority validates the actor role against the job type.  The
// applicant role has no transition authority at all.
func checkAuthority(role, jobType string) error {
	switch role {
	case model.RoleAdmin:
		if jobType != model.JobTypeNonTechnical {
			return fmt.Errorf("%w: Admin can only update Non-Technical applications", ErrForbidden)
		}
	case model.RoleBotMimic:
		if jobType != model.JobTypeTechnical {
			return fmt.Errorf("%w: Bot Mimic can only update Technical applications", ErrForbidden)
		}
	default:
		return ErrForbidden
	}
	return nil
}

// Transition moves an application to target on behalf of actor.  The
// previous status is captured, the new status and updated_at are
// persisted, and an activity log row is appended - all atomically via
// the store.  A transition to the current status still writes its log
// entry; the automation engine relies on this to record "held" decisions.
// The returned string is the previous status the store observed under
// its row lock, i.e. the value the log entry records.
func (m *StateMachine) Transition(ctx context.Context, actor Actor, applicationID uint64, target, comment string, isAutomated bool) (model.Application, string, error) {
	target = status.Normalize(target)
	if !status.IsCanonical(target) {
		return model.Application{}, "", fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	app, err := m.Store.GetApplication(ctx, applicationID)
	if err != nil {
		return model.Application{}, "", err
	}
	job, err := m.Store.GetJob(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			log.Printf("workflow: application %d references missing job %d (data integrity fault)", app.ID, app.JobID)
		}
		return model.Application{}, "", err
	}
	if err := checkAuthority(actor.Role, job.Type); err != nil {
		return model.Application{}, "", err
	}

	previous := status.Normalize(app.Status)
	now := time.Now().UTC()
	entry := model.ActivityLog{
		Action:         model.ActionStatusUpdate,
		PreviousStatus: &previous,
		NewStatus:      &target,
		Comment:        comment,
		UpdatedByID:    actor.ID,
		IsAutomated:    isAutomated,
		CreatedAt:      now,
	}
	return m.Store.ApplyTransition(ctx, app.ID, target, now, entry)
}

// Submission carries the applicant-supplied fields for a new
// application.  The plain POST /api/applications endpoint sends only the
// JobID; the detailed endpoint fills in the rest.
type Submission struct {
	JobID        uint64
	Name         string
	Email        string
	Phone        string
	Location     string
	CoverLetter  string
	HavingSkills []string
	ResumeURL    string
}

// Submit creates an application in the Applied state together with its
// "Application submitted" activity log entry.  This is the special-cased
// first transition: there is no previous status and it is never
// automated.
func (m *StateMachine) Submit(ctx context.Context, applicant Actor, sub Submission) (model.Application, error) {
	if _, err := m.Store.GetJob(ctx, sub.JobID); err != nil {
		return model.Application{}, err
	}

	now := time.Now().UTC()
	app := model.Application{
		JobID:        sub.JobID,
		ApplicantID:  applicant.ID,
		Status:       status.Applied,
		Name:         sub.Name,
		Email:        sub.Email,
		Phone:        sub.Phone,
		Location:     sub.Location,
		CoverLetter:  sub.CoverLetter,
		HavingSkills: sub.HavingSkills,
		ResumeURL:    sub.ResumeURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if app.HavingSkills == nil {
		app.HavingSkills = []string{}
	}

	applied := status.Applied
	entry := model.ActivityLog{
		Action:      model.ActionSubmitted,
		NewStatus:   &applied,
		UpdatedByID: applicant.ID,
		IsAutomated: false,
		CreatedAt:   now,
	}
	return m.Store.CreateApplication(ctx, app, entry)
}
