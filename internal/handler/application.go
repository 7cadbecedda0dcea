package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/queue"
	"github.com/iliyamo/job-application-tracker/internal/repository"
	queue_publisher "github.com/iliyamo/job-application-tracker/internal/service"
	"github.com/iliyamo/job-application-tracker/internal/workflow"
)

// ApplicationHandler serves the application endpoints: submission,
// listing, the audit trail and manual status transitions.  All status
// changes go through the workflow state machine so they are role-gated
// and logged.
type ApplicationHandler struct {
	Machine *workflow.StateMachine
	Apps    *repository.ApplicationRepo
	Jobs    *repository.JobRepo
	Logs    *repository.ActivityLogRepo
	Users   *repository.UserRepo
}

func NewApplicationHandler(machine *workflow.StateMachine, apps *repository.ApplicationRepo, jobs *repository.JobRepo, logs *repository.ActivityLogRepo, users *repository.UserRepo) *ApplicationHandler {
	return &ApplicationHandler{Machine: machine, Apps: apps, Jobs: jobs, Logs: logs, Users: users}
}

// ----- DTOs -----

type createApplicationReq struct {
	JobID uint64 `json:"jobId"`
}

type createDetailedReq struct {
	JobID        uint64   `json:"jobId"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Location     string   `json:"location"`
	CoverLetter  string   `json:"coverLetter"`
	HavingSkills []string `json:"havingSkills"`
	ResumeURL    string   `json:"resumeUrl"`
}

// updateStatusReq is deliberately strict: status is required and there
// is no fallback value, a request without one is rejected outright.
type updateStatusReq struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// applicationView embeds the related job (and, for staff listings, the
// applicant) alongside the application itself.
type applicationView struct {
	model.Application
	Job       *model.Job `json:"job,omitempty"`
	Applicant *userPart  `json:"applicant,omitempty"`
}

// activityView resolves the acting user for each audit trail row.
type activityView struct {
	model.ActivityLog
	UpdatedBy *userPart `json:"updatedBy,omitempty"`
}

// Create submits a minimal application carrying only the job reference.
func (h *ApplicationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.JobID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "jobId required"})
	}

	return h.submit(c, uid, workflow.Submission{JobID: req.JobID})
}

// CreateDetailed submits an application with the full applicant profile,
// including the declared skills the automation matches against.
func (h *ApplicationHandler) CreateDetailed(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createDetailedReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.JobID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "jobId required"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email required"})
	}

	return h.submit(c, uid, workflow.Submission{
		JobID:        req.JobID,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Phone:        req.Phone,
		Location:     req.Location,
		CoverLetter:  req.CoverLetter,
		HavingSkills: req.HavingSkills,
		ResumeURL:    req.ResumeURL,
	})
}

func (h *ApplicationHandler) submit(c echo.Context, uid uint64, sub workflow.Submission) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout*time.Second)
	defer cancel()

	app, err := h.Machine.Submit(ctx, workflow.Actor{ID: uid, Role: getRole(c)}, sub)
	if err != nil {
		if errors.Is(err, workflow.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create application failed"})
	}
	return c.JSON(http.StatusCreated, app)
}

// ListMy returns the current user's applications, newest first, each
// with its job embedded.
func (h *ApplicationHandler) ListMy(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout*time.Second)
	defer cancel()

	apps, err := h.Apps.ListByApplicant(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list applications failed"})
	}
	views, err := h.buildViews(ctx, apps, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list applications failed"})
	}
	return c.JSON(http.StatusOK, views)
}

// ListAll returns every application with job and applicant embedded.
// The route is gated to Admin and Bot Mimic.
func (h *ApplicationHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout*time.Second)
	defer cancel()

	apps, err := h.Apps.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list applications failed"})
	}
	views, err := h.buildViews(ctx, apps, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list applications failed"})
	}
	return c.JSON(http.StatusOK, views)
}

// buildViews embeds related records, resolving each distinct job and
// user once per request.
func (h *ApplicationHandler) buildViews(ctx context.Context, apps []model.Application, withApplicant bool) ([]applicationView, error) {
	jobCache := map[uint64]*model.Job{}
	userCache := map[uint64]*userPart{}

	views := make([]applicationView, 0, len(apps))
	for _, app := range apps {
		view := applicationView{Application: app}

		job, ok := jobCache[app.JobID]
		if !ok {
			if j, err := h.Jobs.GetByID(ctx, app.JobID); err == nil {
				job = &j
			} else if err != sql.ErrNoRows {
				return nil, err
			}
			jobCache[app.JobID] = job // nil for a missing job, cached too
		}
		view.Job = job

		if withApplicant {
			applicant, ok := userCache[app.ApplicantID]
			if !ok {
				if u, err := h.Users.GetByID(ctx, app.ApplicantID); err == nil {
					p := toUserPart(u)
					applicant = &p
				} else if err != sql.ErrNoRows {
					return nil, err
				}
				userCache[app.ApplicantID] = applicant
			}
			view.Applicant = applicant
		}
		views = append(views, view)
	}
	return views, nil
}

// GetByID returns one application.  Applicants can only read their own;
// Admin and Bot Mimic can read any.
func (h *ApplicationHandler) GetByID(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout*time.Second)
	defer cancel()

	app, err := h.Apps.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load application failed"})
	}
	if role := getRole(c); role == model.RoleApplicant && app.ApplicantID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	views, err := h.buildViews(ctx, []model.Application{app}, getRole(c) != model.RoleApplicant)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load application failed"})
	}
	return c.JSON(http.StatusOK, views[0])
}

// Activities returns the audit trail for one application, newest first,
// with the acting user resolved on each entry.  Access follows the same
// scoping as GetByID.
func (h *ApplicationHandler) Activities(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout*time.Second)
	defer cancel()

	app, err := h.Apps.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load application failed"})
	}
	if role := getRole(c); role == model.RoleApplicant && app.ApplicantID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	entries, err := h.Logs.ListByApplication(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list activities failed"})
	}

	userCache := map[uint64]*userPart{}
	views := make([]activityView, 0, len(entries))
	for _, entry := range entries {
		view := activityView{ActivityLog: entry}
		by, ok := userCache[entry.UpdatedByID]
		if !ok {
			if u, err := h.Users.GetByID(ctx, entry.UpdatedByID); err == nil {
				p := toUserPart(u)
				by = &p
			} else if err != sql.ErrNoRows {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list activities failed"})
			}
			userCache[entry.UpdatedByID] = by
		}
		view.UpdatedBy = by
		views = append(views, view)
	}
	return c.JSON(http.StatusOK, views)
}

// UpdateStatus performs a manual status transition.  The route is gated
// to Admin and Bot Mimic; the state machine additionally scopes the
// actor's authority by job type.  A transition made by the Bot Mimic is
// recorded as automated.
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	role := getRole(c)
	actor := workflow.Actor{ID: uid, Role: role}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout*time.Second)
	defer cancel()

	app, previous, err := h.Machine.Transition(ctx, actor, id, req.Status, req.Comment, role == model.RoleBotMimic)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrApplicationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		case errors.Is(err, workflow.ErrJobNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		case errors.Is(err, workflow.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
		case errors.Is(err, workflow.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
		}
	}

	// Best effort: a broker outage must not fail the transition.
	go func(ev queue.StatusChangedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishStatusChanged(ctx, ev)
	}(queue.StatusChangedEvent{
		ApplicationID:  app.ID,
		JobID:          app.JobID,
		ApplicantID:    app.ApplicantID,
		PreviousStatus: previous,
		NewStatus:      app.Status,
		Comment:        req.Comment,
		UpdatedByID:    uid,
		IsAutomated:    role == model.RoleBotMimic,
		OccurredAt:     app.UpdatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, app)
}
