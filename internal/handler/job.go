package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/repository"
)

// JobHandler serves the job board endpoints.  Creation is Admin-only
// (enforced by route middleware); listing and fetching are open to any
// authenticated user.
type JobHandler struct {
	Jobs *repository.JobRepo
}

func NewJobHandler(jobs *repository.JobRepo) *JobHandler { return &JobHandler{Jobs: jobs} }

type createJobReq struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Description    string   `json:"description"`
	Requirements   string   `json:"requirements"`
	RequiredSkills []string `json:"requiredSkills"`
	Type           string   `json:"type"` // Technical | Non-Technical
}

// Create inserts a new job posting.
func (h *JobHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createJobReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.Type != model.JobTypeTechnical && req.Type != model.JobTypeNonTechnical {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be Technical or Non-Technical"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout*time.Second)
	defer cancel()

	job, err := h.Jobs.Create(ctx, model.Job{
		Title:          req.Title,
		Company:        strings.TrimSpace(req.Company),
		Description:    req.Description,
		Requirements:   req.Requirements,
		RequiredSkills: req.RequiredSkills,
		Type:           req.Type,
		CreatedByID:    uid,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create job failed"})
	}
	return c.JSON(http.StatusCreated, job)
}

// List returns all job postings, newest first.
func (h *JobHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout*time.Second)
	defer cancel()

	jobs, err := h.Jobs.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list jobs failed"})
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetByID returns a single job posting.
func (h *JobHandler) GetByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout*time.Second)
	defer cancel()

	job, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
	}
	return c.JSON(http.StatusOK, job)
}
