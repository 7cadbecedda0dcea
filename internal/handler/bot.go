package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/job-application-tracker/internal/queue"
	queue_publisher "github.com/iliyamo/job-application-tracker/internal/service"
	"github.com/iliyamo/job-application-tracker/internal/workflow"
)

// BotHandler exposes the automation engine.  The route is gated to the
// Bot Mimic role.
type BotHandler struct {
	Automation *workflow.Automation
	// Publish delivers one status-changed event to the broker.  Injected
	// so tests can capture events without a live connection.
	Publish func(ctx context.Context, ev queue.StatusChangedEvent)
}

func NewBotHandler(a *workflow.Automation) *BotHandler {
	return &BotHandler{
		Automation: a,
		Publish: func(ctx context.Context, ev queue.StatusChangedEvent) {
			_ = queue_publisher.PublishStatusChanged(ctx, ev)
		},
	}
}

// automateResp wraps a run result with the human-readable summary line.
type automateResp struct {
	Message string `json:"message"`
	*workflow.RunResult
}

// Automate runs one automation batch over all applications and reports
// what changed.  Batches can be slow on large datasets, so the timeout
// here is more generous than the per-request default.
func (h *BotHandler) Automate(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	result, err := h.Automation.Run(ctx, workflow.Actor{ID: uid, Role: getRole(c)})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "automation failed"})
	}

	// Best effort: a broker outage must not fail the batch.
	go func(changes []workflow.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, ch := range changes {
			h.Publish(ctx, queue.StatusChangedEvent{
				ApplicationID:  ch.Application.ID,
				JobID:          ch.Application.JobID,
				ApplicantID:    ch.Application.ApplicantID,
				PreviousStatus: ch.Previous,
				NewStatus:      ch.Application.Status,
				Comment:        ch.Comment,
				UpdatedByID:    uid,
				IsAutomated:    true,
				OccurredAt:     ch.Application.UpdatedAt.Format(time.RFC3339),
			})
		}
	}(result.Changes)

	msg := fmt.Sprintf("Processed %d applications", result.ProcessedCount)
	if n := len(result.Errors); n > 0 {
		msg += fmt.Sprintf(", %d errors", n)
	}
	return c.JSON(http.StatusOK, automateResp{Message: msg, RunResult: result})
}
