package model

import "time"

// Activity log action labels written by the workflow layer.
const (
	ActionSubmitted    = "Application submitted"
	ActionStatusUpdate = "Status Update"
)

// ActivityLog is an append-only audit record in the `activity_logs`
// table.  One row is written for the initial submission and one per
// status-changing (or automation-decision) event.  Rows are never
// updated or deleted.
//
// Fields:
//  ID             – primary key identifier (assigned from the activitylogs counter).
//  ApplicationID  – application this entry belongs to.
//  Action         – what happened (see action constants).
//  PreviousStatus – status before the event; nil for the initial submission.
//  NewStatus      – status after the event.
//  Comment        – optional free-form note; the automation records its
//                   deliberation here, including no-op decisions.
//  UpdatedByID    – acting user.
//  IsAutomated    – true when written by the Bot Mimic automation.
//  CreatedAt      – timestamp of the event.
type ActivityLog struct {
	ID             uint64    `json:"id"`
	ApplicationID  uint64    `json:"applicationId"`
	Action         string    `json:"action"`
	PreviousStatus *string   `json:"previousStatus,omitempty"`
	NewStatus      *string   `json:"newStatus,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	UpdatedByID    uint64    `json:"updatedById"`
	IsAutomated    bool      `json:"isAutomated"`
	CreatedAt      time.Time `json:"createdAt"`
}
