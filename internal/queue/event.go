// Package queue defines message payloads exchanged over the message broker.
package queue

// StatusChangedEvent is published after an application status transition
// commits.  It carries enough context for downstream consumers to log or
// notify without querying the primary database.
type StatusChangedEvent struct {
	ApplicationID  uint64 `json:"application_id"`
	JobID          uint64 `json:"job_id"`
	ApplicantID    uint64 `json:"applicant_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Comment        string `json:"comment,omitempty"`
	UpdatedByID    uint64 `json:"updated_by_id"`
	IsAutomated    bool   `json:"is_automated"`
	OccurredAt     string `json:"occurred_at"`
}
