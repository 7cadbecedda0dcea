package model

import "time"

// Job types.  Technical applications are progressed by the Bot Mimic
// automation, Non-Technical applications are reviewed manually by Admins.
const (
	JobTypeTechnical    = "Technical"
	JobTypeNonTechnical = "Non-Technical"
)

// Job represents a posting as stored in the `jobs` table.  Postings are
// immutable once created; the workflow layer treats them as read-only
// inputs (the required skill set feeds the match evaluator).
//
// Fields:
//  ID             – primary key identifier (assigned from the jobs counter).
//  Title          – position title.
//  Company        – hiring company name.
//  Description    – optional free-form description.
//  Requirements   – optional free-form requirements text.
//  RequiredSkills – skill labels the automation matches against; stored as
//                   a JSON array in the required_skills column.
//  Type           – Technical or Non-Technical.
//  CreatedByID    – user who posted the job.
//  CreatedAt      – timestamp of creation.
type Job struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Description    string    `json:"description,omitempty"`
	Requirements   string    `json:"requirements,omitempty"`
	RequiredSkills []string  `json:"requiredSkills"`
	Type           string    `json:"type"`
	CreatedByID    uint64    `json:"createdById"`
	CreatedAt      time.Time `json:"createdAt"`
}
