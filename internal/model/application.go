package model

import "time"

// Application represents a row in the `applications` table.  The only
// mutable fields are Status and UpdatedAt, and both change exclusively
// through the workflow state machine so that every change is paired with
// an activity log entry.
//
// Fields:
//  ID          – primary key identifier (assigned from the applications counter).
//  JobID       – posting this application targets.
//  ApplicantID – user who submitted the application.
//  Status      – canonical status (Applied, Reviewed, Interview, Offer, Rejected).
//  Name        – applicant-supplied name (detailed submissions only).
//  Email       – applicant-supplied contact email.
//  Phone       – optional phone number.
//  Location    – optional location.
//  CoverLetter – optional cover letter text.
//  HavingSkills – skill labels the applicant declared; stored as a JSON
//                 array in the having_skills column.
//  ResumeURL   – optional link to an uploaded resume.
//  CreatedAt   – timestamp of submission.
//  UpdatedAt   – refreshed on every status change.
type Application struct {
	ID           uint64    `json:"id"`
	JobID        uint64    `json:"jobId"`
	ApplicantID  uint64    `json:"applicantId"`
	Status       string    `json:"status"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	CoverLetter  string    `json:"coverLetter,omitempty"`
	HavingSkills []string  `json:"havingSkills"`
	ResumeURL    string    `json:"resumeUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
