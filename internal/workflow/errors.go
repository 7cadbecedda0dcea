// Package workflow implements the application status state machine and
// the Bot Mimic automation engine.  It talks to persistence through the
// Store interface so that the transition rules stay independent of the
// storage engine; the MySQL implementation lives in the repository
// package.
package workflow

import "errors"

// ErrApplicationNotFound is returned when the referenced application
// does not exist.  Handlers translate this into an HTTP 404.
var ErrApplicationNotFound = errors.New("application not found")

// ErrJobNotFound is returned when a job cannot be resolved.  For a
// transition this is a data-integrity fault (an application pointing at
// a deleted job) rather than a normal user error, and is logged as such.
var ErrJobNotFound = errors.New("job not found")

// ErrForbidden is returned when the actor's role does not authorize a
// transition on the application's job type.  Admins may only act on
// Non-Technical applications; the Bot Mimic only on Technical ones.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidStatus is returned when a target status is not one of the
// five canonical values after normalization.
var ErrInvalidStatus = errors.New("invalid status")
