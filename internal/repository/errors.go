// Package repository implements the persistence gateway over MySQL.  Each
// entity gets its own repository with plain methods for reads and *Tx
// variants for writes that must participate in a caller-owned
// transaction.  Sentinel errors defined here let handlers and the
// workflow layer distinguish failure scenarios without inspecting
// driver-specific error text.
package repository

import "errors"

// ErrEmailExists is returned by UserRepo.Create when the email address is
// already registered.  Handlers translate this into an HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrCounterExhausted is returned when an ID counter could not be
// advanced within the bounded number of attempts.  This indicates
// sustained contention or a broken counters table and is surfaced as a
// server error.
var ErrCounterExhausted = errors.New("counter increment attempts exhausted")
