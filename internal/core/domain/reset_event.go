package domain

import "time"

// ResetEventKind labels an entry in the password reset audit trail.
type ResetEventKind string

const (
	ResetIssued    ResetEventKind = "issued"
	ResetCompleted ResetEventKind = "completed"
)

// ResetEvent records one step of a recovery for later review. It never holds
// token material.
type ResetEvent struct {
	UserID    string
	Kind      ResetEventKind
	Timestamp time.Time
	ExpiresAt *time.Time // set for ResetIssued
}
