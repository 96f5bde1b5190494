package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here so handlers can
// map them with errors.Is.

// ===== Not Found Errors =====
var (
	ErrMissionNotFound = errors.New("mission not found")
	ErrUserNotFound    = errors.New("user not found")
)

// ===== Precondition Errors =====
var (
	ErrAlreadyParticipating = errors.New("already participating in this mission")
	ErrNotParticipating     = errors.New("no participation to complete")
	ErrAlreadyCompleted     = errors.New("mission already completed")
	ErrNotInProgress        = errors.New("participation is not in progress")
)

// ===== Conflict Errors =====
var (
	ErrCompletionConflict = errors.New("completion conflicted with a concurrent update")
)

// ===== Input Errors =====
var (
	ErrUserRequired = errors.New("user id is required")
)
