package handler

import (
	"errors"
	"log/slog"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// Unrecognized errors are logged and reported as 500 without their text.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrUserRequired):
		return model.NewUnauthorizedError("authentication required")

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrMissionNotFound):
		return model.NewNotFoundError("mission")
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")

	// ===== Precondition Errors → 400 =====
	case errors.Is(err, service.ErrAlreadyParticipating),
		errors.Is(err, service.ErrNotParticipating),
		errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrNotInProgress):
		return model.NewPreconditionError(err.Error())

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrCompletionConflict):
		return model.NewConflictError(err.Error())
	}

	slog.Error("unhandled service error", slog.String("error", err.Error()))
	return model.NewInternalError("")
}
