// Package service implements the business logic layer for the missions API.
//
// Services reconcile three vocabularies: the public identifiers clients use,
// the stored catalog rows, and the internal identifiers the recommendation
// model scores. Handlers only ever see public forms.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//
// # Repository Interfaces
//
// Services define their own repository interfaces (repositories.go), so the
// SurrealDB and SQLite stores and the in-memory test doubles are
// interchangeable.
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables
// in errors.go:
//
//	var (
//	    ErrMissionNotFound      = errors.New("mission not found")
//	    ErrAlreadyParticipating = errors.New("already participating in this mission")
//	)
//
// # Example Usage
//
//	svc := NewMissionService(MissionServiceConfig{
//	    MissionRepo:       store.Missions,
//	    LikeRepo:          store.Likes,
//	    ParticipationRepo: store.Participations,
//	    Translator:        translate.MustDefault(),
//	})
//	page, err := svc.ListMissions(ctx, viewerID, ListMissionsRequest{Category: "exercise"})
package service
