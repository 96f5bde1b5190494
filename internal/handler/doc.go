// Package handler provides HTTP request handlers for the missions API.
//
// Each handler struct depends on a small interface (MissionCatalog, Recommender,
// Completer, Accounts, CategoryLister, Pinger) satisfied by the service layer,
// so handlers can be tested with func-field fakes.
//
// # Handler Pattern
//
//   - Constructor function (NewXxxHandler) accepts its dependencies
//   - Methods handle specific HTTP endpoints
//   - Request bodies are decoded with DecodeJSON and checked with the validation package
//   - Errors are mapped to RFC 9457 Problem Details responses by MapServiceError
//
// # Authentication
//
// Listing, detail and recommendation accept anonymous callers (OptionalAuth).
// Like, participate, complete and the /users/me routes need a caller id,
// read with middleware.GetUserID.
//
// # Example Usage
//
//	missions := NewMissionHandler(missionService, recommendationService, completionService)
//	router.Get("/v1/missions", missions.ListMissions)
//	router.Post("/v1/missions/{missionId}/like", missions.ToggleLike)
package handler
