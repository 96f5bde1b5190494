// Package model defines domain entities and response shapes for the missions API.
//
// # Domain Entities
//
//   - Mission: a catalog row, stored with its internal id and public category
//   - Like: per-user like state for a mission
//   - Participation: a user's attempt at a mission (in_progress, completed, failed)
//   - User: an account with a coin balance and recommendation inputs
//   - Category: a selectable grouping shown to clients
//
// # Response Shapes
//
// Response types use camelCase json tags and only public identifiers:
//
//	type MissionView struct {
//	    ID       string `json:"id"`       // mission-1
//	    Category string `json:"category"` // food
//	}
//
// # Errors
//
// Errors are returned as RFC 9457 Problem Details (see errors.go).
package model
