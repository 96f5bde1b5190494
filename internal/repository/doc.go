// Package repository implements the SurrealDB data access layer for the
// missions API.
//
// Each repository struct satisfies one of the repository interfaces declared
// in the service package and handles a single table:
//
//   - MissionRepository: mission (catalog rows keyed by internal code)
//   - LikeRepository: mission_like (per-user like state)
//   - ParticipationRepository: mission_participation
//   - UserRepository: app_user (keyed by public uid)
//   - CategoryRepository: category
//
// CompletionStore implements service.UnitOfWork. Reads inside a completion go
// straight to the database; writes are buffered and committed as a single
// transaction guarded against concurrent changes.
//
// # Query Patterns
//
//   - Parameterized queries with $variable syntax
//   - LET $existing / IF array::len($existing) = 0 upserts for seeding
//   - <datetime> casts on RFC3339 strings
//   - time::now() for automatic timestamps
//
// Lookups that find nothing return (nil, nil); callers decide whether that
// is an error.
package repository
