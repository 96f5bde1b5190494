// Package fixtures provides test data factories backed by a catalog store.
//
// Create a factory over a testdb store:
//
//	f := fixtures.New(testdb.New(t).Store)
//	user := f.CreateUser(t)                                 // user-1, 0 coins
//	mission := f.CreateMission(t, fixtures.WithCategory("sports"))
//	f.Like(t, mission, user)
//	f.Participate(t, mission, user)
//
// Missions are stored in internal form (M001) and users in public form
// (user-1), matching what the seeder writes. Identifiers are sequential per
// factory.
package fixtures
