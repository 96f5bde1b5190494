// Package helpers provides HTTP test utilities for the missions API.
//
// # JWT Helpers
//
//	jwtHelper := helpers.NewJWTHelper(t)
//	token := jwtHelper.GenerateToken(user)
//	validator := jwtHelper.Service() // for middleware.Auth
//
// # Request Builder
//
//	req := helpers.NewRequest(t, http.MethodPost, "/v1/missions/mission-1/complete").
//	    WithBody(map[string]any{"success": true}).
//	    WithAuth(jwtHelper, user).
//	    Build()
//
// # Assertions
//
//	helpers.AssertStatus(t, rr, http.StatusOK)
//	helpers.AssertProblemDetails(t, rr, http.StatusNotFound, model.ErrCodeNotFound)
//	helpers.AssertValidationError(t, rr, "success")
package helpers
