// Package jwt signs and validates RS256 access tokens for the missions API.
//
// # Token Generation
//
//	svc, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    PublicKeyPath:  "./keys/public.pem",
//	    Issuer:         "missions.forgo.software",
//	    ExpirationMins: 15,
//	})
//	token, err := svc.SignUser("user-1")
//
// # Token Validation
//
//	claims, err := svc.Validate(token)
//	if errors.Is(err, jwt.ErrTokenExpired) { ... }
//	userID := claims.UserID
//
// A service built with only a public key can validate but not sign.
package jwt
