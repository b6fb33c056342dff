// Package jwt signs and verifies compact HS256 tokens.
//
// Service accepts any JSON-serializable claims. SessionClaims is the payload
// used for login tokens and carries the session id and expiry:
//
//	svc, err := jwt.NewFromString(os.Getenv("AUTH_TOKEN_SECRET"))
//	token, err := svc.SignSession(sessionID, time.Now().Add(24*time.Hour))
//	claims, err := svc.ParseSession(token)
//
// Signatures are compared in constant time and the header algorithm must be
// HS256. Keys shorter than MinKeyLength are rejected.
package jwt
