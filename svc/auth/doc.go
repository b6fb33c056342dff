// Package auth resolves the caller of every request and guards routes.
//
// Gateway runs ahead of dispatch. It reads a token from the Authorization
// header ("Bearer <token>") or, failing that, from the first cookie whose name
// starts with the configured prefix ("_id" by default). A token that is
// missing, malformed, expired or signed with another secret leaves the request
// anonymous; so does a session that cannot be found. Only Enforce rejects
// requests, according to the route policy:
//
//	gw.Authenticate(ctx, req)
//	if err := gw.Enforce(ctx, entry.Policy); err != nil {
//		// 401 for anonymous callers, 403 for a missing role
//	}
//
// Service implements registration, login and logout on top of the account and
// session repositories. Passwords are hashed with argon2id and stored in the
// PHC string format.
package auth
