// Package session holds the login session model and helpers to carry it
// through a context.
//
// Sessions are created at login, looked up by id for every request that
// presents a valid token and deleted at logout. Expiry is recorded but only
// enforced when a caller checks IsExpired.
//
//	s := session.New(accountID, 24*time.Hour)
//	ctx = session.WithSession(ctx, s)
//	current, ok := session.FromContext(ctx)
//
// Persistence goes through store.Repository[session.Session]; see the
// store, store/pgstore and store/redisstore packages.
package session
