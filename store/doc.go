// Package store defines the data-access contract used by handlers and an
// in-memory implementation.
//
// Repository exposes four fallible operations: Get by Filter, Create, Update
// and Delete. Missing records yield ErrNotFound and duplicate keys or unique
// fields yield ErrConflict, so callers can classify failures with errors.Is
// whatever the backend. Backends for PostgreSQL, Redis and MongoDB live in
// the pgstore, redisstore and mongostore subpackages.
package store
