package pgstore

import (
	"context"

	"github.com/dmitrymomot/wirekit/pkg/session"
	"github.com/dmitrymomot/wirekit/store"
)

var sessionColumns = map[string]column{
	"id":         {name: "id", uuid: true},
	"account_id": {name: "account_id", uuid: true},
}

// Sessions is a store.Repository for session.Session backed by the sessions table.
type Sessions struct {
	db DB
}

func NewSessions(db DB) *Sessions {
	return &Sessions{db: db}
}

func (r *Sessions) Get(ctx context.Context, filter store.Filter) (session.Session, error) {
	cond, args, err := where(filter, sessionColumns)
	if err != nil {
		return session.Session{}, err
	}
	var s session.Session
	err = r.db.QueryRow(ctx,
		"SELECT id, account_id, started_at, expires_at FROM sessions WHERE "+cond+" LIMIT 1",
		args...,
	).Scan(&s.ID, &s.AccountID, &s.StartedAt, &s.ExpiresAt)
	if err != nil {
		return session.Session{}, classify("pgstore: get session", err)
	}
	return s, nil
}

func (r *Sessions) Create(ctx context.Context, s session.Session) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO sessions (id, account_id, started_at, expires_at) VALUES ($1, $2, $3, $4)",
		s.ID, s.AccountID, s.StartedAt, s.ExpiresAt,
	)
	return classify("pgstore: create session", err)
}

// Update extends or shortens a session; the owner never changes.
func (r *Sessions) Update(ctx context.Context, s session.Session) error {
	tag, err := r.db.Exec(ctx, "UPDATE sessions SET expires_at = $2 WHERE id = $1", s.ID, s.ExpiresAt)
	if err != nil {
		return classify("pgstore: update session", err)
	}
	return affected("pgstore: update session", tag)
}

func (r *Sessions) Delete(ctx context.Context, s session.Session) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM sessions WHERE id = $1", s.ID)
	if err != nil {
		return classify("pgstore: delete session", err)
	}
	return affected("pgstore: delete session", tag)
}
