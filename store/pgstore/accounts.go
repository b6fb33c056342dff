package pgstore

import (
	"context"

	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/store"
)

var accountColumns = map[string]column{
	"id":    {name: "id", uuid: true},
	"email": {name: "email"},
}

// Accounts is a store.Repository for account.Account backed by the accounts table.
type Accounts struct {
	db DB
}

// NewAccounts returns an accounts repository over db.
func NewAccounts(db DB) *Accounts {
	return &Accounts{db: db}
}

// Get returns the account matching filter ("id" and/or "email").
func (r *Accounts) Get(ctx context.Context, filter store.Filter) (account.Account, error) {
	cond, args, err := where(filter, accountColumns)
	if err != nil {
		return account.Account{}, err
	}
	var a account.Account
	err = r.db.QueryRow(ctx,
		"SELECT id, email, password_hash, roles, created_at FROM accounts WHERE "+cond+" LIMIT 1",
		args...,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Roles, &a.CreatedAt)
	if err != nil {
		return account.Account{}, classify("pgstore: get account", err)
	}
	return a, nil
}

func (r *Accounts) Create(ctx context.Context, a account.Account) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO accounts (id, email, password_hash, roles, created_at) VALUES ($1, $2, $3, $4, $5)",
		a.ID, a.Email, a.PasswordHash, roles(a.Roles), a.CreatedAt,
	)
	return classify("pgstore: create account", err)
}

func (r *Accounts) Update(ctx context.Context, a account.Account) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE accounts SET email = $2, password_hash = $3, roles = $4 WHERE id = $1",
		a.ID, a.Email, a.PasswordHash, roles(a.Roles),
	)
	if err != nil {
		return classify("pgstore: update account", err)
	}
	return affected("pgstore: update account", tag)
}

func (r *Accounts) Delete(ctx context.Context, a account.Account) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM accounts WHERE id = $1", a.ID)
	if err != nil {
		return classify("pgstore: delete account", err)
	}
	return affected("pgstore: delete account", tag)
}

// roles keeps NOT NULL satisfied for accounts without roles.
func roles(r []string) []string {
	if r == nil {
		return []string{}
	}
	return r
}
