package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/wirekit/pkg/account"
	"github.com/dmitrymomot/wirekit/pkg/session"
)

// Collection names.
const (
	AccountsCollection = "accounts"
	SessionsCollection = "sessions"
)

type accountDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Roles        []string  `bson:"roles"`
	CreatedAt    time.Time `bson:"created_at"`
}

type sessionDoc struct {
	ID        string    `bson:"_id"`
	AccountID string    `bson:"account_id"`
	StartedAt time.Time `bson:"started_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// AccountMapping stores accounts keyed by their uuid string.
var AccountMapping = Mapping[account.Account, accountDoc]{
	ToDoc: func(a account.Account) accountDoc {
		return accountDoc{
			ID:           a.ID.String(),
			Email:        a.Email,
			PasswordHash: a.PasswordHash,
			Roles:        a.Roles,
			CreatedAt:    a.CreatedAt,
		}
	},
	FromDoc: func(d accountDoc) account.Account {
		return account.Account{
			ID:           uuid.MustParse(d.ID),
			Email:        d.Email,
			PasswordHash: d.PasswordHash,
			Roles:        d.Roles,
			CreatedAt:    d.CreatedAt.UTC(),
		}
	},
	ID:     func(a account.Account) string { return a.ID.String() },
	Fields: map[string]string{"id": "_id", "email": "email"},
}

// SessionMapping stores sessions keyed by their uuid string.
var SessionMapping = Mapping[session.Session, sessionDoc]{
	ToDoc: func(s session.Session) sessionDoc {
		return sessionDoc{
			ID:        s.ID.String(),
			AccountID: s.AccountID.String(),
			StartedAt: s.StartedAt,
			ExpiresAt: s.ExpiresAt,
		}
	},
	FromDoc: func(d sessionDoc) session.Session {
		return session.Session{
			ID:        uuid.MustParse(d.ID),
			AccountID: uuid.MustParse(d.AccountID),
			StartedAt: d.StartedAt.UTC(),
			ExpiresAt: d.ExpiresAt.UTC(),
		}
	},
	ID:     func(s session.Session) string { return s.ID.String() },
	Fields: map[string]string{"id": "_id", "account_id": "account_id"},
}

// NewAccounts returns the accounts repository, creating the unique email
// index when it is missing.
func NewAccounts(ctx context.Context, db *mongo.Database) (*Repository[account.Account, accountDoc], error) {
	coll := db.Collection(AccountsCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("mongostore: create email index: %w", err)
	}
	return New(coll, AccountMapping), nil
}

// NewSessions returns the sessions repository with an account_id index.
func NewSessions(ctx context.Context, db *mongo.Database) (*Repository[session.Session, sessionDoc], error) {
	coll := db.Collection(SessionsCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "account_id", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("mongostore: create account_id index: %w", err)
	}
	return New(coll, SessionMapping), nil
}
