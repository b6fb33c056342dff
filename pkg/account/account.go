package account

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Well-known roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Account is a registered user.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// New returns an account with a fresh id and the default user role.
func New(email, passwordHash string) Account {
	return Account{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Roles:        []string{RoleUser},
		CreatedAt:    time.Now().UTC(),
	}
}

// NormalizeEmail trims and lower-cases an address so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasRole reports whether the account carries role.
func (a Account) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// Key implements store.Entity.
func (a Account) Key() string {
	return a.ID.String()
}

// Field implements store.Entity for the "id" and "email" fields.
func (a Account) Field(name string) (any, bool) {
	switch name {
	case "id":
		return a.ID.String(), true
	case "email":
		return a.Email, true
	default:
		return nil, false
	}
}

// View is the public representation of an account.
type View struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// View returns the public representation.
func (a Account) View() View {
	roles := a.Roles
	if roles == nil {
		roles = []string{}
	}
	return View{
		ID:        a.ID.String(),
		Email:     a.Email,
		Roles:     roles,
		CreatedAt: a.CreatedAt,
	}
}
