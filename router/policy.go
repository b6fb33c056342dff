package router

// PolicyKind enumerates the access requirements a route may carry.
type PolicyKind uint8

const (
	KindPublic PolicyKind = iota
	KindProtected
	KindRole
)

// Policy is the access requirement attached to a route.
type Policy struct {
	Kind PolicyKind
	Role string
}

// Public routes are reachable by anonymous requests.
func Public() Policy { return Policy{Kind: KindPublic} }

// Protected routes need a session.
func Protected() Policy { return Policy{Kind: KindProtected} }

// RequireRole routes need a session whose account carries role.
func RequireRole(role string) Policy { return Policy{Kind: KindRole, Role: role} }

// NeedsSession reports whether the policy rejects anonymous requests.
func (p Policy) NeedsSession() bool {
	return p.Kind != KindPublic
}

func (p Policy) String() string {
	switch p.Kind {
	case KindPublic:
		return "public"
	case KindProtected:
		return "protected"
	case KindRole:
		return "role:" + p.Role
	default:
		return "unknown"
	}
}
