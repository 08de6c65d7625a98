package domain

// Principal is the authenticated identity behind a request, resolved once at
// the gateway and passed explicitly into every operation.
type Principal struct {
	UserID int64
	Name   string
	Email  string
	Role   Role
}

// LandingView returns the role-based landing target after login.
func (p Principal) LandingView() string {
	switch p.Role {
	case RoleAdmin:
		return "admin"
	case RoleAgent:
		return "agent"
	default:
		return "user"
	}
}
