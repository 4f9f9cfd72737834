package models

// Roles carried by the externally issued auth token.
const (
	RoleExpert = "expert"
	RoleClient = "client"
)

// Principal is the authenticated identity supplied with every request.
// Authentication itself is external; the core only trusts this pair and
// checks role-appropriate ownership.
type Principal struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// IsExpert reports whether the principal acts as an expert.
func (p Principal) IsExpert() bool {
	return p.Role == RoleExpert
}
