package domain

// Role is the privilege tier of a user account
type Role string

// Role values, ordered from least to most privileged
const (
	RoleUser       Role = "user"        // Regular platform user
	RoleAdmin      Role = "admin"       // Platform administrator
	RoleSuperAdmin Role = "super_admin" // Super administrator, manages other admins
)

// roleRank orders the tiers so that a higher tier includes every lower one
var roleRank = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Valid reports whether r is one of the three known roles
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries at least the privileges of min.
// Unknown roles always rank below every valid role.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min] && roleRank[r] > 0
}
