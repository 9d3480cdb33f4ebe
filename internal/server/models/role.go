package models

// RoleName is a subscription tier held by a user. Tiers are ordered
// CoreUser < PlusUser < ProUser.
type RoleName string

const (
	RoleCoreUser RoleName = "CORE_USER"
	RolePlusUser RoleName = "PLUS_USER"
	RoleProUser  RoleName = "PRO_USER"
)

// HasAny reports whether roles contains at least one of wanted.
func HasAny(roles []RoleName, wanted ...RoleName) bool {
	for _, r := range roles {
		for _, w := range wanted {
			if r == w {
				return true
			}
		}
	}
	return false
}
