package model

// Role is a flat enum on the user row. There is no privilege table; route
// access is gated on these three values.
const (
	RoleSuperadmin = "Superadmin"
	RoleFinance    = "Finance"
	RoleDealer     = "Dealer"
)

func ValidRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleFinance, RoleDealer:
		return true
	}
	return false
}
