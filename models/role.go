package models

// Role adalah peran pemanggil yang dibawa di token JWT
type Role string

const (
	RoleSuperAdmin      Role = "SuperAdmin"
	RoleRestaurantAdmin Role = "Restaurant_Admin"
	RoleStaff           Role = "Staff"
	RoleCustomer        Role = "Customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleRestaurantAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}
