package services

import (
	"github.com/yeremiapane/restaurant-order-api/models"
)

// Actor adalah identitas pemanggil yang sudah terautentikasi
type Actor struct {
	UserID       string
	Role         models.Role
	RestaurantID string
	TableID      string
}

type Action string

const (
	ActionCreateOrder        Action = "order:create"
	ActionReadOrder          Action = "order:read"
	ActionListRestaurant     Action = "order:list_restaurant"
	ActionListTable          Action = "order:list_table"
	ActionTransitionOrder    Action = "order:transition"
	ActionCancelOrder        Action = "order:cancel"
	ActionManageCatalog      Action = "catalog:manage"
	ActionUpdateAvailability Action = "catalog:availability"
	ActionManageStaff        Action = "staff:manage"
	ActionWatchKitchen       Action = "kds:watch"
	ActionManageRestaurant   Action = "restaurant:manage"
)

// Target adalah record yang ingin diakses, cukup field scope-nya saja
type Target struct {
	RestaurantID string
	TableID      string
	CustomerID   string
}

type scope int

const (
	scopeAll scope = iota + 1
	// restaurant actor harus sama dengan restaurant record
	scopeTenant
	// customer actor harus pemilik record
	scopeOwner
	// table actor harus sama dengan table record
	scopeTable
	// seperti scopeTable, tapi actor tanpa table boleh memilih table mana saja
	scopeSessionTable
)

// capabilities -> satu-satunya matriks otorisasi
var capabilities = map[models.Role]map[Action]scope{
	models.RoleSuperAdmin: {
		ActionCreateOrder:        scopeAll,
		ActionReadOrder:          scopeAll,
		ActionListRestaurant:     scopeAll,
		ActionListTable:          scopeAll,
		ActionTransitionOrder:    scopeAll,
		ActionCancelOrder:        scopeAll,
		ActionManageCatalog:      scopeAll,
		ActionUpdateAvailability: scopeAll,
		ActionManageStaff:        scopeAll,
		ActionWatchKitchen:       scopeAll,
		ActionManageRestaurant:   scopeAll,
	},
	models.RoleRestaurantAdmin: {
		ActionReadOrder:          scopeTenant,
		ActionListRestaurant:     scopeTenant,
		ActionListTable:          scopeTenant,
		ActionTransitionOrder:    scopeTenant,
		ActionCancelOrder:        scopeTenant,
		ActionManageCatalog:      scopeTenant,
		ActionUpdateAvailability: scopeTenant,
		ActionManageStaff:        scopeTenant,
		ActionWatchKitchen:       scopeTenant,
	},
	models.RoleStaff: {
		ActionReadOrder:          scopeTenant,
		ActionListRestaurant:     scopeTenant,
		ActionListTable:          scopeTenant,
		ActionTransitionOrder:    scopeTenant,
		ActionCancelOrder:        scopeTenant,
		ActionUpdateAvailability: scopeTenant,
		ActionWatchKitchen:       scopeTenant,
	},
	models.RoleCustomer: {
		ActionCreateOrder: scopeSessionTable,
		ActionReadOrder:   scopeOwner,
		ActionListTable:   scopeTable,
		ActionCancelOrder: scopeOwner,
	},
}

// Authorize memeriksa apakah actor boleh melakukan action terhadap target.
// Error yang dikembalikan selalu ErrForbidden.
func Authorize(actor Actor, action Action, target Target) error {
	actions, ok := capabilities[actor.Role]
	if !ok {
		return forbidden("role %q is not allowed to perform %s", actor.Role, action)
	}
	sc, ok := actions[action]
	if !ok {
		return forbidden("role %s is not allowed to perform %s", actor.Role, action)
	}

	switch sc {
	case scopeAll:
		return nil
	case scopeTenant:
		if actor.RestaurantID != "" && actor.RestaurantID == target.RestaurantID {
			return nil
		}
		return forbidden("access to another restaurant's data is not allowed")
	case scopeOwner:
		if actor.UserID != "" && actor.UserID == target.CustomerID {
			return nil
		}
		return forbidden("this order belongs to another customer")
	case scopeTable:
		if actor.TableID != "" && actor.TableID == target.TableID {
			return nil
		}
		return forbidden("access to another table is not allowed")
	case scopeSessionTable:
		if actor.TableID == "" || actor.TableID == target.TableID {
			return nil
		}
		return forbidden("customer session is bound to another table")
	}
	return forbidden("action %s is not allowed", action)
}
