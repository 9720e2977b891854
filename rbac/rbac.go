// Package rbac decides whether a resolved identity may perform a guarded
// action. Policies are a data table, not code scattered through handlers.
package rbac

import (
	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/models"
)

// Identity is a verified caller, resolved from a live session token.
// Anonymous callers have no Identity at all (nil).
type Identity struct {
	UserID uint
	Name   string
	Email  string
	Roles  []models.RoleBinding
}

// HasRole reports whether the identity holds the given role, optionally
// scoped to an object. Matching is exact, with one exception: admin
// satisfies every object-scoped check regardless of the object.
func HasRole(id *Identity, role models.RoleKind, object ...string) bool {
	if id == nil {
		return false
	}
	scoped := len(object) > 0 && object[0] != ""
	for _, b := range id.Roles {
		if b.Role == models.RoleAdmin && (role == models.RoleAdmin || scoped) {
			return true
		}
		if b.Role != role {
			continue
		}
		if !scoped || b.Object == object[0] {
			return true
		}
	}
	return false
}

// Action names a guarded operation.
type Action string

const (
	ActionCreateFranchise Action = "franchise:create"
	ActionDeleteFranchise Action = "franchise:delete"
	ActionManageStore     Action = "store:manage"
	ActionMutateMenu      Action = "menu:mutate"
	ActionUpdateUser      Action = "user:update"
	ActionPlaceOrder      Action = "order:place"
	ActionListOrders      Action = "order:list"
)

// Target carries the object an action is aimed at. Fields are filled per
// action: UserID for user:update, Franchise for store:manage.
type Target struct {
	UserID    uint
	Franchise *models.Franchise
}

type rule func(id *Identity, target *Target) bool

func adminOnly(id *Identity, _ *Target) bool {
	return HasRole(id, models.RoleAdmin)
}

func anyIdentity(id *Identity, _ *Target) bool {
	return id != nil
}

// policy is the authoritative rule table.
var policy = map[Action]rule{
	ActionCreateFranchise: adminOnly,
	ActionDeleteFranchise: adminOnly,
	ActionMutateMenu:      adminOnly,
	ActionManageStore: func(id *Identity, t *Target) bool {
		if HasRole(id, models.RoleAdmin) {
			return true
		}
		if t == nil || t.Franchise == nil {
			return false
		}
		for _, admin := range t.Franchise.Admins {
			if admin.ID == id.UserID {
				return true
			}
		}
		return false
	},
	ActionUpdateUser: func(id *Identity, t *Target) bool {
		return HasRole(id, models.RoleAdmin) || (t != nil && t.UserID == id.UserID)
	},
	ActionPlaceOrder: anyIdentity,
	ActionListOrders: anyIdentity,
}

var actionNames = map[Action]string{
	ActionCreateFranchise: "create a franchise",
	ActionDeleteFranchise: "delete a franchise",
	ActionManageStore:     "create a store",
	ActionMutateMenu:      "add menu item",
	ActionUpdateUser:      "update user",
	ActionPlaceOrder:      "create a order",
	ActionListOrders:      "list orders",
}

// Authorize returns nil when the identity may perform the action.
// Anonymous callers get an unauthenticated error; known callers that fail
// the rule get a forbidden one. The two are distinct caller-facing codes.
func Authorize(id *Identity, action Action, target *Target) error {
	if id == nil {
		return apperr.Unauthenticated("unauthorized")
	}
	r, ok := policy[action]
	if !ok || !r(id, target) {
		return apperr.Forbidden("unable to " + actionNames[action])
	}
	return nil
}
