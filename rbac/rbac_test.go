package rbac

import (
	"testing"

	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/models"
)

func identityWith(id uint, roles ...models.RoleBinding) *Identity {
	return &Identity{UserID: id, Roles: roles}
}

func TestHasRoleExactMatch(t *testing.T) {
	diner := identityWith(1, models.RoleBinding{Role: models.RoleDiner})

	if !HasRole(diner, models.RoleDiner) {
		t.Fatal("diner should hold diner")
	}
	if HasRole(diner, models.RoleAdmin) {
		t.Fatal("diner should not hold admin")
	}
	if HasRole(nil, models.RoleDiner) {
		t.Fatal("nil identity holds nothing")
	}
}

func TestHasRoleObjectScoping(t *testing.T) {
	franchisee := identityWith(2, models.RoleBinding{Role: models.RoleFranchisee, Object: "F1"})

	if !HasRole(franchisee, models.RoleFranchisee, "F1") {
		t.Fatal("scoped binding should match its object")
	}
	if HasRole(franchisee, models.RoleFranchisee, "F2") {
		t.Fatal("scoped binding must not match another object")
	}
	if !HasRole(franchisee, models.RoleFranchisee) {
		t.Fatal("unscoped check matches any binding of the kind")
	}
}

func TestAdminSatisfiesScopedChecks(t *testing.T) {
	admin := identityWith(3, models.RoleBinding{Role: models.RoleAdmin})

	if !HasRole(admin, models.RoleAdmin) {
		t.Fatal("admin should hold admin")
	}
	if !HasRole(admin, models.RoleFranchisee, "anything") {
		t.Fatal("admin satisfies every object-scoped check")
	}
	// There is no broader hierarchy: admin is not implicitly a diner.
	if HasRole(admin, models.RoleDiner) {
		t.Fatal("admin should not pass an unscoped diner check")
	}
}

func TestAuthorizeDistinguishesAnonymousFromForbidden(t *testing.T) {
	err := Authorize(nil, ActionCreateFranchise, nil)
	if !apperr.IsKind(err, apperr.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	diner := identityWith(1, models.RoleBinding{Role: models.RoleDiner})
	err = Authorize(diner, ActionCreateFranchise, nil)
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	admin := identityWith(2, models.RoleBinding{Role: models.RoleAdmin})
	if err := Authorize(admin, ActionCreateFranchise, nil); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
}

func TestAuthorizeStoreManagement(t *testing.T) {
	franchise := &models.Franchise{
		ID:     7,
		Name:   "F1",
		Admins: []models.User{{ID: 42, Email: "f@jwt.com"}},
	}
	target := &Target{Franchise: franchise}

	listed := identityWith(42, models.RoleBinding{Role: models.RoleFranchisee, Object: "F1"})
	if err := Authorize(listed, ActionManageStore, target); err != nil {
		t.Fatalf("listed franchise admin should pass: %v", err)
	}

	stranger := identityWith(9, models.RoleBinding{Role: models.RoleDiner})
	if err := Authorize(stranger, ActionManageStore, target); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	admin := identityWith(1, models.RoleBinding{Role: models.RoleAdmin})
	if err := Authorize(admin, ActionManageStore, target); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
	if err := Authorize(admin, ActionManageStore, nil); err != nil {
		t.Fatalf("admin passes even without a loaded target: %v", err)
	}
}

func TestAuthorizeUserUpdate(t *testing.T) {
	self := identityWith(5, models.RoleBinding{Role: models.RoleDiner})
	if err := Authorize(self, ActionUpdateUser, &Target{UserID: 5}); err != nil {
		t.Fatalf("self-update should pass: %v", err)
	}
	if err := Authorize(self, ActionUpdateUser, &Target{UserID: 6}); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden updating another user, got %v", err)
	}
}

func TestAuthorizeOrdersNeedAnyIdentity(t *testing.T) {
	diner := identityWith(1, models.RoleBinding{Role: models.RoleDiner})
	if err := Authorize(diner, ActionPlaceOrder, nil); err != nil {
		t.Fatalf("any identity may order: %v", err)
	}
	if err := Authorize(nil, ActionListOrders, nil); !apperr.IsKind(err, apperr.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
