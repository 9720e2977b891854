package database

import (
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/config"
	"github.com/wpendl99/jwt-pizza-service/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{
		SQLitePath:  filepath.Join(t.TempDir(), "test.db"),
		ListPerPage: 10,
	}
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store
}

func addTestUser(t *testing.T, s *Store, name, email, password string, roles ...models.RoleBinding) models.User {
	t.Helper()
	user, err := s.AddUser(models.User{Name: name, Email: email, Roles: roles}, password)
	if err != nil {
		t.Fatalf("AddUser(%s): %v", email, err)
	}
	return user
}

func TestAddUserHashesPassword(t *testing.T) {
	s := newTestStore(t)
	user := addTestUser(t, s, "John Doe", "john@example.com", "password123")

	if user.ID == 0 {
		t.Fatal("expected generated id")
	}
	if user.PasswordHash == "password123" {
		t.Fatal("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestAddUserDefaultsToDiner(t *testing.T) {
	s := newTestStore(t)
	user := addTestUser(t, s, "Jane", "jane@x.com", "p")

	if len(user.Roles) != 1 || user.Roles[0].Role != models.RoleDiner {
		t.Fatalf("expected default diner role, got %+v", user.Roles)
	}
}

func TestAddUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	addTestUser(t, s, "John", "dup@example.com", "a")

	_, err := s.AddUser(models.User{Name: "Johnny", Email: "dup@example.com"}, "b")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAddUserMissingFields(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddUser(models.User{Name: "NoEmail"}, "p")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetUser(t *testing.T) {
	s := newTestStore(t)
	addTestUser(t, s, "Jane Doe", "jane@example.com", "securepassword")

	user, err := s.GetUser("jane@example.com", "securepassword")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.Email != "jane@example.com" {
		t.Fatalf("wrong user: %s", user.Email)
	}
	if len(user.Roles) == 0 {
		t.Fatal("expected roles to be loaded")
	}
}

func TestGetUserWrongPassword(t *testing.T) {
	s := newTestStore(t)
	addTestUser(t, s, "Jared Doe", "jared@example.com", "securepassword")

	if _, err := s.GetUser("jared@example.com", "badpassword"); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if _, err := s.GetUser("ghost@example.com", "whatever"); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("expected auth error for unknown email, got %v", err)
	}
}

func TestUpdateUserNothingToUpdate(t *testing.T) {
	s := newTestStore(t)
	user := addTestUser(t, s, "Julia Doe", "julia@example.com", "securepassword")

	if _, err := s.UpdateUser(user.ID, "", ""); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// The contract does not depend on whether the user exists.
	if _, err := s.UpdateUser(99999, "", ""); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing user too, got %v", err)
	}
}

func TestUpdateUserChangesEmailAndPassword(t *testing.T) {
	s := newTestStore(t)
	user := addTestUser(t, s, "Jack Doe", "jake@example.com", "securepassword")

	updated, err := s.UpdateUser(user.ID, "jake@email.com", "newpassword")
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.ID != user.ID || updated.Email != "jake@email.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if _, err := s.GetUser("jake@email.com", "newpassword"); err != nil {
		t.Fatalf("login with new credentials failed: %v", err)
	}
}

func TestUpdateUserEmailTaken(t *testing.T) {
	s := newTestStore(t)
	addTestUser(t, s, "A", "taken@example.com", "a")
	user := addTestUser(t, s, "B", "b@example.com", "b")

	if _, err := s.UpdateUser(user.ID, "taken@example.com", ""); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	s.Seed()
	s.Seed()

	var users int64
	s.db.Model(&models.User{}).Count(&users)
	if users != 1 {
		t.Fatalf("expected one seeded admin, got %d", users)
	}

	admin, err := s.GetUser("a@jwt.com", "admin")
	if err != nil {
		t.Fatalf("seeded admin does not authenticate: %v", err)
	}
	if len(admin.Roles) != 1 || admin.Roles[0].Role != models.RoleAdmin {
		t.Fatalf("seeded admin has wrong roles: %+v", admin.Roles)
	}

	menu, err := s.GetMenu()
	if err != nil || len(menu) == 0 {
		t.Fatalf("expected seeded menu, got %v items (err %v)", len(menu), err)
	}
}
