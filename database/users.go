package database

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/models"
)

// AddUser hashes the password and stores the user with their role
// bindings. Users without an explicit role become diners.
func (s *Store) AddUser(user models.User, password string) (models.User, error) {
	if user.Name == "" || user.Email == "" || password == "" {
		return models.User{}, apperr.Validation("name, email, and password are required")
	}

	var existing models.User
	if err := s.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return models.User{}, apperr.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperr.Internal("failed to hash password", err)
	}

	user.ID = 0
	user.PasswordHash = string(hash)
	if len(user.Roles) == 0 {
		user.Roles = []models.RoleBinding{{Role: models.RoleDiner}}
	}
	if err := s.db.Create(&user).Error; err != nil {
		return models.User{}, apperr.Internal("failed to create user", err)
	}
	return user, nil
}

// GetUser returns the user matching email and password, roles included.
// The response never distinguishes an unknown email from a bad password.
func (s *Store) GetUser(email, password string) (models.User, error) {
	var user models.User
	if err := s.db.Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, apperr.Auth("unknown user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperr.Auth("unknown user")
	}
	return user, nil
}

// UpdateUser changes only the supplied fields. Asking for no change at
// all is rejected up front, whether or not the user exists.
func (s *Store) UpdateUser(id uint, email, password string) (models.User, error) {
	if email == "" && password == "" {
		return models.User{}, apperr.Validation("nothing to update")
	}

	var user models.User
	if err := s.db.Preload("Roles").First(&user, id).Error; err != nil {
		return models.User{}, apperr.NotFound("unknown user")
	}

	updates := map[string]interface{}{}
	if email != "" {
		var taken int64
		s.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&taken)
		if taken > 0 {
			return models.User{}, apperr.Conflict("email already registered")
		}
		updates["email"] = email
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, apperr.Internal("failed to hash password", err)
		}
		updates["password_hash"] = string(hash)
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return models.User{}, apperr.Internal("failed to update user", err)
	}
	return user, nil
}

// userByEmail resolves an email inside an ongoing transaction.
func userByEmail(tx *gorm.DB, email string) (models.User, error) {
	var user models.User
	err := tx.Where("email = ?", email).First(&user).Error
	return user, err
}
