package database

import (
	"gorm.io/gorm"

	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/models"
	"github.com/wpendl99/jwt-pizza-service/rbac"
)

// CreateFranchise resolves every admin email to an existing user and
// inserts the franchise, its admin links, and the franchisee role
// bindings as one atomic unit. An unknown email fails the whole create.
func (s *Store) CreateFranchise(franchise models.Franchise) (models.Franchise, error) {
	var existing models.Franchise
	if err := s.db.Where("name = ?", franchise.Name).First(&existing).Error; err == nil {
		return models.Franchise{}, apperr.Conflict("franchise already exists")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		admins := make([]models.User, 0, len(franchise.Admins))
		for _, admin := range franchise.Admins {
			user, err := userByEmail(tx, admin.Email)
			if err != nil {
				return apperr.Validation("unknown admin email: " + admin.Email)
			}
			admins = append(admins, user)
		}
		franchise.ID = 0
		franchise.Admins = admins

		// Link the admins without rewriting their user rows.
		if err := tx.Omit("Admins.*").Create(&franchise).Error; err != nil {
			return apperr.Internal("failed to create franchise", err)
		}

		for i := range admins {
			binding := models.RoleBinding{
				UserID: admins[i].ID,
				Role:   models.RoleFranchisee,
				Object: franchise.Name,
			}
			if err := tx.Create(&binding).Error; err != nil {
				return apperr.Internal("failed to grant franchisee role", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Franchise{}, err
	}
	return franchise, nil
}

// GetFranchise returns one franchise with admins and stores loaded.
func (s *Store) GetFranchise(id uint) (models.Franchise, error) {
	var franchise models.Franchise
	err := s.db.Preload("Admins").Preload("Stores").First(&franchise, id).Error
	if err != nil {
		return models.Franchise{}, apperr.NotFound("unknown franchise")
	}
	return franchise, nil
}

// GetFranchises lists every franchise. Admin callers get full admin
// detail; everyone else gets the redacted view with stores only.
func (s *Store) GetFranchises(requester *rbac.Identity) ([]models.Franchise, error) {
	franchises := []models.Franchise{}
	query := s.db.Preload("Stores")
	if rbac.HasRole(requester, models.RoleAdmin) {
		query = query.Preload("Admins.Roles")
	}
	if err := query.Find(&franchises).Error; err != nil {
		return nil, apperr.Internal("failed to list franchises", err)
	}
	return franchises, nil
}

// GetUserFranchises lists the franchises where the user appears in the
// admin list. No membership is an empty list, not an error.
func (s *Store) GetUserFranchises(userID uint) ([]models.Franchise, error) {
	franchises := []models.Franchise{}
	err := s.db.Preload("Admins").Preload("Stores").
		Joins("JOIN franchise_admins ON franchise_admins.franchise_id = franchises.id").
		Where("franchise_admins.user_id = ?", userID).
		Find(&franchises).Error
	if err != nil {
		return nil, apperr.Internal("failed to list user franchises", err)
	}
	return franchises, nil
}

// DeleteFranchise removes the franchise, its stores, its admin links, and
// the franchisee role bindings it granted. Orders already placed against
// its stores are untouched.
func (s *Store) DeleteFranchise(id uint) error {
	var franchise models.Franchise
	if err := s.db.First(&franchise, id).Error; err != nil {
		return apperr.NotFound("unknown franchise")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Store{}, "franchise_id = ?", id).Error; err != nil {
			return apperr.Internal("failed to delete stores", err)
		}
		if err := tx.Exec("DELETE FROM franchise_admins WHERE franchise_id = ?", id).Error; err != nil {
			return apperr.Internal("failed to unlink admins", err)
		}
		err := tx.Delete(&models.RoleBinding{}, "role = ? AND object = ?", models.RoleFranchisee, franchise.Name).Error
		if err != nil {
			return apperr.Internal("failed to revoke franchisee roles", err)
		}
		if err := tx.Delete(&franchise).Error; err != nil {
			return apperr.Internal("failed to delete franchise", err)
		}
		return nil
	})
}

// CreateStore adds a store under the given franchise.
func (s *Store) CreateStore(franchiseID uint, store models.Store) (models.Store, error) {
	var franchise models.Franchise
	if err := s.db.First(&franchise, franchiseID).Error; err != nil {
		return models.Store{}, apperr.NotFound("unknown franchise")
	}
	store.ID = 0
	store.FranchiseID = franchiseID
	if err := s.db.Create(&store).Error; err != nil {
		return models.Store{}, apperr.Internal("failed to create store", err)
	}
	return store, nil
}

// DeleteStore removes a store, but only when it belongs to the given
// franchise.
func (s *Store) DeleteStore(franchiseID, storeID uint) error {
	result := s.db.Delete(&models.Store{}, "id = ? AND franchise_id = ?", storeID, franchiseID)
	if result.Error != nil {
		return apperr.Internal("failed to delete store", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("unknown store")
	}
	return nil
}
