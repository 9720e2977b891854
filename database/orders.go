package database

import (
	"gorm.io/gorm"

	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/models"
)

// AddMenuItem stores a new menu item.
func (s *Store) AddMenuItem(item models.MenuItem) (models.MenuItem, error) {
	if item.Title == "" {
		return models.MenuItem{}, apperr.Validation("menu item title is required")
	}
	item.ID = 0
	if err := s.db.Create(&item).Error; err != nil {
		return models.MenuItem{}, apperr.Internal("failed to add menu item", err)
	}
	return item, nil
}

// GetMenu returns the full menu. Unauthenticated reads are fine.
func (s *Store) GetMenu() ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	if err := s.db.Find(&items).Error; err != nil {
		return nil, apperr.Internal("failed to load menu", err)
	}
	return items, nil
}

// AddDinerOrder inserts the order and its item snapshots atomically. The
// snapshots are frozen at creation time; later menu edits never touch
// them.
func (s *Store) AddDinerOrder(diner models.User, order models.Order) (models.Order, error) {
	if len(order.Items) == 0 {
		return models.Order{}, apperr.Validation("order has no items")
	}
	order.ID = 0
	order.DinerID = diner.ID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	})
	if err != nil {
		return models.Order{}, apperr.Internal("failed to create order", err)
	}
	return order, nil
}

// OrderHistory is one page of a diner's own orders.
type OrderHistory struct {
	DinerID uint           `json:"dinerId"`
	Orders  []models.Order `json:"orders"`
	Page    int            `json:"page"`
}

// GetOrders returns the diner's orders in insertion order, one page at a
// time. It never exposes another diner's orders.
func (s *Store) GetOrders(userID uint, page int) (OrderHistory, error) {
	if page < 1 {
		page = 1
	}
	orders := []models.Order{}
	err := s.db.Preload("Items").
		Where("diner_id = ?", userID).
		Order("id").
		Limit(s.listPerPage).
		Offset((page - 1) * s.listPerPage).
		Find(&orders).Error
	if err != nil {
		return OrderHistory{}, apperr.Internal("failed to load orders", err)
	}
	return OrderHistory{DinerID: userID, Orders: orders, Page: page}, nil
}
