package database

import (
	"context"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wpendl99/jwt-pizza-service/config"
	"github.com/wpendl99/jwt-pizza-service/logger"
	"github.com/wpendl99/jwt-pizza-service/models"
)

// Store is the persistence layer for every entity plus the session table.
// All multi-row writes go through a single transaction.
type Store struct {
	db          *gorm.DB
	listPerPage int
}

var DB *Store

// Init opens the configured database, migrates the schema, and seeds
// defaults. Safe to call on every process start.
func Init() {
	store, err := Open(config.App)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	DB = store
	DB.Seed()
	log.Println("Database connected and migrated")
}

// Open connects using the postgres DSN when one is configured, otherwise
// a local sqlite file. The schema migration is idempotent.
func Open(cfg *config.Config) (*Store, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: queryLogger{gormlogger.Default.LogMode(gormlogger.Warn)},
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RoleBinding{},
		&models.Franchise{},
		&models.Store{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AuthSession{},
	)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, listPerPage: cfg.ListPerPage}, nil
}

// queryLogger ships every executed statement as a structured db event on
// top of gorm's own slow-query and error reporting.
type queryLogger struct {
	gormlogger.Interface
}

func (l queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	logger.DBQuery(sql)
	l.Interface.Trace(ctx, begin, fc, err)
}

// Seed inserts the default admin account and menu when the store is
// empty. Best effort: failures are logged, never fatal.
func (s *Store) Seed() {
	var users int64
	s.db.Model(&models.User{}).Count(&users)
	if users == 0 {
		admin := models.User{
			Name:  "常用名字",
			Email: "a@jwt.com",
			Roles: []models.RoleBinding{{Role: models.RoleAdmin}},
		}
		if _, err := s.AddUser(admin, "admin"); err != nil {
			log.Println("Failed to seed default admin:", err)
		}
	}

	var items int64
	s.db.Model(&models.MenuItem{}).Count(&items)
	if items == 0 {
		menu := []models.MenuItem{
			{Title: "Veggie", Description: "A garden of delight", Image: "pizza1.png", Price: decimal.NewFromFloat(0.0038)},
			{Title: "Pepperoni", Description: "Spicy treat", Image: "pizza2.png", Price: decimal.NewFromFloat(0.0042)},
			{Title: "Margarita", Description: "Essential classic", Image: "pizza3.png", Price: decimal.NewFromFloat(0.0014)},
		}
		if err := s.db.Create(&menu).Error; err != nil {
			log.Println("Failed to seed default menu:", err)
		}
	}
}
