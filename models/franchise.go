package models

import "time"

type Franchise struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Admins    []User    `json:"admins,omitempty" gorm:"many2many:franchise_admins"`
	Stores    []Store   `json:"stores" gorm:"foreignKey:FranchiseID"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Store struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FranchiseID uint      `json:"franchiseId" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
