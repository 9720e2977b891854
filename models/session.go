package models

import "time"

// AuthSession records an active login, keyed by the token's signature
// segment. A token is live only while its row exists; logout deletes it.
type AuthSession struct {
	Signature string    `json:"-" gorm:"primaryKey;size:512"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	CreatedAt time.Time `json:"-"`
}
