package model

import "time"

// AuthToken is the opaque bearer credential, one per user. It is created
// lazily on the first successful login or registration and stays valid
// until the row is deleted.
type AuthToken struct {
	Key       string    `json:"key" gorm:"primaryKey;size:64"`
	UserID    uint      `json:"user" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
