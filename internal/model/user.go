package model

import "time"

// User represents a board member. Users double as "contacts" on the
// frontend, which is why cosmetic fields like NameTag and Color live here.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name         string     `json:"name" gorm:"size:250"`
	NameTag      string     `json:"name_tag" gorm:"size:2"`
	Color        string     `json:"color" gorm:"size:15"`
	Phone        int64      `json:"phone" gorm:"default:0"`
	PasswordHash string     `json:"-" gorm:"size:255"` // Never expose in JSON
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	IsStaff      bool       `json:"is_staff" gorm:"default:false"`
	IsSuperuser  bool       `json:"is_superuser" gorm:"default:false"`
	DateJoined   time.Time  `json:"date_joined" gorm:"autoCreateTime"`
	LastLogin    *time.Time `json:"last_login"`
}
