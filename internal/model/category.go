package model

// Category labels tasks. Categories have no owner and are shared freely
// across tasks.
type Category struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"uniqueIndex;size:30;not null"`
	Color   string `json:"color" gorm:"size:15"`
	NameTag string `json:"name_tag" gorm:"size:2"`
}
