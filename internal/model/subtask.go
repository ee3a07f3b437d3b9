package model

// SubTask belongs to exactly one task and is never shared.
type SubTask struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	TaskID  uint   `json:"task" gorm:"index"`
	Name    string `json:"name" gorm:"size:50"`
	Checked bool   `json:"checked" gorm:"default:false"`
}
