package model

// Board column identifiers the summary endpoint counts.
const (
	ContainerToDo          = "to-do-con"
	ContainerInProgress    = "in-progress-con"
	ContainerAwaitFeedback = "await-feedback-con"
	ContainerDone          = "done-con"
)

// PriorityUrgent is counted separately by the summary endpoint.
const PriorityUrgent = "Urgent"

// Task is a card on the board. Categories and Users are non-owning
// many-to-many associations; Subtasks are owned and die with the task.
type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Container   string     `json:"container" gorm:"size:30"`
	Title       string     `json:"title" gorm:"size:50"`
	Description string     `json:"description" gorm:"size:250"`
	DueDate     *Date      `json:"due_date" gorm:"type:date"`
	Priority    string     `json:"priority" gorm:"size:25"`
	PriorityImg string     `json:"priorityImg" gorm:"column:priority_img;size:50"`
	Categories  []Category `json:"-" gorm:"many2many:task_categories"`
	Users       []User     `json:"-" gorm:"many2many:task_users"`
	Subtasks    []SubTask  `json:"-" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}
