package ticket

import "time"

// Ticket is a unit of trackable work. ProjectID is fixed at creation.
type Ticket struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description *string   `json:"description" gorm:"type:text"`
	Status      Status    `json:"status" gorm:"size:20;not null;default:'To Do';index"`
	Priority    Priority  `json:"priority" gorm:"size:20;not null;default:'Medium'"`
	Type        Type      `json:"type" gorm:"size:20;not null;default:'Task'"`
	ProjectID   uint      `json:"project_id" gorm:"not null;index"`
	AssigneeID  *uint     `json:"assignee_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// Change records one field transition produced by an update.
type Change struct {
	Field string `json:"-"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}
