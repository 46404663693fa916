package comment

import (
	"time"

	"github.com/linskybing/taskflow/internal/domain/user"
)

// Comment belongs to a ticket and is removed with it.
type Comment struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	TicketID  uint       `json:"ticket_id" gorm:"not null;index"`
	AuthorID  uint       `json:"author_id" gorm:"not null;index"`
	Author    *user.User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

type CreateCommentDTO struct {
	Content  string `json:"content" binding:"required"`
	TicketID uint   `json:"ticket_id" binding:"required"`
	AuthorID uint   `json:"author_id" binding:"required"`
}
