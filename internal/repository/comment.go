package repository

import (
	"github.com/linskybing/taskflow/internal/domain/comment"
	"gorm.io/gorm"
)

type CommentRepo interface {
	GetCommentByID(id uint) (comment.Comment, error)
	ListCommentsByTicket(ticketID uint) ([]comment.Comment, error)
	CreateComment(c *comment.Comment) error
	DeleteCommentsByTickets(ticketIDs []uint) error
	WithTx(tx *gorm.DB) CommentRepo
}

type DBCommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *DBCommentRepo {
	return &DBCommentRepo{
		db: db,
	}
}

func (r *DBCommentRepo) GetCommentByID(id uint) (comment.Comment, error) {
	var c comment.Comment
	err := r.db.Preload("Author").First(&c, id).Error
	return c, err
}

func (r *DBCommentRepo) ListCommentsByTicket(ticketID uint) ([]comment.Comment, error) {
	var comments []comment.Comment
	err := r.db.Preload("Author").
		Where("ticket_id = ?", ticketID).
		Order("created_at, id").
		Find(&comments).Error
	return comments, err
}

func (r *DBCommentRepo) CreateComment(c *comment.Comment) error {
	return r.db.Omit("Author").Create(c).Error
}

func (r *DBCommentRepo) DeleteCommentsByTickets(ticketIDs []uint) error {
	if len(ticketIDs) == 0 {
		return nil
	}
	return r.db.Where("ticket_id IN ?", ticketIDs).Delete(&comment.Comment{}).Error
}

func (r *DBCommentRepo) WithTx(tx *gorm.DB) CommentRepo {
	if tx == nil {
		return r
	}
	return &DBCommentRepo{
		db: tx,
	}
}
