package repository

import (
	"time"

	"github.com/linskybing/taskflow/internal/domain/history"
	"gorm.io/gorm"
)

type HistoryQueryParams struct {
	TicketID uint
	Action   *history.Action
	Limit    int
	Offset   int
}

type HistoryRepo interface {
	ListTicketEvents(params HistoryQueryParams) ([]history.TicketEvent, error)
	CreateTicketEvent(e *history.TicketEvent) error
	DeleteTicketEventsBefore(cutoff time.Time) (int64, error)
	WithTx(tx *gorm.DB) HistoryRepo
}

type DBHistoryRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) *DBHistoryRepo {
	return &DBHistoryRepo{
		db: db,
	}
}

func (r *DBHistoryRepo) ListTicketEvents(params HistoryQueryParams) ([]history.TicketEvent, error) {
	var events []history.TicketEvent
	query := r.db.Model(&history.TicketEvent{}).Where("ticket_id = ?", params.TicketID)

	if params.Action != nil {
		query = query.Where("action = ?", *params.Action)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	err := query.Order("created_at, id").Find(&events).Error
	return events, err
}

func (r *DBHistoryRepo) CreateTicketEvent(e *history.TicketEvent) error {
	return r.db.Create(e).Error
}

func (r *DBHistoryRepo) DeleteTicketEventsBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&history.TicketEvent{})
	return res.RowsAffected, res.Error
}

func (r *DBHistoryRepo) WithTx(tx *gorm.DB) HistoryRepo {
	if tx == nil {
		return r
	}
	return &DBHistoryRepo{
		db: tx,
	}
}
