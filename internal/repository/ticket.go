package repository

import (
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TicketRepo interface {
	GetTicketByID(id uint) (ticket.Ticket, error)
	GetTicketForUpdate(id uint) (ticket.Ticket, error)
	ListTickets(projectID *uint) ([]ticket.Ticket, error)
	ListTicketIDsByProject(projectID uint) ([]uint, error)
	CreateTicket(t *ticket.Ticket) error
	UpdateTicket(t *ticket.Ticket, columns []string) error
	DeleteTicket(id uint) error
	DeleteTicketsByProject(projectID uint) error
	WithTx(tx *gorm.DB) TicketRepo
}

type DBTicketRepo struct {
	db *gorm.DB
}

func NewTicketRepo(db *gorm.DB) *DBTicketRepo {
	return &DBTicketRepo{
		db: db,
	}
}

func (r *DBTicketRepo) GetTicketByID(id uint) (ticket.Ticket, error) {
	var t ticket.Ticket
	err := r.db.First(&t, id).Error
	return t, err
}

// GetTicketForUpdate reads the row and locks it until the surrounding
// transaction ends.
func (r *DBTicketRepo) GetTicketForUpdate(id uint) (ticket.Ticket, error) {
	var t ticket.Ticket
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error
	return t, err
}

func (r *DBTicketRepo) ListTickets(projectID *uint) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	query := r.db.Model(&ticket.Ticket{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	err := query.Order("id").Find(&tickets).Error
	return tickets, err
}

func (r *DBTicketRepo) ListTicketIDsByProject(projectID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&ticket.Ticket{}).Where("project_id = ?", projectID).Pluck("id", &ids).Error
	return ids, err
}

func (r *DBTicketRepo) CreateTicket(t *ticket.Ticket) error {
	return r.db.Create(t).Error
}

// UpdateTicket writes only the named columns of t, plus updated_at.
func (r *DBTicketRepo) UpdateTicket(t *ticket.Ticket, columns []string) error {
	return r.db.Model(t).Select(columns).Updates(t).Error
}

func (r *DBTicketRepo) DeleteTicket(id uint) error {
	return r.db.Delete(&ticket.Ticket{}, id).Error
}

func (r *DBTicketRepo) DeleteTicketsByProject(projectID uint) error {
	return r.db.Where("project_id = ?", projectID).Delete(&ticket.Ticket{}).Error
}

func (r *DBTicketRepo) WithTx(tx *gorm.DB) TicketRepo {
	if tx == nil {
		return r
	}
	return &DBTicketRepo{
		db: tx,
	}
}
