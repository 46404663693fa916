package repository

import (
	"gorm.io/gorm"
)

type Repos struct {
	Project ProjectRepo
	Ticket  TicketRepo
	Comment CommentRepo
	History HistoryRepo
	User    UserRepo

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		Project: NewProjectRepo(db),
		Ticket:  NewTicketRepo(db),
		Comment: NewCommentRepo(db),
		History: NewHistoryRepo(db),
		User:    NewUserRepo(db),
		db:      db,
	}
}

func (r *Repos) Begin() *gorm.DB {
	return r.db.Begin()
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Project: r.Project.WithTx(tx),
		Ticket:  r.Ticket.WithTx(tx),
		Comment: r.Comment.WithTx(tx),
		History: r.History.WithTx(tx),
		User:    r.User.WithTx(tx),
		db:      tx,
	}
}

// ExecTx runs fn inside a transaction. Without a database handle (as in
// unit tests with mocked repos) fn runs directly against r.
func (r *Repos) ExecTx(fn func(*Repos) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepos := r.WithTx(tx)
		return fn(txRepos)
	})
}
