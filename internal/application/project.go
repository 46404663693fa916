package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/domain/history"
	"github.com/linskybing/taskflow/internal/domain/project"
	"github.com/linskybing/taskflow/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectConflict = errors.New("project name or key already exists")
	ErrInvalidKey      = fmt.Errorf("project key must be 1-%d uppercase characters without spaces", project.MaxKeyLen)
)

type ProjectService struct {
	Repos  *repository.Repos
	events EventPublisher
}

func NewProjectService(repos *repository.Repos, events EventPublisher) *ProjectService {
	if events == nil {
		events = nopPublisher{}
	}
	return &ProjectService{
		Repos:  repos,
		events: events,
	}
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]project.Project, error) {
	projects, err := s.Repos.Project.ListProjects()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uint) (*project.Project, error) {
	p, err := s.Repos.Project.GetProjectByID(id)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return &p, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, input project.CreateProjectDTO) (*project.Project, error) {
	p := &project.Project{
		Name:        strings.TrimSpace(input.Name),
		Key:         strings.ToUpper(strings.TrimSpace(input.Key)),
		Description: input.Description,
	}
	if p.Key == "" {
		p.Key = project.DeriveKey(p.Name)
	}
	if !project.ValidKey(p.Key) {
		return nil, ErrInvalidKey
	}
	if err := s.checkConflict(p.Name, p.Key, 0); err != nil {
		return nil, err
	}

	if err := s.Repos.Project.CreateProject(p); err != nil {
		return nil, err
	}

	publish(ctx, s.events, event.ProjectCreated, 0, p.ID)
	return p, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id uint, input project.UpdateProjectDTO) (*project.Project, error) {
	p, err := s.Repos.Project.GetProjectByID(id)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}

	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Key != nil {
		p.Key = strings.ToUpper(strings.TrimSpace(*input.Key))
		if !project.ValidKey(p.Key) {
			return nil, ErrInvalidKey
		}
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Name != nil || input.Key != nil {
		if err := s.checkConflict(p.Name, p.Key, p.ID); err != nil {
			return nil, err
		}
	}

	if err := s.Repos.Project.UpdateProject(&p); err != nil {
		return nil, err
	}

	publish(ctx, s.events, event.ProjectUpdated, 0, p.ID)
	return &p, nil
}

// DeleteProject removes the project together with its tickets and their
// comments. Ticket history is kept and gains a delete entry per ticket.
func (s *ProjectService) DeleteProject(ctx context.Context, id uint) error {
	if _, err := s.Repos.Project.GetProjectByID(id); err != nil {
		return notFound(err, ErrProjectNotFound)
	}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		ids, err := tx.Ticket.ListTicketIDsByProject(id)
		if err != nil {
			return err
		}
		if err := tx.Comment.DeleteCommentsByTickets(ids); err != nil {
			return err
		}
		if err := tx.Ticket.DeleteTicketsByProject(id); err != nil {
			return err
		}
		for _, tid := range ids {
			ev, err := history.NewTicketEvent(tid, history.ActionDelete, nil)
			if err != nil {
				return err
			}
			if err := tx.History.CreateTicketEvent(ev); err != nil {
				return err
			}
		}
		return tx.Project.DeleteProject(id)
	})
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}

	publish(ctx, s.events, event.ProjectDeleted, 0, id)
	return nil
}

func (s *ProjectService) checkConflict(name, key string, excludeID uint) error {
	n, err := s.Repos.Project.CountConflicts(name, key, excludeID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrProjectConflict
	}
	return nil
}

// notFound maps gorm's missing-row error to the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
