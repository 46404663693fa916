package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/taskflow/internal/application"
	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/domain/history"
	"github.com/linskybing/taskflow/internal/domain/project"
	"github.com/linskybing/taskflow/internal/repository"
	"github.com/linskybing/taskflow/internal/repository/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	events []event.ChangeEvent
}

func (p *recordingPublisher) Publish(e event.ChangeEvent) {
	p.events = append(p.events, e)
}

type repoMocks struct {
	project *mock.MockProjectRepo
	ticket  *mock.MockTicketRepo
	comment *mock.MockCommentRepo
	history *mock.MockHistoryRepo
	user    *mock.MockUserRepo
}

func newRepoMocks(t *testing.T) (*repository.Repos, repoMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	m := repoMocks{
		project: mock.NewMockProjectRepo(ctrl),
		ticket:  mock.NewMockTicketRepo(ctrl),
		comment: mock.NewMockCommentRepo(ctrl),
		history: mock.NewMockHistoryRepo(ctrl),
		user:    mock.NewMockUserRepo(ctrl),
	}
	repos := &repository.Repos{
		Project: m.project,
		Ticket:  m.ticket,
		Comment: m.comment,
		History: m.history,
		User:    m.user,
	}
	return repos, m
}

func setupProjectMocks(t *testing.T) (*application.ProjectService, repoMocks, *recordingPublisher) {
	repos, m := newRepoMocks(t)
	pub := &recordingPublisher{}
	return application.NewProjectService(repos, pub), m, pub
}

func TestProjectServiceCRUD(t *testing.T) {
	ctx := application.WithOrigin(context.Background(), "client-1")

	t.Run("CreateProject derives key", func(t *testing.T) {
		svc, m, pub := setupProjectMocks(t)
		m.project.EXPECT().CountConflicts("Mobile App", "MOBIL", uint(0)).Return(int64(0), nil)
		m.project.EXPECT().CreateProject(gomock.Any()).Do(func(p *project.Project) {
			p.ID = 1
		}).Return(nil)

		p, err := svc.CreateProject(ctx, project.CreateProjectDTO{Name: " Mobile App "})
		require.NoError(t, err)
		assert.Equal(t, uint(1), p.ID)
		assert.Equal(t, "MOBIL", p.Key)
		require.Len(t, pub.events, 1)
		assert.Equal(t, event.ChangeEvent{Kind: event.ProjectCreated, ProjectID: 1, Origin: "client-1"}, pub.events[0])
	})

	t.Run("CreateProject uppercases explicit key", func(t *testing.T) {
		svc, m, _ := setupProjectMocks(t)
		m.project.EXPECT().CountConflicts("Web", "WEBAPP", uint(0)).Return(int64(0), nil)
		m.project.EXPECT().CreateProject(gomock.Any()).Return(nil)

		p, err := svc.CreateProject(ctx, project.CreateProjectDTO{Name: "Web", Key: "webapp"})
		require.NoError(t, err)
		assert.Equal(t, "WEBAPP", p.Key)
	})

	t.Run("CreateProject rejects long key", func(t *testing.T) {
		svc, _, _ := setupProjectMocks(t)
		_, err := svc.CreateProject(ctx, project.CreateProjectDTO{Name: "Web", Key: "ABCDEFGHIJK"})
		assert.ErrorIs(t, err, application.ErrInvalidKey)
	})

	t.Run("CreateProject conflict", func(t *testing.T) {
		svc, m, pub := setupProjectMocks(t)
		m.project.EXPECT().CountConflicts(gomock.Any(), gomock.Any(), uint(0)).Return(int64(1), nil)

		_, err := svc.CreateProject(ctx, project.CreateProjectDTO{Name: "Web"})
		assert.ErrorIs(t, err, application.ErrProjectConflict)
		assert.Empty(t, pub.events)
	})

	t.Run("CreateProject error handling", func(t *testing.T) {
		svc, m, _ := setupProjectMocks(t)
		m.project.EXPECT().CountConflicts(gomock.Any(), gomock.Any(), uint(0)).Return(int64(0), nil)
		m.project.EXPECT().CreateProject(gomock.Any()).Return(errors.New("database error"))

		p, err := svc.CreateProject(ctx, project.CreateProjectDTO{Name: "Web"})
		if err == nil || err.Error() != "database error" {
			t.Fatalf("expected 'database error', got %v", err)
		}
		if p != nil {
			t.Fatalf("expected nil project on error, got %v", p)
		}
	})

	t.Run("GetProject not found", func(t *testing.T) {
		svc, m, _ := setupProjectMocks(t)
		m.project.EXPECT().GetProjectByID(uint(9)).Return(project.Project{}, gorm.ErrRecordNotFound)

		_, err := svc.GetProject(ctx, 9)
		assert.ErrorIs(t, err, application.ErrProjectNotFound)
	})

	t.Run("UpdateProject success", func(t *testing.T) {
		svc, m, _ := setupProjectMocks(t)
		m.project.EXPECT().GetProjectByID(uint(1)).Return(project.Project{ID: 1, Name: "old", Key: "OLD"}, nil)
		m.project.EXPECT().CountConflicts("new", "OLD", uint(1)).Return(int64(0), nil)
		m.project.EXPECT().UpdateProject(gomock.Any()).Return(nil)

		name := "new"
		p, err := svc.UpdateProject(ctx, 1, project.UpdateProjectDTO{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "new", p.Name)
		assert.Equal(t, "OLD", p.Key)
	})

	t.Run("DeleteProject cascades", func(t *testing.T) {
		svc, m, pub := setupProjectMocks(t)
		m.project.EXPECT().GetProjectByID(uint(5)).Return(project.Project{ID: 5}, nil)
		gomock.InOrder(
			m.ticket.EXPECT().ListTicketIDsByProject(uint(5)).Return([]uint{10, 11}, nil),
			m.comment.EXPECT().DeleteCommentsByTickets([]uint{10, 11}).Return(nil),
			m.ticket.EXPECT().DeleteTicketsByProject(uint(5)).Return(nil),
		)
		m.history.EXPECT().CreateTicketEvent(gomock.Any()).DoAndReturn(func(e *history.TicketEvent) error {
			assert.Equal(t, history.ActionDelete, e.Action)
			return nil
		}).Times(2)
		m.project.EXPECT().DeleteProject(uint(5)).Return(nil)

		require.NoError(t, svc.DeleteProject(ctx, 5))
		require.Len(t, pub.events, 1)
		assert.Equal(t, event.ProjectDeleted, pub.events[0].Kind)
	})

	t.Run("DeleteProject missing", func(t *testing.T) {
		svc, m, _ := setupProjectMocks(t)
		m.project.EXPECT().GetProjectByID(uint(5)).Return(project.Project{}, gorm.ErrRecordNotFound)

		assert.ErrorIs(t, svc.DeleteProject(ctx, 5), application.ErrProjectNotFound)
	})
}
