package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/linskybing/taskflow/internal/api/handlers"
	"github.com/linskybing/taskflow/internal/api/routes"
	"github.com/linskybing/taskflow/internal/application"
	"github.com/linskybing/taskflow/internal/domain/project"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/linskybing/taskflow/internal/events"
	"github.com/linskybing/taskflow/internal/logger"
	"github.com/linskybing/taskflow/internal/repository"
	"github.com/linskybing/taskflow/internal/repository/mock"
	"github.com/linskybing/taskflow/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type repoMocks struct {
	project *mock.MockProjectRepo
	ticket  *mock.MockTicketRepo
	comment *mock.MockCommentRepo
	history *mock.MockHistoryRepo
	user    *mock.MockUserRepo
}

func setupRouter(t *testing.T) (*gin.Engine, repoMocks) {
	gin.SetMode(gin.TestMode)
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

	log := logger.Nop()
	hub := events.NewHub(log)
	svc := application.New(repos, hub, nil)

	r := gin.New()
	routes.RegisterRoutes(r, handlers.New(svc, hub, log))
	return r, m
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(r, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp response.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestProjectHandlers(t *testing.T) {
	t.Run("list with and without trailing slash", func(t *testing.T) {
		r, m := setupRouter(t)
		m.project.EXPECT().ListProjects().Return([]project.Project{{ID: 1, Name: "Web", Key: "WEB"}}, nil).Times(2)

		for _, path := range []string{"/api/projects/", "/api/projects"} {
			w := doJSON(r, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, w.Code, path)
			var got []project.Project
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Len(t, got, 1)
		}
	})

	t.Run("empty list encodes as array", func(t *testing.T) {
		r, m := setupRouter(t)
		m.project.EXPECT().ListProjects().Return(nil, nil)

		w := doJSON(r, http.MethodGet, "/api/projects/", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("create returns 201", func(t *testing.T) {
		r, m := setupRouter(t)
		m.project.EXPECT().CountConflicts("Mobile", "MOBIL", uint(0)).Return(int64(0), nil)
		m.project.EXPECT().CreateProject(gomock.Any()).Do(func(p *project.Project) { p.ID = 4 }).Return(nil)

		w := doJSON(r, http.MethodPost, "/api/projects/", map[string]any{"name": "Mobile"})
		require.Equal(t, http.StatusCreated, w.Code)
		var got project.Project
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, uint(4), got.ID)
		assert.Equal(t, "MOBIL", got.Key)
	})

	t.Run("create without name", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := doJSON(r, http.MethodPost, "/api/projects/", map[string]any{"key": "X"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w), "name is required")
	})

	t.Run("create conflict", func(t *testing.T) {
		r, m := setupRouter(t)
		m.project.EXPECT().CountConflicts(gomock.Any(), gomock.Any(), uint(0)).Return(int64(1), nil)

		w := doJSON(r, http.MethodPost, "/api/projects", map[string]any{"name": "Web"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := doJSON(r, http.MethodGet, "/api/projects/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete missing project", func(t *testing.T) {
		r, m := setupRouter(t)
		m.project.EXPECT().GetProjectByID(uint(9)).Return(project.Project{}, gorm.ErrRecordNotFound)

		w := doJSON(r, http.MethodDelete, "/api/projects/9", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTicketHandlers(t *testing.T) {
	t.Run("list filters by project", func(t *testing.T) {
		r, m := setupRouter(t)
		m.ticket.EXPECT().ListTickets(gomock.Any()).DoAndReturn(func(projectID *uint) ([]ticket.Ticket, error) {
			require.NotNil(t, projectID)
			assert.Equal(t, uint(3), *projectID)
			return []ticket.Ticket{{ID: 1, ProjectID: 3, Status: ticket.StatusTodo}}, nil
		})

		w := doJSON(r, http.MethodGet, "/api/tickets/?project_id=3", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad project filter", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := doJSON(r, http.MethodGet, "/api/tickets/?project_id=x", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get missing ticket", func(t *testing.T) {
		r, m := setupRouter(t)
		m.ticket.EXPECT().GetTicketByID(uint(42)).Return(ticket.Ticket{}, gorm.ErrRecordNotFound)

		w := doJSON(r, http.MethodGet, "/api/tickets/42", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, application.ErrTicketNotFound.Error(), decodeError(t, w))
	})

	t.Run("unknown status rejected at bind", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := doJSON(r, http.MethodPut, "/api/tickets/42", map[string]any{"status": "Blocked"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("status move", func(t *testing.T) {
		r, m := setupRouter(t)
		m.ticket.EXPECT().GetTicketForUpdate(uint(42)).Return(ticket.Ticket{ID: 42, ProjectID: 1, Title: "x", Status: ticket.StatusTodo}, nil)
		m.ticket.EXPECT().UpdateTicket(gomock.Any(), []string{"status"}).Return(nil)
		m.history.EXPECT().CreateTicketEvent(gomock.Any()).Return(nil)

		w := doJSON(r, http.MethodPut, "/api/tickets/42", map[string]any{"status": "In Progress"})
		require.Equal(t, http.StatusOK, w.Code)
		var got ticket.Ticket
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, ticket.StatusInProgress, got.Status)
	})

	t.Run("history bad limit", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := doJSON(r, http.MethodGet, "/api/tickets/1/history?limit=many", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCommentHandler(t *testing.T) {
	r, m := setupRouter(t)
	m.ticket.EXPECT().GetTicketByID(uint(7)).Return(ticket.Ticket{}, gorm.ErrRecordNotFound)

	w := doJSON(r, http.MethodPost, "/api/comments/", map[string]any{"content": "hi", "ticket_id": 7, "author_id": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandlers(t *testing.T) {
	t.Run("invalid email", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := doJSON(r, http.MethodPost, "/api/users/", map[string]any{"username": "jane", "email": "nope", "full_name": "Jane"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w), "valid email")
	})

	t.Run("avatar without object storage", func(t *testing.T) {
		r, _ := setupRouter(t)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "me.png")
		require.NoError(t, err)
		_, _ = part.Write([]byte("png"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, "/api/users/1/avatar", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("avatar without file", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := doJSON(r, http.MethodPut, "/api/users/1/avatar", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
