//go:build integration
// +build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linskybing/taskflow/internal/domain/comment"
	"github.com/linskybing/taskflow/internal/domain/project"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/linskybing/taskflow/internal/domain/user"
)

func mustCreate(t *testing.T, c *HTTPClient, path string, body, out any) {
	t.Helper()
	resp, err := c.POST(path, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.GetErrorMessage())
	require.NoError(t, resp.DecodeJSON(out))
}

func createProject(t *testing.T, c *HTTPClient, name string) project.Project {
	var p project.Project
	mustCreate(t, c, "/api/projects/", project.CreateProjectDTO{Name: name}, &p)
	return p
}

func createUser(t *testing.T, c *HTTPClient, username string) user.User {
	var u user.User
	mustCreate(t, c, "/api/users/", user.CreateUserDTO{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
	}, &u)
	return u
}

func createTicket(t *testing.T, c *HTTPClient, projectID uint, title string) ticket.Ticket {
	var tk ticket.Ticket
	mustCreate(t, c, "/api/tickets/", ticket.CreateTicketDTO{Title: title, ProjectID: projectID}, &tk)
	return tk
}

func createComment(t *testing.T, c *HTTPClient, ticketID, authorID uint, content string) comment.Comment {
	var cm comment.Comment
	mustCreate(t, c, "/api/comments/", comment.CreateCommentDTO{Content: content, TicketID: ticketID, AuthorID: authorID}, &cm)
	return cm
}

func ticketPath(id uint) string {
	return fmt.Sprintf("/api/tickets/%d", id)
}
