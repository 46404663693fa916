//go:build integration
// +build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linskybing/taskflow/internal/domain/comment"
	"github.com/linskybing/taskflow/internal/domain/project"
	"github.com/linskybing/taskflow/internal/domain/ticket"
)

func TestProjectHandler_Integration(t *testing.T) {
	resetDB(t)
	client := NewHTTPClient(testCtx.Router, "")

	t.Run("CreateProject derives key", func(t *testing.T) {
		p := createProject(t, client, "Web Platform")
		assert.Equal(t, "WEBPL", p.Key)
	})

	t.Run("CreateProject duplicate name conflicts", func(t *testing.T) {
		resp, err := client.POST("/api/projects/", project.CreateProjectDTO{Name: "Web Platform"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("ListProjects without trailing slash", func(t *testing.T) {
		resp, err := client.GET("/api/projects")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var projects []project.Project
		require.NoError(t, resp.DecodeJSON(&projects))
		assert.Len(t, projects, 1)
	})

	t.Run("GetProject not found", func(t *testing.T) {
		resp, err := client.GET("/api/projects/9999")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestProjectDeleteCascades_Integration(t *testing.T) {
	resetDB(t)
	client := NewHTTPClient(testCtx.Router, "")

	author := createUser(t, client, "alice")
	p := createProject(t, client, "Mobile")
	keep := createProject(t, client, "Backend")
	doomed := createTicket(t, client, p.ID, "crash on start")
	survivor := createTicket(t, client, keep.ID, "slow query")
	createComment(t, client, doomed.ID, author.ID, "repro attached")

	resp, err := client.DELETE(fmt.Sprintf("/api/projects/%d", p.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.GET(ticketPath(doomed.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var orphans int64
	require.NoError(t, testCtx.DB.Model(&comment.Comment{}).Where("ticket_id = ?", doomed.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)

	resp, err = client.GET("/api/tickets/")
	require.NoError(t, err)
	var remaining []ticket.Ticket
	require.NoError(t, resp.DecodeJSON(&remaining))
	require.Len(t, remaining, 1)
	assert.Equal(t, survivor.ID, remaining[0].ID)
}
