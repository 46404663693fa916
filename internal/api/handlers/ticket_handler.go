package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/taskflow/internal/application"
	"github.com/linskybing/taskflow/internal/domain/comment"
	"github.com/linskybing/taskflow/internal/domain/history"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/linskybing/taskflow/internal/repository"
	"github.com/linskybing/taskflow/pkg/response"
	"github.com/linskybing/taskflow/pkg/utils"
)

type TicketHandler struct {
	svc      *application.TicketService
	comments *application.CommentService
}

func NewTicketHandler(svc *application.TicketService, comments *application.CommentService) *TicketHandler {
	return &TicketHandler{svc: svc, comments: comments}
}

// ListTickets godoc
// @Summary List tickets
// @Tags tickets
// @Produce json
// @Param project_id query uint false "Only tickets of this project"
// @Success 200 {array} ticket.Ticket
// @Failure 400 {object} response.ErrorResponse "Invalid project id"
// @Router /api/tickets/ [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	projectID, err := utils.OptionalQueryUint(c, "project_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project_id"})
		return
	}

	tickets, err := h.svc.ListTickets(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	if tickets == nil {
		tickets = []ticket.Ticket{}
	}
	c.JSON(http.StatusOK, tickets)
}

// GetTicket godoc
// @Summary Get ticket by ID
// @Tags tickets
// @Produce json
// @Param id path uint true "Ticket ID"
// @Success 200 {object} ticket.Ticket
// @Failure 400 {object} response.ErrorResponse "Invalid ticket id"
// @Failure 404 {object} response.ErrorResponse "Ticket not found"
// @Router /api/tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid ticket id"})
		return
	}
	t, err := h.svc.GetTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateTicket godoc
// @Summary Create a ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param ticket body ticket.CreateTicketDTO true "Ticket"
// @Success 201 {object} ticket.Ticket
// @Failure 400 {object} response.ErrorResponse "Bad request"
// @Failure 404 {object} response.ErrorResponse "Project or assignee not found"
// @Router /api/tickets/ [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var input ticket.CreateTicketDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := h.svc.CreateTicket(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateTicket godoc
// @Summary Partially update a ticket
// @Description Only the fields present are changed. assignee_id 0 clears the assignee.
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path uint true "Ticket ID"
// @Param ticket body ticket.UpdateTicketDTO true "Fields to change"
// @Success 200 {object} ticket.Ticket
// @Failure 400 {object} response.ErrorResponse "Bad request"
// @Failure 404 {object} response.ErrorResponse "Ticket not found"
// @Router /api/tickets/{id} [put]
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid ticket id"})
		return
	}
	var input ticket.UpdateTicketDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := h.svc.UpdateTicket(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTicket godoc
// @Summary Delete a ticket and its comments
// @Tags tickets
// @Produce json
// @Param id path uint true "Ticket ID"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse "Ticket not found"
// @Router /api/tickets/{id} [delete]
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid ticket id"})
		return
	}
	if err := h.svc.DeleteTicket(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Ticket deleted successfully"})
}

// ListComments godoc
// @Summary List comments of a ticket
// @Tags tickets
// @Produce json
// @Param id path uint true "Ticket ID"
// @Success 200 {array} comment.Comment
// @Failure 404 {object} response.ErrorResponse "Ticket not found"
// @Router /api/tickets/{id}/comments [get]
func (h *TicketHandler) ListComments(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid ticket id"})
		return
	}
	comments, err := h.comments.ListComments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if comments == nil {
		comments = []comment.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// ListHistory godoc
// @Summary Change log of a ticket
// @Tags tickets
// @Produce json
// @Param id path uint true "Ticket ID"
// @Param action query string false "create, update or delete"
// @Param limit query int false "Maximum entries" default(100)
// @Param offset query int false "Entries to skip"
// @Success 200 {array} history.TicketEvent
// @Failure 400 {object} response.ErrorResponse
// @Router /api/tickets/{id}/history [get]
func (h *TicketHandler) ListHistory(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid ticket id"})
		return
	}
	params := repository.HistoryQueryParams{TicketID: id}
	if params.Limit, err = utils.QueryInt(c, "limit", 100); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	if params.Offset, err = utils.QueryInt(c, "offset", 0); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	if v := c.Query("action"); v != "" {
		action := history.Action(v)
		params.Action = &action
	}

	events, err := h.svc.ListHistory(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	if events == nil {
		events = []history.TicketEvent{}
	}
	c.JSON(http.StatusOK, events)
}
