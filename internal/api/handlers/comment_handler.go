package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/taskflow/internal/application"
	"github.com/linskybing/taskflow/internal/domain/comment"
)

type CommentHandler struct {
	svc *application.CommentService
}

func NewCommentHandler(svc *application.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// CreateComment godoc
// @Summary Comment on a ticket
// @Tags comments
// @Accept json
// @Produce json
// @Param comment body comment.CreateCommentDTO true "Comment"
// @Success 201 {object} comment.Comment
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 404 {object} response.ErrorResponse "Ticket or author not found"
// @Router /api/comments/ [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var input comment.CreateCommentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	cm, err := h.svc.CreateComment(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}
