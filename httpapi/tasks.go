package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hugecapital/task"
)

type TaskHandler struct {
	service *task.Service
}

func NewTaskHandler(service *task.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.service.List(c.Request.Context(), task.Filters{
		Status:     task.Status(c.Query("status")),
		AssigneeID: c.Query("assignee_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

type createTaskBody struct {
	Title      string     `json:"title"`
	Notes      string     `json:"notes"`
	Priority   string     `json:"priority"`
	AssigneeID string     `json:"assignee_id"`
	DueDate    *time.Time `json:"due_date"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var body createTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	t, err := h.service.Create(c.Request.Context(), task.CreateRequest{
		Title:      body.Title,
		Notes:      body.Notes,
		Priority:   task.Priority(body.Priority),
		AssigneeID: body.AssigneeID,
		DueDate:    body.DueDate,
		Actor:      actorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

type updateTaskBody struct {
	Title      *string    `json:"title"`
	Notes      *string    `json:"notes"`
	Status     *string    `json:"status"`
	Priority   *string    `json:"priority"`
	AssigneeID *string    `json:"assignee_id"`
	DueDate    *time.Time `json:"due_date"`
	ClearDue   bool       `json:"clear_due"`
}

func (h *TaskHandler) Update(c *gin.Context) {
	var body updateTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	req := task.UpdateRequest{
		Title:      body.Title,
		Notes:      body.Notes,
		AssigneeID: body.AssigneeID,
		DueDate:    body.DueDate,
		ClearDue:   body.ClearDue,
	}
	if body.Status != nil {
		status := task.Status(*body.Status)
		req.Status = &status
	}
	if body.Priority != nil {
		priority := task.Priority(*body.Priority)
		req.Priority = &priority
	}

	t, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
