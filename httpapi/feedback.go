package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hugecapital/feedback"
)

type FeedbackHandler struct {
	service *feedback.Service
}

func NewFeedbackHandler(service *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

func (h *FeedbackHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), feedback.Status(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type createFeedbackBody struct {
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (h *FeedbackHandler) Create(c *gin.Context) {
	var body createFeedbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	entry, err := h.service.Create(c.Request.Context(), feedback.Kind(body.Kind), body.Title, body.Detail, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *FeedbackHandler) Resolve(c *gin.Context) {
	entry, err := h.service.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
