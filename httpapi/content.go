package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hugecapital/content"
)

type ContentHandler struct {
	service *content.Service
}

func NewContentHandler(service *content.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) List(c *gin.Context) {
	drafts, err := h.service.List(c.Request.Context(), content.Status(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

type createDraftBody struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Platform string `json:"platform"`
}

func (h *ContentHandler) Create(c *gin.Context) {
	var body createDraftBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	d, err := h.service.Create(c.Request.Context(), body.Title, body.Body, content.Platform(body.Platform), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

type scheduleBody struct {
	At time.Time `json:"at"`
}

func (h *ContentHandler) Schedule(c *gin.Context) {
	var body scheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	d, err := h.service.Schedule(c.Request.Context(), c.Param("id"), body.At)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ContentHandler) Publish(c *gin.Context) {
	d, err := h.service.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
