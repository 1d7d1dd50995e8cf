package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hugecapital/funding"
)

type FundingHandler struct {
	service *funding.Service
}

func NewFundingHandler(service *funding.Service) *FundingHandler {
	return &FundingHandler{service: service}
}

func (h *FundingHandler) ListRecaps(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	recaps, err := h.service.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recaps": recaps})
}

func (h *FundingHandler) CurrentWeek(c *gin.Context) {
	recap, err := h.service.CurrentWeek(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recap)
}

type snapshotBody struct {
	At    *time.Time `json:"at"`
	Notes string     `json:"notes"`
}

func (h *FundingHandler) Snapshot(c *gin.Context) {
	var body snapshotBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	at := time.Now()
	if body.At != nil {
		at = *body.At
	}
	recap, err := h.service.SnapshotWeek(c.Request.Context(), at, body.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recap)
}
