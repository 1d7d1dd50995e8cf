package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hugecapital/team"
)

type TeamHandler struct {
	service *team.Service
}

func NewTeamHandler(service *team.Service) *TeamHandler {
	return &TeamHandler{service: service}
}

func (h *TeamHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	profiles, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": profiles})
}

func (h *TeamHandler) Get(c *gin.Context) {
	profile, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
