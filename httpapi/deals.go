package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hugecapital/deal"
)

type DealHandler struct {
	service *deal.Service
}

func NewDealHandler(service *deal.Service) *DealHandler {
	return &DealHandler{service: service}
}

func (h *DealHandler) List(c *gin.Context) {
	deals, err := h.service.List(c.Request.Context(), deal.Stage(c.Query("stage")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deals": deals})
}

type createDealBody struct {
	BusinessName    string `json:"business_name"`
	LenderCategory  string `json:"lender_category"`
	LenderID        string `json:"lender_id"`
	RequestedAmount int64  `json:"requested_amount_cents"`
}

func (h *DealHandler) Create(c *gin.Context) {
	var body createDealBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	d, err := h.service.Create(c.Request.Context(), deal.CreateRequest{
		BusinessName:    body.BusinessName,
		LenderCategory:  body.LenderCategory,
		LenderID:        body.LenderID,
		RequestedAmount: body.RequestedAmount,
		Actor:           actorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

type transitionBody struct {
	Stage        string `json:"stage"`
	Note         string `json:"note"`
	FundedAmount *int64 `json:"funded_amount_cents"`
	Commission   *int64 `json:"commission_cents"`
}

func (h *DealHandler) Transition(c *gin.Context) {
	var body transitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	d, err := h.service.Transition(c.Request.Context(), deal.TransitionParams{
		DealID:       c.Param("id"),
		NextStage:    deal.Stage(body.Stage),
		ActorID:      actorID(c),
		Note:         body.Note,
		FundedAmount: body.FundedAmount,
		Commission:   body.Commission,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DealHandler) Timeline(c *gin.Context) {
	events, err := h.service.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
