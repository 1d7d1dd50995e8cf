package httpapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hugecapital/lender"
)

type LenderHandler struct {
	coordinator *lender.Coordinator
}

func NewLenderHandler(coordinator *lender.Coordinator) *LenderHandler {
	return &LenderHandler{coordinator: coordinator}
}

func (h *LenderHandler) Categories(c *gin.Context) {
	cats := lender.Categories()
	out := make([]gin.H, 0, len(cats))
	for _, cat := range cats {
		sch, err := lender.Lookup(cat)
		if err != nil {
			continue
		}
		fields := make([]gin.H, 0, len(sch.Fields))
		for _, f := range sch.Fields {
			field := gin.H{
				"name":     f.Name,
				"kind":     f.Kind,
				"required": f.Required,
			}
			if len(f.Enum) > 0 {
				field["enum"] = f.Enum
			}
			fields = append(fields, field)
		}
		out = append(out, gin.H{
			"category":       cat,
			"fields":         fields,
			"has_sort_order": sch.HasSortOrder,
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

func (h *LenderHandler) List(c *gin.Context) {
	criteria := criteriaFromQuery(c)
	seq, err := h.coordinator.Query(criteria)
	if err != nil {
		respondError(c, err)
		return
	}

	records := make([]gin.H, 0, 32)
	for rec := range seq {
		records = append(records, recordJSON(rec))
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "total": len(records)})
}

type lenderForm struct {
	Fields       map[string]string `json:"fields"`
	Status       string            `json:"status"`
	Relationship string            `json:"relationship"`
	SortOrder    int               `json:"sort_order"`
}

func (h *LenderHandler) Create(c *gin.Context) {
	category := lender.Category(c.Param("category"))

	var body lenderForm
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	rec, err := h.coordinator.Create(c.Request.Context(), category, lender.FormData{
		Fields:       body.Fields,
		Status:       lender.Status(body.Status),
		Relationship: lender.Relationship(body.Relationship),
		SortOrder:    body.SortOrder,
		Actor:        actorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recordJSON(rec))
}

type lenderUpdate struct {
	Fields       map[string]string `json:"fields"`
	Status       string            `json:"status"`
	Relationship string            `json:"relationship"`
	SortOrder    *int              `json:"sort_order"`
}

func (h *LenderHandler) Update(c *gin.Context) {
	var body lenderUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	rec, err := h.coordinator.Update(c.Request.Context(), c.Param("id"), lender.UpdateFields{
		Fields:       body.Fields,
		Status:       lender.Status(body.Status),
		Relationship: lender.Relationship(body.Relationship),
		SortOrder:    body.SortOrder,
		Actor:        actorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recordJSON(rec))
}

func (h *LenderHandler) Archive(c *gin.Context) {
	if err := h.coordinator.Archive(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LenderHandler) Refresh(c *gin.Context) {
	if err := h.coordinator.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": h.coordinator.Size()})
}

// Stream pushes view snapshots to the client as server-sent events
// until it disconnects.
func (h *LenderHandler) Stream(c *gin.Context) {
	sub, err := h.coordinator.Subscribe(criteriaFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer sub.Cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case view, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("view", viewJSON(view))
			return true
		}
	})
}

func criteriaFromQuery(c *gin.Context) lender.Criteria {
	return lender.Criteria{
		Category:     lender.Category(strings.TrimSpace(c.Query("category"))),
		Status:       lender.Status(strings.TrimSpace(c.Query("status"))),
		Relationship: lender.Relationship(strings.TrimSpace(c.Query("relationship"))),
		Text:         strings.TrimSpace(c.Query("q")),
	}
}

func recordJSON(rec lender.Record) gin.H {
	out := gin.H{
		"id":           rec.ID,
		"category":     rec.Category,
		"fields":       rec.Fields,
		"status":       rec.Status,
		"relationship": rec.Relationship,
		"created_at":   rec.CreatedAt,
		"updated_at":   rec.UpdatedAt,
	}
	if sch, err := lender.Lookup(rec.Category); err == nil && sch.HasSortOrder {
		out["sort_order"] = rec.SortOrder
	}
	if rec.CreatedBy != nil {
		out["created_by"] = *rec.CreatedBy
	}
	if rec.UpdatedBy != nil {
		out["updated_by"] = *rec.UpdatedBy
	}
	return out
}

func viewJSON(view lender.View) gin.H {
	out := gin.H{"loading": view.Loading}
	if view.Err != nil {
		out["error"] = view.Err.Error()
	}
	records := make([]gin.H, 0, len(view.Records))
	for _, rec := range view.Records {
		records = append(records, recordJSON(rec))
	}
	out["records"] = records
	return out
}
