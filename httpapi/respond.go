package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hugecapital/content"
	"hugecapital/deal"
	"hugecapital/feedback"
	"hugecapital/funding"
	"hugecapital/lender"
	"hugecapital/task"
	"hugecapital/team"
)

// statusFor maps domain errors onto HTTP status codes. Anything
// unrecognized is treated as an internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lender.ErrValidation),
		errors.Is(err, lender.ErrInvalidCriteria),
		errors.Is(err, lender.ErrUnknownCategory),
		errors.Is(err, task.ErrInvalidTask),
		errors.Is(err, content.ErrInvalidDraft),
		errors.Is(err, deal.ErrInvalidDeal),
		errors.Is(err, feedback.ErrInvalidEntry):
		return http.StatusBadRequest
	case errors.Is(err, lender.ErrNotFound),
		errors.Is(err, task.ErrNotFound),
		errors.Is(err, content.ErrNotFound),
		errors.Is(err, deal.ErrNotFound),
		errors.Is(err, feedback.ErrNotFound),
		errors.Is(err, funding.ErrNotFound),
		errors.Is(err, team.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, lender.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, deal.ErrBadTransition),
		errors.Is(err, feedback.ErrBadStatus),
		errors.Is(err, content.ErrAlreadyPublished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
