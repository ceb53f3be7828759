package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/summitcrest/realty/internal/application/services"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/pkg/errors"
)

// LeadSubmitter defines the public lead capture operation
type LeadSubmitter interface {
	Submit(ctx context.Context, in services.LeadInput) (*models.Lead, error)
}

// LeadHandler handles the contact form endpoint
type LeadHandler struct {
	svc LeadSubmitter
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(svc LeadSubmitter) *LeadHandler {
	return &LeadHandler{svc: svc}
}

// Submit handles POST /api/leads. Accepts JSON or a form post.
func (h *LeadHandler) Submit(c *gin.Context) {
	var in services.LeadInput
	if err := c.ShouldBind(&in); err != nil {
		RespondAppError(c, errors.NewValidationError("body", err.Error()))
		return
	}

	lead, err := h.svc.Submit(c.Request.Context(), in)
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		fieldMessage: "Thanks, we'll be in touch shortly",
		"id":         lead.ID,
	})
}
