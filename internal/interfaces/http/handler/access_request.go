package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/kudos/backend/internal/application/identity"
	"github.com/kudos/backend/internal/interfaces/http/dto"
	"github.com/kudos/backend/internal/interfaces/http/middleware"
)

// AccessRequestHandler handles pre-signup access requests
type AccessRequestHandler struct {
	BaseHandler
	accessRequestService *identityapp.AccessRequestService
}

// NewAccessRequestHandler creates a new access request handler
func NewAccessRequestHandler(accessRequestService *identityapp.AccessRequestService) *AccessRequestHandler {
	return &AccessRequestHandler{accessRequestService: accessRequestService}
}

// Submit files an access request for an address that is not yet a member
func (h *AccessRequestHandler) Submit(c *gin.Context) {
	var req dto.AccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	err := h.accessRequestService.Submit(c.Request.Context(), identityapp.SubmitAccessRequestInput{
		Email:  req.Email,
		Name:   req.Name,
		Reason: req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{"message": "Access request submitted"})
}
