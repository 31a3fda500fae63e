package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semillitas/semillitas-backend/internal/services"
)

type InviteHandler struct {
	inviteService services.InviteService
}

func NewInviteHandler(inviteService services.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

func (ih *InviteHandler) Create(c *gin.Context) {
	var req struct {
		ChildID string `json:"child_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	childID, err := uuid.Parse(req.ChildID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
		return
	}
	invite, err := ih.inviteService.Create(c.Request.Context(), childID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"invite": invite})
}

func (ih *InviteHandler) Preview(c *gin.Context) {
	preview, err := ih.inviteService.Preview(c.Request.Context(), c.Param("token"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"invite": preview})
}

func (ih *InviteHandler) Claim(c *gin.Context) {
	child, err := ih.inviteService.Claim(c.Request.Context(), c.Param("token"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"child": child})
}
