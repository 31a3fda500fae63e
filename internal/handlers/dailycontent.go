package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semillitas/semillitas-backend/internal/services"
)

type DailyContentHandler struct {
	dailyContentService services.DailyContentService
}

func NewDailyContentHandler(dailyContentService services.DailyContentService) *DailyContentHandler {
	return &DailyContentHandler{dailyContentService: dailyContentService}
}

func (dh *DailyContentHandler) Get(c *gin.Context) {
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
	card, err := dh.dailyContentService.GetForChild(c.Request.Context(), childID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"daily_content": card})
}
