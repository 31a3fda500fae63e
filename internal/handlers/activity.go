package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semillitas/semillitas-backend/internal/services"
)

type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (ah *ActivityHandler) GetFeed(c *gin.Context) {
	var childID *uuid.UUID
	if raw := c.Query("child_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
			return
		}
		childID = &parsed
	}
	feed, err := ah.activityService.GetFeed(c.Request.Context(), childID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, feed)
}

func (ah *ActivityHandler) Save(c *gin.Context) {
	activityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ah.activityService.Save(c.Request.Context(), activityID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": true})
}

func (ah *ActivityHandler) Unsave(c *gin.Context) {
	activityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ah.activityService.Unsave(c.Request.Context(), activityID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": false})
}

func (ah *ActivityHandler) Complete(c *gin.Context) {
	activityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CompleteActivityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := ah.activityService.Complete(c.Request.Context(), activityID, req); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"completed": true})
}
