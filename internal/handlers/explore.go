package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semillitas/semillitas-backend/internal/services"
)

type ExploreHandler struct {
	exploreService services.ExploreService
}

func NewExploreHandler(exploreService services.ExploreService) *ExploreHandler {
	return &ExploreHandler{exploreService: exploreService}
}

func (eh *ExploreHandler) GetFeed(c *gin.Context) {
	var childID *uuid.UUID
	if raw := c.Query("child_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_child_id", err)
			return
		}
		childID = &parsed
	}
	feed, err := eh.exploreService.GetFeed(c.Request.Context(), childID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, feed)
}

func (eh *ExploreHandler) ToggleBookmark(c *gin.Context) {
	articleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookmarked, err := eh.exploreService.ToggleBookmark(c.Request.Context(), articleID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"bookmarked": bookmarked})
}

func (eh *ExploreHandler) OpenArticle(c *gin.Context) {
	articleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := eh.exploreService.OpenArticle(c.Request.Context(), articleID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"opened": true})
}

func (eh *ExploreHandler) MarkRead(c *gin.Context) {
	articleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.MarkReadInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := eh.exploreService.MarkRead(c.Request.Context(), articleID, req); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": true})
}
