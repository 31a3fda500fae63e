package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semillitas/semillitas-backend/internal/services"
)

type ChildHandler struct {
	childService services.ChildService
}

func NewChildHandler(childService services.ChildService) *ChildHandler {
	return &ChildHandler{childService: childService}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (ch *ChildHandler) Create(c *gin.Context) {
	var req services.CreateChildInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	child, err := ch.childService.CreateChild(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"child": child})
}

func (ch *ChildHandler) List(c *gin.Context) {
	children, err := ch.childService.ListChildren(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"children": children})
}

func (ch *ChildHandler) Get(c *gin.Context) {
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	child, err := ch.childService.GetChild(c.Request.Context(), childID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"child": child})
}

func (ch *ChildHandler) CreateObservation(c *gin.Context) {
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateObservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	obs, err := ch.childService.CreateObservation(c.Request.Context(), childID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"observation": obs})
}

func (ch *ChildHandler) ListObservations(c *gin.Context) {
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	observations, err := ch.childService.ListObservations(c.Request.Context(), childID, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"observations": observations})
}
