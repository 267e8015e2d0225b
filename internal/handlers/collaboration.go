package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/services"
	"github.com/vrdaw-dev/vrdaw/internal/utils"
)

type InviteRequest struct {
	Username string `json:"username" binding:"required"`
	Role     string `json:"role"`
}

type CollaborationHandler struct {
	collabs *services.CollaborationService
	logger  logging.Logger
}

func NewCollaborationHandler(collabs *services.CollaborationService, logger logging.Logger) *CollaborationHandler {
	return &CollaborationHandler{collabs: collabs, logger: logger}
}

func (h *CollaborationHandler) StartCollaboration(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	session, err := h.collabs.Start(ctx.Request.Context(), projectID, userID)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"role":       session.Role,
	})
}

func (h *CollaborationHandler) InviteCollaborator(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body InviteRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	res, err := h.collabs.Invite(ctx.Request.Context(), projectID, userID, body.Username, body.Role)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User %s invited", res.Invitee.Username),
		"role":    res.Collaboration.Role,
	})
}
