package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/realtime"
	"github.com/vrdaw-dev/vrdaw/internal/services"
	"github.com/vrdaw-dev/vrdaw/internal/utils"
)

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateProjectResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type FileSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ProjectResponse struct {
	ID        uint          `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Files     []FileSummary `json:"files"`
}

type FileDetail struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

type CollaboratorResponse struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type ProjectDetailResponse struct {
	ID            uint                   `json:"id"`
	Name          string                 `json:"name"`
	OwnerID       uint                   `json:"owner_id"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Files         []FileDetail           `json:"files"`
	Collaborators []CollaboratorResponse `json:"collaborators"`
	Online        int                    `json:"online"`
}

type ProjectHandler struct {
	projects *services.ProjectService
	files    *services.FileService
	collabs  *services.CollaborationService
	hub      *realtime.Hub
	logger   logging.Logger
}

func NewProjectHandler(projects *services.ProjectService, files *services.FileService, collabs *services.CollaborationService, hub *realtime.Hub, logger logging.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, files: files, collabs: collabs, hub: hub, logger: logger}
}

func (h *ProjectHandler) CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := h.projects.Create(ctx.Request.Context(), userID, body.Name)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, CreateProjectResponse{
		ID:        project.ID,
		Name:      project.Name,
		CreatedAt: project.CreatedAt,
	})
}

func (h *ProjectHandler) ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := h.projects.ListForUser(ctx.Request.Context(), userID)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		files := make([]FileSummary, 0, len(project.Files))
		for _, f := range project.Files {
			files = append(files, FileSummary{ID: f.ID, Name: f.Name})
		}

		response = append(response, ProjectResponse{
			ID:        project.ID,
			Name:      project.Name,
			CreatedAt: project.CreatedAt,
			UpdatedAt: project.UpdatedAt,
			Files:     files,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// GetProject shows one project to its owner or collaborators, including who
// is currently connected to its event feed.
func (h *ProjectHandler) GetProject(ctx *gin.Context) {
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

	project, collabs, err := h.collabs.Roster(ctx.Request.Context(), projectID, userID)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	files, err := h.files.List(ctx.Request.Context(), projectID)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	response := ProjectDetailResponse{
		ID:            project.ID,
		Name:          project.Name,
		OwnerID:       project.OwnerID,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
		Files:         make([]FileDetail, 0, len(files)),
		Collaborators: make([]CollaboratorResponse, 0, len(collabs)),
		Online:        h.hub.Subscribers(projectID),
	}

	for _, f := range files {
		response.Files = append(response.Files, FileDetail{ID: f.ID, Name: f.Name, Path: f.Path, CreatedAt: f.CreatedAt})
	}

	for _, c := range collabs {
		response.Collaborators = append(response.Collaborators, CollaboratorResponse{
			UserID:   c.UserID,
			Username: c.User.Username,
			Role:     c.Role,
			JoinedAt: c.JoinedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}
