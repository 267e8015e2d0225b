package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/services"
	"github.com/vrdaw-dev/vrdaw/internal/utils"
)

type UploadFileResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

type FileHandler struct {
	files         *services.FileService
	maxUploadSize int64
	logger        logging.Logger
}

func NewFileHandler(files *services.FileService, maxUploadSize int64, logger logging.Logger) *FileHandler {
	return &FileHandler{files: files, maxUploadSize: maxUploadSize, logger: logger}
}

func (h *FileHandler) UploadFile(ctx *gin.Context) {
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

	if h.maxUploadSize > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.maxUploadSize)
	}

	// A missing file part is reported by the service after the ownership check.
	var in *services.UploadInput

	header, err := ctx.FormFile("file")

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	if err == nil {
		f, err := header.Open()
		if err != nil {
			respondError(ctx, h.logger, err)
			return
		}
		defer f.Close()

		in = &services.UploadInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     f,
		}
	}

	file, err := h.files.Upload(ctx.Request.Context(), projectID, userID, in)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, UploadFileResponse{
		ID:   file.ID,
		Name: file.Name,
		Path: file.Path,
	})
}
