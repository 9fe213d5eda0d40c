package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/service"
)

// FileHandler handles HTTP requests for project documents
type FileHandler struct {
	fileService *service.FileService
	logger      *zap.Logger
}

// NewFileHandler creates a new FileHandler instance
func NewFileHandler(fileService *service.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// List godoc
// @Summary List project files
// @Description Get the project's documents, optionally filtered by source
// @Tags Files
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param source query string false "Filter by source (client, exxata)"
// @Success 200 {array} domain.ProjectFileDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/files [get]
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	source := domain.FileSource(r.URL.Query().Get("source"))
	if source != "" && !source.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Invalid source. Valid values: client, exxata")
		return
	}

	files, err := h.fileService.List(r.Context(), projectID, source)
	if err != nil {
		h.handleFileError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// Upload godoc
// @Summary Upload a file
// @Description Store a document on the project; the source says which side supplied it
// @Tags Files
// @Accept mpfd
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param file formData file true "File to upload"
// @Param source formData string false "Document source (client, exxata)" default(exxata)
// @Success 201 {object} domain.ProjectFileDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 413 {object} domain.APIError "File too large"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/files [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.fileService.MaxUploadBytes())
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, "File exceeds the upload size limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing 'file' form field")
		return
	}
	defer file.Close()

	source := domain.FileSource(r.FormValue("source"))
	if source == "" {
		source = domain.FileSourceExxata
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	dto, err := h.fileService.Upload(r.Context(), projectID, header.Filename, contentType, source, file)
	if err != nil {
		h.handleFileError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// Download godoc
// @Summary Download a file
// @Tags Files
// @Produce application/octet-stream
// @Param id path string true "Project ID" format(uuid)
// @Param fileId path string true "File ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/files/{fileId}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	fileID, ok := parseUUIDParam(w, r, "fileId")
	if !ok {
		return
	}

	record, reader, err := h.fileService.Download(r.Context(), projectID, fileID)
	if err != nil {
		h.handleFileError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", record.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, record.Filename))
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("failed to stream file",
			zap.String("fileID", fileID.String()),
			zap.Error(err))
	}
}

// Delete godoc
// @Summary Delete a file
// @Tags Files
// @Param id path string true "Project ID" format(uuid)
// @Param fileId path string true "File ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/files/{fileId} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	fileID, ok := parseUUIDParam(w, r, "fileId")
	if !ok {
		return
	}

	if err := h.fileService.Delete(r.Context(), projectID, fileID); err != nil {
		h.handleFileError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// handleFileError maps service errors to HTTP status codes
func (h *FileHandler) handleFileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondWithError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrFileNotFound):
		respondWithError(w, http.StatusNotFound, "File not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.Error("file handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
