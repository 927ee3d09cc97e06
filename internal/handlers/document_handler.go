package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/torqride/rentals-api/internal/middleware"
	"github.com/torqride/rentals-api/internal/services"
	"github.com/torqride/rentals-api/internal/storage"
)

type DocumentHandler struct {
	documentService *services.DocumentService
	storage         *storage.LocalStorage
}

func NewDocumentHandler(documentService *services.DocumentService, store *storage.LocalStorage) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, storage: store}
}

// @Summary Upload Document
// @Description Upload a customer document for verification
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param user_id formData int true "Customer ID"
// @Param document_type formData string true "driving_licence or identity_proof"
// @Param file formData file true "Document file"
// @Success 201 {object} models.CustomerDocument
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.PostForm("user_id"), 10, 32)
	if userID == 0 {
		userID = uint64(middleware.GetUserID(c))
	}
	docType := c.PostForm("document_type")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a document file is required"})
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(c.Request.Context(), uint(userID), docType, file, header)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

// @Summary List User Documents
// @Tags Documents
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /users/{id}/documents [get]
func (h *DocumentHandler) ListForUser(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	docs, err := h.documentService.FindByUser(c.Request.Context(), uint(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// @Summary List Pending Documents
// @Description Get the documents awaiting review, oldest first
// @Tags Documents
// @Produce json
// @Param limit query int false "Max rows" default(50)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /documents/pending [get]
func (h *DocumentHandler) Pending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	docs, err := h.documentService.FindPending(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// @Summary Download Document
// @Description Stream the stored document file
// @Tags Documents
// @Produce application/octet-stream
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /documents/{id}/file [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	doc, err := h.documentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.storage.Exists(doc.FilePath) {
		c.JSON(http.StatusNotFound, gin.H{"error": "document file not found"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(doc.FilePath))
	c.File(h.storage.GetFullPath(doc.FilePath))
}

// @Summary Verify Document
// @Tags Documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} models.CustomerDocument
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{id}/verify [patch]
func (h *DocumentHandler) Verify(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	doc, err := h.documentService.Verify(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

type RejectDocumentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// @Summary Reject Document
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param request body RejectDocumentRequest true "Rejection reason"
// @Success 200 {object} models.CustomerDocument
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{id}/reject [patch]
func (h *DocumentHandler) Reject(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req RejectDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a rejection reason is required"})
		return
	}

	doc, err := h.documentService.Reject(c.Request.Context(), uint(id), middleware.GetUserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}
