package devserver

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/arkiv-dev/arkiv/internal/models"
)

const documentsPerPage = 15

func (s *Server) listDocuments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	query := s.db.Model(&models.Document{}).Where("status != ?", models.StatusDeleted)

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR document_number LIKE ?", like, like)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count documents")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var documents []models.Document
	if err := query.
		Preload("Category").
		Preload("Uploader").
		Order("created_at DESC").
		Offset((page - 1) * documentsPerPage).
		Limit(documentsPerPage).
		Find(&documents).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list documents")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondPage(c, documents, makePagination(page, documentsPerPage, int(total), len(documents)))
}

func (s *Server) getDocument(c *gin.Context) {
	var doc models.Document
	err := s.db.Preload("Category").Preload("Uploader").
		Where("id = ? AND status != ?", c.Param("id"), models.StatusDeleted).
		First(&doc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Document not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find document")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(c, http.StatusOK, doc)
}

// uploadForm carries the metadata fields of a document upload.
type uploadForm struct {
	Title        string `form:"title" validate:"required"`
	CategoryID   string `form:"category_id" validate:"required"`
	DocumentDate string `form:"document_date" validate:"omitempty,datetime=2006-01-02"`
}

func (s *Server) uploadDocument(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	form := uploadForm{
		Title:        c.PostForm("title"),
		CategoryID:   c.PostForm("category_id"),
		DocumentDate: c.PostForm("document_date"),
	}

	fields := map[string][]string{}
	if err := s.validator.Struct(&form); err != nil {
		fields = validationFields(err)
	}
	if form.CategoryID != "" && fields["category_id"] == nil {
		var category models.Category
		if err := models.FindByID(s.db, form.CategoryID, &category); err != nil {
			fields["category_id"] = []string{"unknown category"}
		}
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		fields["file"] = []string{"file is required"}
	}

	if len(fields) > 0 {
		respondValidation(c, "validation failed", fields)
		return
	}

	doc := &models.Document{
		Title:          form.Title,
		Description:    c.PostForm("description"),
		FileName:       filepath.Base(fileHeader.Filename),
		FileType:       fileHeader.Header.Get("Content-Type"),
		FileSize:       fileHeader.Size,
		DocumentNumber: models.GenerateDocumentNumber(),
		DocumentDate:   form.DocumentDate,
		CategoryID:     form.CategoryID,
		UploadedByID:   sessionData.UserID,
		Status:         models.StatusActive,
	}

	// Store under an opaque name so uploads can never collide or escape
	// the storage directory.
	storedName := ulid.Make().String() + filepath.Ext(doc.FileName)
	doc.FilePath = filepath.Join(s.config.Storage.Dir, storedName)

	if err := c.SaveUploadedFile(fileHeader, doc.FilePath); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store uploaded file")
		respondError(c, http.StatusInternalServerError, "Failed to store file")
		return
	}

	if err := s.db.Create(doc).Error; err != nil {
		os.Remove(doc.FilePath)
		s.logger.Error().Err(err).Msg("Failed to create document")
		respondError(c, http.StatusInternalServerError, "Failed to create document")
		return
	}

	s.recordActivity(c, sessionData.UserID, doc.ID, "upload",
		fmt.Sprintf("Uploaded document %s", doc.DocumentNumber))
	s.notifyAdmins(sessionData.UserID, "New document",
		fmt.Sprintf("%s uploaded %q", sessionData.Email, doc.Title))

	respondOK(c, http.StatusCreated, doc)
}

// UpdateDocumentRequest carries metadata changes. Nil fields are unchanged.
type UpdateDocumentRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	CategoryID   *string `json:"category_id"`
	DocumentDate *string `json:"document_date"`
	Status       *string `json:"status"`
}

func (s *Server) updateDocument(c *gin.Context) {
	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var doc models.Document
	if err := models.FindByID(s.db, c.Param("id"), &doc); err != nil {
		respondError(c, http.StatusNotFound, "Document not found")
		return
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := models.FindByID(s.db, *req.CategoryID, &category); err != nil {
			respondValidation(c, "validation failed", map[string][]string{
				"category_id": {"unknown category"},
			})
			return
		}
		doc.CategoryID = *req.CategoryID
	}
	if req.DocumentDate != nil {
		doc.DocumentDate = *req.DocumentDate
	}
	if req.Status != nil {
		switch *req.Status {
		case models.StatusActive, models.StatusArchived:
			doc.Status = *req.Status
		default:
			respondValidation(c, "validation failed", map[string][]string{
				"status": {"status must be active or archived"},
			})
			return
		}
	}

	if err := s.db.Save(&doc).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update document")
		respondError(c, http.StatusInternalServerError, "Failed to update document")
		return
	}

	sessionData, _ := GetSessionData(c)
	s.recordActivity(c, sessionData.UserID, doc.ID, "update",
		fmt.Sprintf("Updated document %s", doc.DocumentNumber))

	respondOK(c, http.StatusOK, doc)
}

// deleteDocument soft-deletes the record and removes the stored file.
func (s *Server) deleteDocument(c *gin.Context) {
	var doc models.Document
	if err := models.FindByID(s.db, c.Param("id"), &doc); err != nil {
		respondError(c, http.StatusNotFound, "Document not found")
		return
	}

	doc.Status = models.StatusDeleted
	if err := s.db.Save(&doc).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete document")
		respondError(c, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", doc.FilePath).Msg("Failed to remove stored file")
		}
	}

	sessionData, _ := GetSessionData(c)
	s.recordActivity(c, sessionData.UserID, doc.ID, "delete",
		fmt.Sprintf("Deleted document %s", doc.DocumentNumber))

	respondOK(c, http.StatusOK, gin.H{"message": "Document deleted"})
}

func (s *Server) downloadDocument(c *gin.Context) {
	var doc models.Document
	err := s.db.Where("id = ? AND status != ?", c.Param("id"), models.StatusDeleted).First(&doc).Error
	if err != nil {
		respondError(c, http.StatusNotFound, "Document not found")
		return
	}

	if _, err := os.Stat(doc.FilePath); err != nil {
		s.logger.Error().Err(err).Str("path", doc.FilePath).Msg("Stored file missing")
		respondError(c, http.StatusNotFound, "Stored file missing")
		return
	}

	sessionData, _ := GetSessionData(c)
	s.recordActivity(c, sessionData.UserID, doc.ID, "download",
		fmt.Sprintf("Downloaded document %s", doc.DocumentNumber))

	c.FileAttachment(doc.FilePath, doc.FileName)
}
