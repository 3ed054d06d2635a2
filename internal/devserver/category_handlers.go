package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkiv-dev/arkiv/internal/models"
)

// CategoryRequest represents a category create/update request
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
}

func (s *Server) listCategories(c *gin.Context) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list categories")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(c, http.StatusOK, categories)
}

func (s *Server) createCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.ParentID != "" {
		var parent models.Category
		if err := models.FindByID(s.db, req.ParentID, &parent); err != nil {
			respondValidation(c, "validation failed", map[string][]string{
				"parent_id": {"unknown parent category"},
			})
			return
		}
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        models.Slugify(req.Name),
		Description: req.Description,
		ParentID:    req.ParentID,
	}

	if err := s.db.Create(category).Error; err != nil {
		respondValidation(c, "validation failed", map[string][]string{
			"name": {"a category with this name already exists"},
		})
		return
	}

	sessionData, _ := GetSessionData(c)
	s.recordActivity(c, sessionData.UserID, "", "category_create", "Created category "+category.Name)

	respondOK(c, http.StatusCreated, category)
}

func (s *Server) updateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var category models.Category
	if err := models.FindByID(s.db, c.Param("id"), &category); err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	category.Name = req.Name
	category.Slug = models.Slugify(req.Name)
	category.Description = req.Description
	category.ParentID = req.ParentID

	if err := s.db.Save(&category).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update category")
		respondError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	respondOK(c, http.StatusOK, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	var category models.Category
	if err := models.FindByID(s.db, c.Param("id"), &category); err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	// A category with documents cannot be removed.
	var count int64
	if err := s.db.Model(&models.Document{}).
		Where("category_id = ? AND status != ?", category.ID, models.StatusDeleted).
		Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count documents")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "Category still has documents")
		return
	}

	if err := s.db.Delete(&category).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete category")
		respondError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	sessionData, _ := GetSessionData(c)
	s.recordActivity(c, sessionData.UserID, "", "category_delete", "Deleted category "+category.Name)

	respondOK(c, http.StatusOK, gin.H{"message": "Category deleted"})
}
