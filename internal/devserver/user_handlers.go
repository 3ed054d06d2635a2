package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkiv-dev/arkiv/internal/auth"
	"github.com/arkiv-dev/arkiv/internal/models"
)

// CreateUserRequest represents an admin creating an account
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(c, http.StatusOK, users)
}

func (s *Server) createUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}
	if role != models.RoleAdmin && role != models.RoleStaff {
		respondValidation(c, "validation failed", map[string][]string{
			"role": {"role must be admin or staff"},
		})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}

	if err := s.db.Create(user).Error; err != nil {
		respondValidation(c, "validation failed", map[string][]string{
			"email": {"email is already taken"},
		})
		return
	}

	sessionData, _ := GetSessionData(c)
	s.recordActivity(c, sessionData.UserID, "", "user_create", "Created account "+user.Email)

	respondOK(c, http.StatusCreated, user)
}

func (s *Server) deleteUser(c *gin.Context) {
	sessionData, _ := GetSessionData(c)
	if c.Param("id") == sessionData.UserID {
		respondError(c, http.StatusConflict, "You cannot delete your own account")
		return
	}

	var user models.User
	if err := models.FindByID(s.db, c.Param("id"), &user); err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := s.db.Delete(&user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete user")
		respondError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	s.recordActivity(c, sessionData.UserID, "", "user_delete", "Deleted account "+user.Email)

	respondOK(c, http.StatusOK, gin.H{"message": "User deleted"})
}
