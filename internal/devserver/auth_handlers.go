package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arkiv-dev/arkiv/internal/auth"
	"github.com/arkiv-dev/arkiv/internal/models"
)

// LoginRequest represents a login request. Identifier matches either the
// account email or the account name.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := s.db.Where("email = ? OR name = ?", req.Identifier, req.Identifier).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive {
		respondError(c, http.StatusUnauthorized, "Account disabled")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.recordActivity(c, user.ID, "", "login", "User logged in")
	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User logged in")

	respondOK(c, http.StatusOK, LoginResponse{Token: token, User: &user})
}

// register creates a new account. The very first account becomes the admin;
// everyone after that is staff. No token is issued: the client is expected
// to log in next.
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count users")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	role := models.RoleStaff
	if count == 0 {
		role = models.RoleAdmin
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
		respondValidation(c, "registration failed", map[string][]string{
			"email": {"email is already taken"},
		})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Str("role", role).Msg("Account registered")

	respondOK(c, http.StatusCreated, user)
}

func (s *Server) getCurrentUser(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := s.db.Where("id = ?", sessionData.UserID).First(&user).Error; err != nil {
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to find user")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(c, http.StatusOK, user)
}

// logout records the event. Tokens are stateless, so there is nothing to
// revoke server-side; the client discards its credential regardless.
func (s *Server) logout(c *gin.Context) {
	if sessionData, exists := GetSessionData(c); exists {
		s.recordActivity(c, sessionData.UserID, "", "logout", "User logged out")
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Logged out"})
}
