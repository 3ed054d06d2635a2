package devserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arkiv-dev/arkiv/internal/models"
)

const activityPerPage = 25

func (s *Server) listActivityLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	query := s.db.Model(&models.ActivityLog{})
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count activity logs")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var logs []models.ActivityLog
	if err := query.
		Preload("User").
		Preload("Document").
		Order("created_at DESC").
		Limit(activityPerPage).
		Offset((page - 1) * activityPerPage).
		Find(&logs).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list activity logs")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondPage(c, logs, makePagination(page, activityPerPage, int(total), len(logs)))
}

// recordActivity writes one audit trail entry. Failures are logged and
// never surface to the request that triggered them.
func (s *Server) recordActivity(c *gin.Context, userID, documentID, action, description string) {
	entry := &models.ActivityLog{
		UserID:      userID,
		DocumentID:  documentID,
		Action:      action,
		Description: description,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}
	if err := s.db.Create(entry).Error; err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("Failed to record activity")
	}
}

// notifyAdmins creates a notification for every active admin except the
// user who caused it.
func (s *Server) notifyAdmins(excludeUserID, title, message string) {
	var admins []models.User
	if err := s.db.Where("role = ? AND is_active = ? AND id != ?",
		models.RoleAdmin, true, excludeUserID).Find(&admins).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load admins for notification")
		return
	}

	for _, admin := range admins {
		n := &models.Notification{
			UserID:  admin.ID,
			Title:   title,
			Message: message,
		}
		if err := s.db.Create(n).Error; err != nil {
			s.logger.Error().Err(err).Str("user_id", admin.ID).Msg("Failed to create notification")
		}
	}
}
