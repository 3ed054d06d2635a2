package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkiv-dev/arkiv/internal/models"
)

func (s *Server) listNotifications(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var notifications []models.Notification
	if err := s.db.Where("user_id = ?", sessionData.UserID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list notifications")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var unread int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", sessionData.UserID, false).
		Count(&unread).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count unread notifications")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func (s *Server) markNotificationRead(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var notification models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", c.Param("id"), sessionData.UserID).
		First(&notification).Error; err != nil {
		respondError(c, http.StatusNotFound, "Notification not found")
		return
	}

	if !notification.IsRead {
		notification.IsRead = true
		if err := s.db.Save(&notification).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to mark notification read")
			respondError(c, http.StatusInternalServerError, "Failed to update notification")
			return
		}
	}

	respondOK(c, http.StatusOK, notification)
}

func (s *Server) markAllNotificationsRead(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", sessionData.UserID, false).
		Update("is_read", true).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to mark notifications read")
		respondError(c, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
