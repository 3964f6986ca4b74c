package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timberbid/internal/repository"
)

type NotificationHandler struct {
	Repo repository.Repository
}

func (h *NotificationHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/notifications")
	group.GET("", h.list)
	group.GET("/unread-count", h.unreadCount)
	group.POST("/:id/read", h.markRead)
}

func (h *NotificationHandler) list(c *gin.Context) {
	user := callerID(c)
	if user == "" {
		Error(c, http.StatusUnauthorized, "missing caller identity", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	items, err := h.Repo.ListNotifications(c.Request.Context(), repository.ListNotificationsParams{
		Limit:      limit,
		Offset:     offset,
		UserID:     user,
		UnreadOnly: c.Query("unread") == "true",
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, "notification list failed", nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, int64(len(items))))
}

func (h *NotificationHandler) unreadCount(c *gin.Context) {
	user := callerID(c)
	if user == "" {
		Error(c, http.StatusUnauthorized, "missing caller identity", nil)
		return
	}
	total, err := h.Repo.CountUnreadNotifications(c.Request.Context(), user)
	if err != nil {
		Error(c, http.StatusInternalServerError, "unread count failed", nil)
		return
	}
	Ok(c, gin.H{"unread": total}, nil)
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	user := callerID(c)
	if user == "" {
		Error(c, http.StatusUnauthorized, "missing caller identity", nil)
		return
	}
	done, err := h.Repo.MarkNotificationRead(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		Error(c, http.StatusInternalServerError, "mark read failed", nil)
		return
	}
	if !done {
		Error(c, http.StatusNotFound, "notification not found", nil)
		return
	}
	Ok(c, gin.H{"read": true}, nil)
}
