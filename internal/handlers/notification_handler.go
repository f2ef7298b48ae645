package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/auralynk/internal/httpresp"
	"github.com/BruksfildServices01/auralynk/internal/middleware"
	ucNotification "github.com/BruksfildServices01/auralynk/internal/usecase/notification"
)

type NotificationHandler struct {
	list *ucNotification.ListNotifications
	log  *zap.Logger
}

func NewNotificationHandler(list *ucNotification.ListNotifications, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{list: list, log: log}
}

func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.list.Execute(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, items)
}
