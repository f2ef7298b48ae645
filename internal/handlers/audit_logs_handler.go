package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/middleware"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// AuditLogsHandler lists the audit trail of actions the caller performed.
type AuditLogsHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuditLogsHandler(db *gorm.DB, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	actorID := middleware.UserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	// --------------------------------------------------
	// Base query, always scoped to the caller
	// --------------------------------------------------
	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("actor_id = ?", actorID)

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	if entityID := c.Query("entityId"); entityID != "" {
		q = q.Where("entity_id = ?", entityID)
	}

	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		q = q.Where("created_at >= ?", from)
	}

	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		q = q.Where("created_at < ?", to.Add(24*time.Hour))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		h.log.Error("audit count failed", zap.Error(err))
		httperr.Internal(c, "audit_count_failed", "Could not count audit logs.")
		return
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		h.log.Error("audit list failed", zap.Error(err))
		httperr.Internal(c, "audit_list_failed", "Could not list audit logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
