package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/validators"
)

type RoomCreator interface {
	CreateRoom(ctx context.Context) (string, error)
}

type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, email string, at time.Time) error
}

// IntegrationHandler keeps the two public endpoints the web client calls
// directly: room creation and the confirmation mail.
type IntegrationHandler struct {
	rooms RoomCreator
	mail  ConfirmationSender
	log   *zap.Logger
}

func NewIntegrationHandler(rooms RoomCreator, mail ConfirmationSender, log *zap.Logger) *IntegrationHandler {
	return &IntegrationHandler{
		rooms: rooms,
		mail:  mail,
		log:   log,
	}
}

type SendConfirmationRequest struct {
	Email string `json:"email" binding:"required"`
	Time  string `json:"time" binding:"required"`
}

func (h *IntegrationHandler) CreateRoom(c *gin.Context) {
	url, err := h.rooms.CreateRoom(c.Request.Context())
	if err != nil {
		h.log.Error("room creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Room creation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomUrl": url})
}

func (h *IntegrationHandler) SendConfirmation(c *gin.Context) {
	var req SendConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and time are required"})
		return
	}
	if !validators.IsEmailSyntaxValid(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	at, err := booking.ParseSlot(req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time"})
		return
	}

	if err := h.mail.SendConfirmation(c.Request.Context(), req.Email, at); err != nil {
		h.log.Error("confirmation email failed", zap.String("to", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
