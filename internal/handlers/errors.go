package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/auralynk/internal/httperr"
)

type errorInfo struct {
	status  int
	message string
}

var businessErrors = map[string]errorInfo{
	"invalid_request":      {http.StatusBadRequest, "Invalid request."},
	"invalid_slot":         {http.StatusBadRequest, "Invalid time slot."},
	"slot_in_past":         {http.StatusBadRequest, "This time slot is in the past."},
	"cannot_book_self":     {http.StatusBadRequest, "You cannot book yourself."},
	"invalid_email":        {http.StatusBadRequest, "Invalid email address."},
	"invalid_display_name": {http.StatusBadRequest, "Invalid display name."},
	"invalid_view":         {http.StatusBadRequest, "Unknown bookings view."},
	"invalid_image":        {http.StatusBadRequest, "Unsupported image."},

	"forbidden":    {http.StatusForbidden, "You are not allowed to do this."},
	"not_a_reader": {http.StatusForbidden, "Only readers can do this."},

	"reader_not_found":  {http.StatusNotFound, "Reader not found."},
	"booking_not_found": {http.StatusNotFound, "Booking not found."},
	"user_not_found":    {http.StatusNotFound, "User not found."},

	"slot_unavailable":     {http.StatusConflict, "This time slot is no longer available."},
	"slot_already_booked":  {http.StatusConflict, "This time slot is already booked."},
	"invalid_state":        {http.StatusConflict, "The booking can no longer change this way."},
	"booking_not_accepted": {http.StatusConflict, "The booking has not been accepted."},

	"room_provision_failed": {http.StatusBadGateway, "Could not create the video room."},
	"avatars_disabled":      {http.StatusServiceUnavailable, "Avatar uploads are disabled."},
}

// writeError renders business errors with their status and hides
// everything else behind a logged 500.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	if code, ok := httperr.BusinessCode(err); ok {
		info, known := businessErrors[code]
		if !known {
			info = errorInfo{http.StatusBadRequest, code}
		}
		httperr.Write(c, info.status, code, info.message)
		return
	}

	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	httperr.Internal(c, "internal_error", "An unexpected error occurred.")
}
