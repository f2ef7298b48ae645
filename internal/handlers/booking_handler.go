package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/httpresp"
	"github.com/BruksfildServices01/auralynk/internal/middleware"
	ucBooking "github.com/BruksfildServices01/auralynk/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	request      *ucBooking.RequestBooking
	accept       *ucBooking.AcceptBooking
	reject       *ucBooking.RejectBooking
	cancel       *ucBooking.CancelBooking
	list         *ucBooking.ListBookings
	pendingCount *ucBooking.PendingCount
	session      *ucBooking.GetSession
	join         *ucBooking.JoinSession
	log          *zap.Logger
}

func NewBookingHandler(
	request *ucBooking.RequestBooking,
	accept *ucBooking.AcceptBooking,
	reject *ucBooking.RejectBooking,
	cancel *ucBooking.CancelBooking,
	list *ucBooking.ListBookings,
	pendingCount *ucBooking.PendingCount,
	session *ucBooking.GetSession,
	join *ucBooking.JoinSession,
	log *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		request:      request,
		accept:       accept,
		reject:       reject,
		cancel:       cancel,
		list:         list,
		pendingCount: pendingCount,
		session:      session,
		join:         join,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ReaderID     string `json:"readerId" binding:"required"`
	SelectedTime string `json:"selectedTime" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "readerId and selectedTime are required.")
		return
	}

	b, err := h.request.Execute(c.Request.Context(), ucBooking.RequestBookingInput{
		ClientID:     middleware.UserID(c),
		ReaderID:     req.ReaderID,
		SelectedTime: req.SelectedTime,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *BookingHandler) Accept(c *gin.Context) {
	b, err := h.accept.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Reject(c *gin.Context) {
	b, err := h.reject.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.NoContent(c)
}

// ======================================================
// LISTINGS
// ======================================================

func (h *BookingHandler) ListMine(c *gin.Context) {
	view := ucBooking.View(c.DefaultQuery("view", string(ucBooking.ViewUpcoming)))

	items, err := h.list.Execute(c.Request.Context(), middleware.UserID(c), view)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, items)
}

func (h *BookingHandler) PendingCount(c *gin.Context) {
	n, err := h.pendingCount.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// ======================================================
// SESSION
// ======================================================

func (h *BookingHandler) Session(c *gin.Context) {
	view, err := h.session.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, view)
}

func (h *BookingHandler) JoinRoom(c *gin.Context) {
	view, err := h.join.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, view)
}
