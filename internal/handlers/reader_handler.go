package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/auralynk/internal/httpresp"
	ucBooking "github.com/BruksfildServices01/auralynk/internal/usecase/booking"
)

type ReaderHandler struct {
	feed         *ucBooking.ReaderFeed
	availability *ucBooking.GetAvailability
	log          *zap.Logger
}

func NewReaderHandler(
	feed *ucBooking.ReaderFeed,
	availability *ucBooking.GetAvailability,
	log *zap.Logger,
) *ReaderHandler {
	return &ReaderHandler{
		feed:         feed,
		availability: availability,
		log:          log,
	}
}

// Feed serves GET /api/readers?upcoming=true&group=day.
func (h *ReaderHandler) Feed(c *gin.Context) {
	opts := ucBooking.FeedOptions{
		Upcoming:   c.DefaultQuery("upcoming", "true") != "false",
		GroupByDay: c.Query("group") == "day",
	}

	cards, err := h.feed.Execute(c.Request.Context(), opts)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, cards)
}

func (h *ReaderHandler) Availability(c *gin.Context) {
	slots, err := h.availability.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, slots)
}
