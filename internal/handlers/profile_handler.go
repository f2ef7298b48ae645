package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/profile"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/httpresp"
	"github.com/BruksfildServices01/auralynk/internal/imaging"
	"github.com/BruksfildServices01/auralynk/internal/middleware"
	ucProfile "github.com/BruksfildServices01/auralynk/internal/usecase/profile"
)

type ProfileHandler struct {
	get      *ucProfile.GetProfile
	save     *ucProfile.SaveProfile
	setSlots *ucProfile.SetSlots
	avatar   *ucProfile.UploadAvatar
	log      *zap.Logger
}

func NewProfileHandler(
	get *ucProfile.GetProfile,
	save *ucProfile.SaveProfile,
	setSlots *ucProfile.SetSlots,
	avatar *ucProfile.UploadAvatar,
	log *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		get:      get,
		save:     save,
		setSlots: setSlots,
		avatar:   avatar,
		log:      log,
	}
}

type SetSlotsRequest struct {
	AvailableSlots []string `json:"availableSlots"`
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	u, err := h.get.Execute(
		c.Request.Context(),
		middleware.UserID(c),
		middleware.UserEmail(c),
		middleware.UserRole(c),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var patch domain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid profile payload.")
		return
	}

	u, err := h.save.Execute(
		c.Request.Context(),
		middleware.UserID(c),
		middleware.UserEmail(c),
		middleware.UserRole(c),
		patch,
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *ProfileHandler) PutSlots(c *gin.Context) {
	var req SetSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "availableSlots must be a list of timestamps.")
		return
	}

	slots, err := h.setSlots.Execute(c.Request.Context(), middleware.UserID(c), req.AvailableSlots)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, slots)
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Missing file.")
		return
	}
	if fh.Size > imaging.MaxUploadBytes {
		httperr.BadRequest(c, "invalid_image", "Image too large.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	defer f.Close()

	url, err := h.avatar.Execute(c.Request.Context(), middleware.UserID(c), f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"avatarUrl": url})
}
