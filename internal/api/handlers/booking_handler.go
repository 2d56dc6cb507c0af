package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hamsafar/internal/api/middleware"
	"hamsafar/internal/receipt"
	"hamsafar/internal/services"
)

type BookingHandler struct {
	bookingService *services.BookingService
	tipsService    *services.TipsService
	receipts       *receipt.Renderer
	loc            *time.Location
	logger         *zap.Logger
}

func NewBookingHandler(
	bookingService *services.BookingService,
	tipsService *services.TipsService,
	receipts *receipt.Renderer,
	loc *time.Location,
	logger *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		tipsService:    tipsService,
		receipts:       receipts,
		loc:            loc,
		logger:         logger,
	}
}

// Availability handles GET /availability
func (h *BookingHandler) Availability(c *gin.Context) {
	c.JSON(http.StatusOK, h.bookingService.Availability())
}

// Tips handles GET /tips?from=&to=
// An empty tip is a normal answer, not an error.
func (h *BookingHandler) Tips(c *gin.Context) {
	tips := h.tipsService.Tips(c.Request.Context(), c.Query("from"), c.Query("to"))
	c.JSON(http.StatusOK, gin.H{"tips": tips})
}

// NewDraft handles GET /bookings/draft
func (h *BookingHandler) NewDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.bookingService.NewDraft())
}

// UrgentSlots handles GET /bookings/urgent-slots
func (h *BookingHandler) UrgentSlots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": h.bookingService.UrgentSlots()})
}

// Submit handles POST /bookings
func (h *BookingHandler) Submit(c *gin.Context) {
	var draft services.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.bookingService.Submit(c.Request.Context(), middleware.GetUser(c), draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if result.Outcome == services.OutcomeNeedsUrgentSlot {
		c.JSON(http.StatusConflict, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Mine handles GET /bookings/mine
func (h *BookingHandler) Mine(c *gin.Context) {
	bookings, err := h.bookingService.ListForUser(c.Request.Context(), middleware.GetUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Receipt handles GET /bookings/:id/receipt
func (h *BookingHandler) Receipt(c *gin.Context) {
	booking, err := h.bookingService.GetForViewer(c.Request.Context(), middleware.GetUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	pdf, filename, err := h.receipts.Render(booking, h.loc)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
