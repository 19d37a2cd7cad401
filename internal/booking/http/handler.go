package http

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/coworking-booking-backend/internal/auth"
	"github.com/nekogravitycat/coworking-booking-backend/internal/booking"
	"github.com/nekogravitycat/coworking-booking-backend/internal/metrics"
	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/response"
	resHttp "github.com/nekogravitycat/coworking-booking-backend/internal/resource/http"
	"github.com/nekogravitycat/coworking-booking-backend/internal/user"
)

type Handler struct {
	service     booking.Service
	userService user.Service
}

func NewHandler(service booking.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

// isAdmin re-reads the caller so a revoked admin flag takes effect immediately.
func (h *Handler) isAdmin(c *gin.Context) bool {
	u, err := h.userService.GetByID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		return false
	}
	return u.IsAdmin
}

func (h *Handler) canAccess(c *gin.Context, b *booking.Booking) bool {
	return b.UserID == auth.GetUserID(c) || h.isAdmin(c)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := apperror.KindOf(err); ok {
		return string(kind)
	}
	return "error"
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	// Non-admins only ever see their own bookings.
	if !h.isAdmin(c) {
		req.UserID = auth.GetUserID(c)
	}

	ctx := c.Request.Context()
	var (
		bookings []*booking.Booking
		err      error
	)
	switch {
	case req.Date != "":
		day, _ := time.Parse(dateLayout, req.Date)
		bookings, err = h.service.ListByDate(ctx, day)
	case req.ResourceID != 0:
		bookings, err = h.service.ListByResource(ctx, req.ResourceID)
	case req.UserID != 0:
		bookings, err = h.service.ListByUser(ctx, req.UserID)
	default:
		bookings, err = h.service.ListAll(ctx)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings = slices.DeleteFunc(bookings, func(b *booking.Booking) bool {
		return (req.UserID != 0 && b.UserID != req.UserID) ||
			(req.ResourceID != 0 && b.ResourceID != req.ResourceID)
	})

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		UserID:     auth.GetUserID(c),
		ResourceID: body.ResourceID,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
	})
	metrics.RecordBookingOperation("create", outcome(err))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.canAccess(c, b) {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.canAccess(c, existing) {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}

	next := *existing
	if body.ResourceID != nil {
		next.ResourceID = *body.ResourceID
	}
	if body.StartTime != nil {
		next.StartTime = *body.StartTime
	}
	if body.EndTime != nil {
		next.EndTime = *body.EndTime
	}

	b, err := h.service.Update(c.Request.Context(), &next)
	metrics.RecordBookingOperation("update", outcome(err))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Delete cancels a booking. Deleting a booking that is already gone returns 204.
func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if errors.Is(err, booking.ErrNotFound) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.canAccess(c, existing) {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}

	err = h.service.Cancel(c.Request.Context(), uri.ID)
	metrics.RecordBookingOperation("cancel", outcome(err))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ResourceSlots(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q SlotsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), uri.ID, q.Day(), q.Duration)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": NewSlotResponses(slots)})
}

func (h *Handler) AllSlots(c *gin.Context) {
	var q SlotsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	slots, err := h.service.AvailableSlotsAll(c.Request.Context(), q.Day(), q.Duration)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": NewSlotResponses(slots)})
}

func (h *Handler) AvailableResources(c *gin.Context) {
	var q AvailableResourcesRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	resources, err := h.service.AvailableResources(c.Request.Context(), q.Start, q.End)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]resHttp.ResourceResponse, len(resources))
	for i, r := range resources {
		items[i] = resHttp.NewResponse(r)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
