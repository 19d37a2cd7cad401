package http

import (
	"time"

	"github.com/nekogravitycat/coworking-booking-backend/internal/booking"
)

const dateLayout = "2006-01-02"

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	UserID     int64  `form:"user_id" binding:"omitempty,min=1"`
	ResourceID int64  `form:"resource_id" binding:"omitempty,min=1"`
	Date       string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

type BookingResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ResourceID int64     `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
	}
}

type CreateBookingRequest struct {
	ResourceID int64     `json:"resource_id" binding:"required,min=1"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

// UpdateBookingRequest carries the fields to change; omitted fields keep their value.
type UpdateBookingRequest struct {
	ResourceID *int64     `json:"resource_id" binding:"omitempty,min=1"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
}

// SlotsRequest defines query parameters for slot lookups.
type SlotsRequest struct {
	Date     string `form:"date" binding:"required,datetime=2006-01-02"`
	Duration int    `form:"duration" binding:"required,halfhour,max=1440"`
}

// Day parses Date. Binding already checked the layout.
func (r SlotsRequest) Day() time.Time {
	d, _ := time.Parse(dateLayout, r.Date)
	return d
}

type AvailableResourcesRequest struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	End   time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

type SlotResponse struct {
	ResourceID int64     `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

func NewSlotResponses(slots []booking.TimeSlot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{ResourceID: s.ResourceID, StartTime: s.StartTime, EndTime: s.EndTime}
	}
	return out
}
