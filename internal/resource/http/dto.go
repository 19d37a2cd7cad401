package http

import (
	"time"

	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/coworking-booking-backend/internal/resource"
)

type ResourceResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Kind      string    `json:"kind"`
	KindLabel string    `json:"kind_label"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Kind:      string(r.Kind),
		KindLabel: r.Kind.Label(),
		CreatedAt: r.CreatedAt,
	}
}

// ListResourcesRequest defines query parameters for listing resources.
type ListResourcesRequest struct {
	request.ListParams
	Kind string `form:"kind"`
}

type CreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity *int   `json:"capacity" binding:"required,min=0"`
	Kind     string `json:"kind" binding:"required"`
}

type UpdateRequest struct {
	Name     *string `json:"name" binding:"omitempty"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=0"`
	Kind     *string `json:"kind" binding:"omitempty"`
}
