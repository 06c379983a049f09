package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	commentHttp "github.com/nekogravitycat/shareit-backend/internal/comment/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type ItemResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	RequestID   *string   `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
		CreatedAt:   it.CreatedAt,
	}
}

// NewItemResponses never returns nil so lists encode as [].
func NewItemResponses(items []*item.Item) []ItemResponse {
	resp := make([]ItemResponse, len(items))
	for i, it := range items {
		resp[i] = NewItemResponse(it)
	}
	return resp
}

// ItemDetailResponse is returned by GET /items/:id.
// The schedule is only filled for the owner; other viewers see whether they
// have finished a booking of the item.
type ItemDetailResponse struct {
	ItemResponse
	Comments            []commentHttp.CommentResponse `json:"comments"`
	LastBookingEnd      *time.Time                    `json:"last_booking_end,omitempty"`
	NextBookingStart    *time.Time                    `json:"next_booking_start,omitempty"`
	HasCompletedBooking *bool                         `json:"has_completed_booking,omitempty"`
}

func NewOwnerDetailResponse(it *item.Item, comments []*comment.Comment, s booking.Schedule) ItemDetailResponse {
	return ItemDetailResponse{
		ItemResponse:     NewItemResponse(it),
		Comments:         commentHttp.NewCommentResponses(comments),
		LastBookingEnd:   s.LastEnd,
		NextBookingStart: s.NextStart,
	}
}

func NewViewerDetailResponse(it *item.Item, comments []*comment.Comment, completed bool) ItemDetailResponse {
	return ItemDetailResponse{
		ItemResponse:        NewItemResponse(it),
		Comments:            commentHttp.NewCommentResponses(comments),
		HasCompletedBooking: &completed,
	}
}

// ItemTag is a brief representation of an item.
type ItemTag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

type ListItemsRequest struct {
	request.ListParams
}

type SearchItemsRequest struct {
	request.ListParams
	Text string `form:"text"`
}

type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"request_id" binding:"omitempty,uuid"`
}

// UpdateItemRequest uses pointers to distinguish between "field not sent" and "field sent as false/empty".
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}
