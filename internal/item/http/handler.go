package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// BookingFacts is the part of booking.Service the item endpoints read.
type BookingFacts interface {
	HasCompletedBooking(ctx context.Context, itemID, userID string) (bool, error)
	ItemSchedule(ctx context.Context, itemID string) (booking.Schedule, error)
}

// CommentLister is the part of comment.Service the item detail reads.
type CommentLister interface {
	ListByItem(ctx context.Context, itemID string) ([]*comment.Comment, error)
}

type Handler struct {
	service  item.Service
	bookings BookingFacts
	comments CommentLister
}

func NewHandler(service item.Service, bookings BookingFacts, comments CommentLister) *Handler {
	return &Handler{
		service:  service,
		bookings: bookings,
		comments: comments,
	}
}

// List returns the caller's own items.
func (h *Handler) List(c *gin.Context) {
	var req ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	items, total, err := h.service.ListByOwner(c.Request.Context(), auth.GetUserID(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewItemResponses(items), req.Page, req.PageSize, total))
}

// Search finds available items by name or description.
func (h *Handler) Search(c *gin.Context) {
	var req SearchItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	items, total, err := h.service.Search(c.Request.Context(), req.Text, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewItemResponses(items), req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	it, err := h.service.Create(c.Request.Context(), item.CreateRequest{
		OwnerID:     auth.GetUserID(c),
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := auth.GetUserID(c)

	it, err := h.service.GetByID(ctx, req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	comments, err := h.comments.ListByItem(ctx, it.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if it.OwnerID == userID {
		schedule, err := h.bookings.ItemSchedule(ctx, it.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, NewOwnerDetailResponse(it, comments, schedule))
		return
	}

	completed, err := h.bookings.HasCompletedBooking(ctx, it.ID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewViewerDetailResponse(it, comments, completed))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	it, err := h.service.Update(c.Request.Context(), uri.ID, auth.GetUserID(c), item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}
