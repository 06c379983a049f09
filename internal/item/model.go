package item

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "item not found")
	ErrOwnerNotFound    = apperror.New(http.StatusNotFound, "owner not found")
	ErrRequestNotFound  = apperror.New(http.StatusNotFound, "request not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrEmptyDescription = apperror.New(http.StatusBadRequest, "description cannot be empty")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "only the owner can modify this item")
)

// Item is a thing a user lends out. Available is toggled by the booking lifecycle.
type Item struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Available   bool
	// RequestID links the item to the request it was listed in answer to.
	RequestID *string
	CreatedAt time.Time
}

// Filter defines parameters for listing items.
type Filter struct {
	OwnerID string
	// Text matches name or description, case-insensitively.
	Text          string
	AvailableOnly bool
	Page          int
	PageSize      int
}
