package itemrequest

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// MaxDescriptionLength caps a request description, counted in characters.
const MaxDescriptionLength = 100

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "request not found")
	ErrUserNotFound       = apperror.New(http.StatusNotFound, "user not found")
	ErrEmptyDescription   = apperror.New(http.StatusBadRequest, "description cannot be empty")
	ErrDescriptionTooLong = apperror.New(http.StatusBadRequest, "description must be at most 100 characters")
)

// ItemRequest is a user asking for an item nobody lists yet. Owners answer it
// by listing an item that points back at the request.
type ItemRequest struct {
	ID          string
	RequesterID string
	Description string
	CreatedAt   time.Time
	// Items are the answers, filled by the service.
	Items []*item.Item
}

// Filter selects requests either made by RequesterID or made by anyone except
// ExcludeRequesterID.
type Filter struct {
	RequesterID        string
	ExcludeRequesterID string
	Page               int
	PageSize           int
}
