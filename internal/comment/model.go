package comment

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrEmptyText    = apperror.New(http.StatusBadRequest, "text cannot be empty")
	ErrItemNotFound = apperror.New(http.StatusNotFound, "item not found")
	ErrUserNotFound = apperror.New(http.StatusNotFound, "user not found")
)

// Comment is feedback left on an item by someone who finished a booking of it.
type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}
