package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrItemNotFound     = apperror.New(http.StatusNotFound, "item not found")
	ErrUserNotFound     = apperror.New(http.StatusNotFound, "user not found")
	ErrAccessDenied     = apperror.New(http.StatusForbidden, "access denied")
	ErrOwnItem          = apperror.New(http.StatusBadRequest, "cannot book own item")
	ErrItemUnavailable  = apperror.New(http.StatusBadRequest, "item not available")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "end must be after start")
	ErrStartInPast      = apperror.New(http.StatusBadRequest, "start must not be in the past")
	ErrEndInPast        = apperror.New(http.StatusBadRequest, "end must be in the future")
	ErrNotWaiting       = apperror.New(http.StatusBadRequest, "booking is not waiting for approval")
	ErrAlreadyCancelled = apperror.New(http.StatusBadRequest, "booking is already cancelled")
	ErrNotCancellable   = apperror.New(http.StatusBadRequest, "rejected booking cannot be cancelled")
	ErrBookingCompleted = apperror.New(http.StatusBadRequest, "cannot cancel completed booking")
	ErrCancelWindow     = apperror.New(http.StatusBadRequest, "cannot cancel booking less than 24 hours before start")
	ErrUnknownState     = apperror.New(http.StatusBadRequest, "unknown state")
	ErrInvalidPage      = apperror.New(http.StatusBadRequest, "from must be >= 0 and size must be >= 1")
	ErrConflict         = apperror.New(http.StatusConflict, "booking was modified concurrently, reload and retry")

	ErrNoApprovedBooking  = apperror.New(http.StatusBadRequest, "User can only comment on items they have booked and approved")
	ErrBookingNotFinished = apperror.New(http.StatusBadRequest, "Cannot comment on active or future booking")
	ErrBookingNotStarted  = apperror.New(http.StatusBadRequest, "Cannot comment on booking that hasn't started yet")
)

// Status is the persisted lifecycle value of a booking.
type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// transitions lists the statuses reachable from each persisted status.
var transitions = map[Status][]Status{
	StatusWaiting:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusCancelled},
	StatusRejected:  {},
	StatusCancelled: {},
}

// IsValid reports whether s is one of the four persisted statuses.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine allows s -> target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

type Booking struct {
	ID          string
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Window is a requested reservation interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Transition is one status change together with the item availability it implies.
// From is the status observed when the guards ran; storage applies the change only
// if the booking still has that status.
type Transition struct {
	BookingID     string
	ItemID        string
	From          Status
	To            Status
	ItemAvailable bool
	At            time.Time
}

// Schedule holds the nearest approved bookings around a reference instant.
type Schedule struct {
	LastEnd   *time.Time
	NextStart *time.Time
}
