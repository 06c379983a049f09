package booking

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// CancelNotice is how far ahead of its start a booking must be cancelled.
const CancelNotice = 24 * time.Hour

// ValidateCreate decides whether bookerID may request it for w.
// Checks run in a fixed order and stop at the first failure.
func ValidateCreate(bookerID string, it *item.Item, w Window) error {
	if it.OwnerID == bookerID {
		return ErrOwnItem
	}
	if !it.Available {
		return ErrItemUnavailable
	}
	if !w.End.After(w.Start) {
		return ErrInvalidTimeRange
	}
	return nil
}

// PlanDecision checks that ownerID may approve or reject b and returns the transition.
// Approving takes the item off the market; rejecting puts it back.
func PlanDecision(b *Booking, ownerID string, approved bool, now time.Time) (Transition, error) {
	if b.ItemOwnerID != ownerID {
		return Transition{}, ErrAccessDenied
	}
	if b.Status != StatusWaiting {
		return Transition{}, ErrNotWaiting
	}

	t := Transition{
		BookingID: b.ID,
		ItemID:    b.ItemID,
		From:      b.Status,
		At:        now,
	}
	if approved {
		t.To = StatusApproved
		t.ItemAvailable = false
	} else {
		t.To = StatusRejected
		t.ItemAvailable = true
	}
	return t, nil
}

// PlanCancel checks that bookerID may cancel b at now and returns the transition.
func PlanCancel(b *Booking, bookerID string, now time.Time) (Transition, error) {
	if b.BookerID != bookerID {
		return Transition{}, ErrAccessDenied
	}

	switch b.Status {
	case StatusCancelled:
		return Transition{}, ErrAlreadyCancelled
	case StatusRejected:
		return Transition{}, ErrNotCancellable
	case StatusApproved:
		if b.EndTime.Before(now) {
			return Transition{}, ErrBookingCompleted
		}
	}

	if !b.Status.CanTransitionTo(StatusCancelled) {
		return Transition{}, ErrNotCancellable
	}
	if b.StartTime.Before(now.Add(CancelNotice)) {
		return Transition{}, ErrCancelWindow
	}

	return Transition{
		BookingID:     b.ID,
		ItemID:        b.ItemID,
		From:          b.Status,
		To:            StatusCancelled,
		ItemAvailable: true,
		At:            now,
	}, nil
}

// completionTolerance absorbs clock drift between the end of a booking and a
// comment posted right after it.
const completionTolerance = 5 * time.Second

// CheckCompleted decides whether the approved booking with the latest end has
// finished as of now. It returns nil when it has.
func CheckCompleted(approved []*Booking, now time.Time) error {
	var latest *Booking
	for _, b := range approved {
		if b.Status != StatusApproved {
			continue
		}
		if latest == nil || b.EndTime.After(latest.EndTime) {
			latest = b
		}
	}

	if latest == nil {
		return ErrNoApprovedBooking
	}
	if latest.EndTime.After(now.Add(completionTolerance)) {
		return apperror.Wrap(ErrBookingNotFinished, http.StatusBadRequest,
			fmt.Sprintf("%s. Booking ends at: %s", ErrBookingNotFinished.Message, latest.EndTime.Format(time.RFC3339)))
	}
	if latest.StartTime.After(now) {
		return ErrBookingNotStarted
	}
	return nil
}

// isIncomplete reports whether err is one of the CheckCompleted outcomes.
func isIncomplete(err error) bool {
	return errors.Is(err, ErrNoApprovedBooking) ||
		errors.Is(err, ErrBookingNotFinished) ||
		errors.Is(err, ErrBookingNotStarted)
}
