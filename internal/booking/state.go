package booking

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// State is a listing filter. CURRENT, PAST and FUTURE are derived from the
// booking window at query time and never stored.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// States is the accepted set, in the order reported to callers.
var States = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// ParseState accepts a state token in any letter case.
func ParseState(token string) (State, error) {
	candidate := State(strings.ToUpper(strings.TrimSpace(token)))
	for _, s := range States {
		if s == candidate {
			return s, nil
		}
	}
	return "", apperror.Wrap(ErrUnknownState, http.StatusBadRequest,
		fmt.Sprintf("unknown state: %s. Available: %v", token, States))
}

// Matches reports whether b belongs to the state as seen at now.
func (s State) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return !b.StartTime.After(now) && !b.EndTime.Before(now)
	case StatePast:
		return b.EndTime.Before(now)
	case StateFuture:
		return b.StartTime.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}

// Role selects whose bookings a listing is scoped to.
type Role int

const (
	RoleBooker Role = iota
	RoleOwner
)

// Scopes reports whether viewerID sees b under this role.
func (r Role) Scopes(b *Booking, viewerID string) bool {
	if r == RoleOwner {
		return b.ItemOwnerID == viewerID
	}
	return b.BookerID == viewerID
}
