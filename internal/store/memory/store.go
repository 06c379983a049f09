// Package memory keeps every table in process memory behind the
// same repository interfaces as the Postgres implementation. It is used when the
// server runs with STORAGE_DRIVER=memory and by the service and HTTP tests.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Store holds every table under one mutex so a booking transition and the
// availability flip it implies are observed together.
type Store struct {
	mu    sync.Mutex
	clock clock.Clock

	users    map[string]user.User
	emails   map[string]string
	items    map[string]item.Item
	bookings map[string]booking.Booking
	requests map[string]itemrequest.ItemRequest
	comments map[string]comment.Comment
}

func NewStore(clk clock.Clock) *Store {
	return &Store{
		clock:    clk,
		users:    make(map[string]user.User),
		emails:   make(map[string]string),
		items:    make(map[string]item.Item),
		bookings: make(map[string]booking.Booking),
		requests: make(map[string]itemrequest.ItemRequest),
		comments: make(map[string]comment.Comment),
	}
}

func (s *Store) Users() user.Repository {
	return &userRepository{s: s}
}

func (s *Store) Items() item.Repository {
	return &itemRepository{s: s}
}

func (s *Store) Bookings() booking.Repository {
	return &bookingRepository{s: s}
}

func (s *Store) Requests() itemrequest.Repository {
	return &requestRepository{s: s}
}

func (s *Store) Comments() comment.Repository {
	return &commentRepository{s: s}
}

func newID() string {
	return uuid.NewString()
}
