package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	BookerID  string
	ItemID    string
	StartTime time.Time
	EndTime   time.Time
}

// ItemReader looks up items. item.Service satisfies it.
type ItemReader interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

// UserReader looks up users. user.Service satisfies it.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// Decide approves (approved=true) or rejects a waiting booking on behalf of the item owner.
	Decide(ctx context.Context, bookingID, ownerID string, approved bool) (*Booking, error)
	Cancel(ctx context.Context, bookingID, bookerID string) (*Booking, error)
	Get(ctx context.Context, bookingID, requesterID string) (*Booking, error)
	ListByBooker(ctx context.Context, userID, state string, from, size int) ([]*Booking, int, error)
	ListByOwner(ctx context.Context, userID, state string, from, size int) ([]*Booking, int, error)

	// CheckCompletedBooking returns nil if userID has finished an approved booking of itemID,
	// and a validation error saying why not otherwise.
	CheckCompletedBooking(ctx context.Context, itemID, userID string) error
	HasCompletedBooking(ctx context.Context, itemID, userID string) (bool, error)
	// ItemSchedule returns the last and next approved bookings of itemID around now.
	ItemSchedule(ctx context.Context, itemID string) (Schedule, error)
}

type service struct {
	repo  Repository
	items ItemReader
	users UserReader
	clock clock.Clock
}

func NewService(repo Repository, items ItemReader, users UserReader, clk clock.Clock) Service {
	return &service{
		repo:  repo,
		items: items,
		users: users,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	now := s.clock.Now()

	booker, err := s.users.GetByID(ctx, req.BookerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	window := Window{Start: req.StartTime, End: req.EndTime}
	if err := ValidateCreate(booker.ID, it, window); err != nil {
		return nil, err
	}

	b := &Booking{
		ItemID:      it.ID,
		ItemName:    it.Name,
		ItemOwnerID: it.OwnerID,
		BookerID:    booker.ID,
		BookerName:  booker.Name,
		StartTime:   window.Start,
		EndTime:     window.End,
		Status:      StatusWaiting,
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Printf("booking %s created by user %s for item %s", b.ID, b.BookerID, b.ItemID)
	return b, nil
}

func (s *service) Decide(ctx context.Context, bookingID, ownerID string, approved bool) (*Booking, error) {
	now := s.clock.Now()

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	t, err := PlanDecision(b, ownerID, approved, now)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Apply(ctx, t)
	if err != nil {
		return nil, err
	}

	log.Printf("booking %s moved %s -> %s by owner %s", t.BookingID, t.From, t.To, ownerID)
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, bookingID, bookerID string) (*Booking, error) {
	now := s.clock.Now()

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	t, err := PlanCancel(b, bookerID, now)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Apply(ctx, t)
	if err != nil {
		return nil, err
	}

	log.Printf("booking %s cancelled by booker %s", t.BookingID, bookerID)
	return updated, nil
}

func (s *service) Get(ctx context.Context, bookingID, requesterID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.BookerID != requesterID && b.ItemOwnerID != requesterID {
		return nil, ErrAccessDenied
	}
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, userID, state string, from, size int) ([]*Booking, int, error) {
	return s.list(ctx, userID, RoleBooker, state, from, size)
}

func (s *service) ListByOwner(ctx context.Context, userID, state string, from, size int) ([]*Booking, int, error) {
	return s.list(ctx, userID, RoleOwner, state, from, size)
}

func (s *service) list(ctx context.Context, userID string, role Role, state string, from, size int) ([]*Booking, int, error) {
	q, err := PlanQuery(userID, role, state, from, size, s.clock.Now())
	if err != nil {
		return nil, 0, err
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, ErrUserNotFound
	}

	return s.repo.List(ctx, q)
}

func (s *service) CheckCompletedBooking(ctx context.Context, itemID, userID string) error {
	now := s.clock.Now()

	approved, err := s.repo.FindApproved(ctx, itemID, userID)
	if err != nil {
		return err
	}
	return CheckCompleted(approved, now)
}

func (s *service) HasCompletedBooking(ctx context.Context, itemID, userID string) (bool, error) {
	err := s.CheckCompletedBooking(ctx, itemID, userID)
	switch {
	case err == nil:
		return true, nil
	case isIncomplete(err):
		return false, nil
	default:
		return false, err
	}
}

func (s *service) ItemSchedule(ctx context.Context, itemID string) (Schedule, error) {
	return s.repo.Schedule(ctx, itemID, s.clock.Now())
}
