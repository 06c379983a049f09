package memory

import (
	"context"
	"sort"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
)

type bookingRepository struct {
	s *Store
}

// hydrate fills the joined item and booker columns. Callers hold the lock.
func (r *bookingRepository) hydrate(b booking.Booking) *booking.Booking {
	if it, ok := r.s.items[b.ItemID]; ok {
		b.ItemName = it.Name
		b.ItemOwnerID = it.OwnerID
	}
	if u, ok := r.s.users[b.BookerID]; ok {
		b.BookerName = u.Name
	}
	return &b
}

func (r *bookingRepository) Create(_ context.Context, b *booking.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[b.BookerID]; !ok {
		return booking.ErrUserNotFound
	}
	if _, ok := r.s.items[b.ItemID]; !ok {
		return booking.ErrItemNotFound
	}

	b.ID = newID()
	b.UpdatedAt = b.CreatedAt
	r.s.bookings[b.ID] = *b
	return nil
}

func (r *bookingRepository) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return r.hydrate(b), nil
}

func (r *bookingRepository) List(_ context.Context, q booking.Query) ([]*booking.Booking, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*booking.Booking
	for _, b := range r.s.bookings {
		hb := r.hydrate(b)
		if !q.Role.Scopes(hb, q.ViewerID) || !q.State.Matches(hb, q.Now) {
			continue
		}
		matched = append(matched, hb)
	}

	sort.Slice(matched, func(i, j int) bool {
		return booking.Less(matched[i], matched[j])
	})

	return paginate(matched, q.Offset(), q.PageSize), len(matched), nil
}

func (r *bookingRepository) Apply(_ context.Context, t booking.Transition) (*booking.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[t.BookingID]
	if !ok {
		return nil, booking.ErrNotFound
	}
	if b.Status != t.From {
		return nil, booking.ErrConflict
	}
	it, ok := r.s.items[t.ItemID]
	if !ok {
		return nil, booking.ErrItemNotFound
	}

	b.Status = t.To
	b.UpdatedAt = t.At
	it.Available = t.ItemAvailable
	r.s.bookings[b.ID] = b
	r.s.items[it.ID] = it

	return r.hydrate(b), nil
}

func (r *bookingRepository) FindApproved(_ context.Context, itemID, bookerID string) ([]*booking.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*booking.Booking
	for _, b := range r.s.bookings {
		if b.ItemID == itemID && b.BookerID == bookerID && b.Status == booking.StatusApproved {
			out = append(out, r.hydrate(b))
		}
	}
	return out, nil
}

func (r *bookingRepository) Schedule(_ context.Context, itemID string, now time.Time) (booking.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var s booking.Schedule
	for _, b := range r.s.bookings {
		if b.ItemID != itemID || b.Status != booking.StatusApproved {
			continue
		}
		if b.EndTime.Before(now) && (s.LastEnd == nil || b.EndTime.After(*s.LastEnd)) {
			end := b.EndTime
			s.LastEnd = &end
		}
		if b.StartTime.After(now) && (s.NextStart == nil || b.StartTime.Before(*s.NextStart)) {
			start := b.StartTime
			s.NextStart = &start
		}
	}
	return s, nil
}
