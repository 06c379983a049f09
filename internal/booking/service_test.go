package booking_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/store/memory"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	mu  sync.Mutex
	now time.Time

	users    user.Service
	items    item.Service
	bookings booking.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{now: t0}
	clk := clock.Func(func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.now
	})

	store := memory.NewStore(clk)
	f.users = user.NewService(store.Users(), auth.NewBcryptPasswordHasherWithCost(bcrypt.MinCost))
	f.items = item.NewService(store.Items(), f.users, store.Requests())
	f.bookings = booking.NewService(store.Bookings(), f.items, f.users, clk)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fixture) user(t *testing.T, name string) *user.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), name+"@share.it", "password123", name)
	require.NoError(t, err)
	return u
}

func (f *fixture) item(t *testing.T, owner *user.User) *item.Item {
	t.Helper()
	it, err := f.items.Create(context.Background(), item.CreateRequest{
		OwnerID:     owner.ID,
		Name:        "Drill",
		Description: "Cordless drill",
		Available:   true,
	})
	require.NoError(t, err)
	return it
}

func (f *fixture) book(t *testing.T, booker *user.User, it *item.Item, start, end time.Duration) *booking.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), booking.CreateRequest{
		BookerID:  booker.ID,
		ItemID:    it.ID,
		StartTime: t0.Add(start),
		EndTime:   t0.Add(end),
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) available(t *testing.T, itemID string) bool {
	t.Helper()
	it, err := f.items.GetByID(context.Background(), itemID)
	require.NoError(t, err)
	return it.Available
}

const day = 24 * time.Hour

func ids(bs []*booking.Booking) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}

func TestCreateApproveFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user(t, "owner"), f.user(t, "booker")
	it := f.item(t, u1)

	b := f.book(t, u2, it, day, 2*day)
	assert.Equal(t, booking.StatusWaiting, b.Status)
	assert.Equal(t, it.Name, b.ItemName)
	assert.Equal(t, u1.ID, b.ItemOwnerID)
	assert.Equal(t, u2.Name, b.BookerName)
	assert.Equal(t, t0, b.CreatedAt)
	assert.True(t, f.available(t, it.ID), "creating a booking must not touch availability")

	approved, err := f.bookings.Decide(ctx, b.ID, u1.ID, true)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, approved.Status)
	assert.Equal(t, b.StartTime, approved.StartTime)
	assert.Equal(t, b.EndTime, approved.EndTime)
	assert.False(t, f.available(t, it.ID))

	_, err = f.bookings.Decide(ctx, b.ID, u1.ID, true)
	assert.ErrorIs(t, err, booking.ErrNotWaiting)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user(t, "owner"), f.user(t, "booker")
	it := f.item(t, u1)

	t.Run("own item", func(t *testing.T) {
		_, err := f.bookings.Create(ctx, booking.CreateRequest{
			BookerID: u1.ID, ItemID: it.ID, StartTime: t0.Add(day), EndTime: t0.Add(2 * day),
		})
		assert.ErrorIs(t, err, booking.ErrOwnItem)

		list, total, err := f.bookings.ListByOwner(ctx, u1.ID, "ALL", 0, 10)
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Zero(t, total)
	})

	t.Run("bad window", func(t *testing.T) {
		_, err := f.bookings.Create(ctx, booking.CreateRequest{
			BookerID: u2.ID, ItemID: it.ID, StartTime: t0.Add(day), EndTime: t0.Add(day),
		})
		assert.ErrorIs(t, err, booking.ErrInvalidTimeRange)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := f.bookings.Create(ctx, booking.CreateRequest{
			BookerID: u2.ID, ItemID: "00000000-0000-0000-0000-000000000000", StartTime: t0.Add(day), EndTime: t0.Add(2 * day),
		})
		assert.ErrorIs(t, err, booking.ErrItemNotFound)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("unknown booker", func(t *testing.T) {
		_, err := f.bookings.Create(ctx, booking.CreateRequest{
			BookerID: "00000000-0000-0000-0000-000000000000", ItemID: it.ID, StartTime: t0.Add(day), EndTime: t0.Add(2 * day),
		})
		assert.ErrorIs(t, err, booking.ErrUserNotFound)
	})

	t.Run("unavailable item", func(t *testing.T) {
		b := f.book(t, u2, it, day, 2*day)
		_, err := f.bookings.Decide(ctx, b.ID, u1.ID, true)
		require.NoError(t, err)

		_, err = f.bookings.Create(ctx, booking.CreateRequest{
			BookerID: u2.ID, ItemID: it.ID, StartTime: t0.Add(3 * day), EndTime: t0.Add(4 * day),
		})
		assert.ErrorIs(t, err, booking.ErrItemUnavailable)
	})
}

func TestDecide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user(t, "owner"), f.user(t, "booker")
	it := f.item(t, u1)

	t.Run("reject frees the item", func(t *testing.T) {
		b := f.book(t, u2, it, day, 2*day)
		rejected, err := f.bookings.Decide(ctx, b.ID, u1.ID, false)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusRejected, rejected.Status)
		assert.True(t, f.available(t, it.ID))
	})

	t.Run("booker cannot decide", func(t *testing.T) {
		b := f.book(t, u2, it, day, 2*day)
		_, err := f.bookings.Decide(ctx, b.ID, u2.ID, true)
		assert.ErrorIs(t, err, booking.ErrAccessDenied)
		assert.Equal(t, apperror.KindAccessDenied, apperror.KindOf(err))

		got, err := f.bookings.Get(ctx, b.ID, u2.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusWaiting, got.Status)
	})

	t.Run("missing booking", func(t *testing.T) {
		_, err := f.bookings.Decide(ctx, "00000000-0000-0000-0000-000000000000", u1.ID, true)
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("inside 24h window", func(t *testing.T) {
		f := newFixture(t)
		u1, u2 := f.user(t, "owner"), f.user(t, "booker")
		it := f.item(t, u1)

		b := f.book(t, u2, it, 23*time.Hour, 2*day)
		_, err := f.bookings.Decide(ctx, b.ID, u1.ID, true)
		require.NoError(t, err)

		_, err = f.bookings.Cancel(ctx, b.ID, u2.ID)
		assert.ErrorIs(t, err, booking.ErrCancelWindow)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.False(t, f.available(t, it.ID))
	})

	t.Run("outside 24h window", func(t *testing.T) {
		f := newFixture(t)
		u1, u2 := f.user(t, "owner"), f.user(t, "booker")
		it := f.item(t, u1)

		b := f.book(t, u2, it, 25*time.Hour, 2*day)
		_, err := f.bookings.Decide(ctx, b.ID, u1.ID, true)
		require.NoError(t, err)
		require.False(t, f.available(t, it.ID))

		cancelled, err := f.bookings.Cancel(ctx, b.ID, u2.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, cancelled.Status)
		assert.True(t, f.available(t, it.ID))
	})

	t.Run("owner cannot cancel", func(t *testing.T) {
		f := newFixture(t)
		u1, u2 := f.user(t, "owner"), f.user(t, "booker")
		it := f.item(t, u1)

		b := f.book(t, u2, it, 2*day, 3*day)
		_, err := f.bookings.Cancel(ctx, b.ID, u1.ID)
		assert.ErrorIs(t, err, booking.ErrAccessDenied)
	})

	t.Run("completed approved booking", func(t *testing.T) {
		f := newFixture(t)
		u1, u2 := f.user(t, "owner"), f.user(t, "booker")
		it := f.item(t, u1)

		b := f.book(t, u2, it, 2*day, 3*day)
		_, err := f.bookings.Decide(ctx, b.ID, u1.ID, true)
		require.NoError(t, err)

		f.advance(4 * day)
		_, err = f.bookings.Cancel(ctx, b.ID, u2.ID)
		assert.ErrorIs(t, err, booking.ErrBookingCompleted)
	})
}

func TestTerminalStatesNeverChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2, u3 := f.user(t, "owner"), f.user(t, "booker"), f.user(t, "stranger")
	it := f.item(t, u1)

	rejected := f.book(t, u2, it, 2*day, 3*day)
	_, err := f.bookings.Decide(ctx, rejected.ID, u1.ID, false)
	require.NoError(t, err)

	cancelled := f.book(t, u2, it, 4*day, 5*day)
	_, err = f.bookings.Cancel(ctx, cancelled.ID, u2.ID)
	require.NoError(t, err)

	terminal := map[string]booking.Status{
		rejected.ID:  booking.StatusRejected,
		cancelled.ID: booking.StatusCancelled,
	}

	for id, status := range terminal {
		for _, actor := range []*user.User{u1, u2, u3} {
			attempts := []func() error{
				func() error { _, err := f.bookings.Decide(ctx, id, actor.ID, true); return err },
				func() error { _, err := f.bookings.Decide(ctx, id, actor.ID, false); return err },
				func() error { _, err := f.bookings.Cancel(ctx, id, actor.ID); return err },
			}
			for i, attempt := range attempts {
				err := attempt()
				require.Error(t, err, "attempt %d by %s on %s", i, actor.Name, status)
				kind := apperror.KindOf(err)
				assert.Contains(t, []apperror.Kind{apperror.KindValidation, apperror.KindAccessDenied}, kind)
			}
		}

		got, err := f.bookings.Get(ctx, id, u2.ID)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2, u3 := f.user(t, "owner"), f.user(t, "booker"), f.user(t, "stranger")
	it := f.item(t, u1)
	b := f.book(t, u2, it, day, 2*day)

	byBooker, err := f.bookings.Get(ctx, b.ID, u2.ID)
	require.NoError(t, err)
	byOwner, err := f.bookings.Get(ctx, b.ID, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, byBooker, byOwner)

	again, err := f.bookings.Get(ctx, b.ID, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, byBooker, again)

	_, err = f.bookings.Get(ctx, b.ID, u3.ID)
	assert.ErrorIs(t, err, booking.ErrAccessDenied)

	_, err = f.bookings.Get(ctx, "00000000-0000-0000-0000-000000000000", u2.ID)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestListByOwner_Current(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2, u3 := f.user(t, "owner"), f.user(t, "booker"), f.user(t, "other")
	drill, saw := f.item(t, u1), f.item(t, u1)
	foreign := f.item(t, u3)

	cur1 := f.book(t, u2, drill, -time.Hour, time.Hour)
	cur2 := f.book(t, u2, saw, -2*time.Hour, 3*time.Hour)
	f.book(t, u2, drill, -3*day, -2*day)
	f.book(t, u2, drill, day, 2*day)
	f.book(t, u2, foreign, -time.Hour, time.Hour)
	edge := f.book(t, u2, saw, 0, day)

	// Status does not matter for CURRENT.
	_, err := f.bookings.Decide(ctx, cur2.ID, u1.ID, false)
	require.NoError(t, err)

	list, total, err := f.bookings.ListByOwner(ctx, u1.ID, "current", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{edge.ID, cur1.ID, cur2.ID}, ids(list))
}

func TestListByBooker_Waiting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user(t, "owner"), f.user(t, "booker")

	waiting := f.book(t, u2, f.item(t, u1), day, 2*day)
	approved := f.book(t, u2, f.item(t, u1), 3*day, 4*day)
	_, err := f.bookings.Decide(ctx, approved.ID, u1.ID, true)
	require.NoError(t, err)

	list, total, err := f.bookings.ListByBooker(ctx, u2.ID, "WAITING", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{waiting.ID}, ids(list))

	all, _, err := f.bookings.ListByBooker(ctx, u2.ID, "ALL", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{approved.ID, waiting.ID}, ids(all))

	// The owner sees nothing as a booker.
	none, _, err := f.bookings.ListByBooker(ctx, u1.ID, "ALL", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestList_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "booker")

	_, _, err := f.bookings.ListByBooker(ctx, "00000000-0000-0000-0000-000000000000", "ALL", 0, 10)
	assert.ErrorIs(t, err, booking.ErrUserNotFound)

	_, _, err = f.bookings.ListByOwner(ctx, u.ID, "CANCELLED", 0, 10)
	assert.ErrorIs(t, err, booking.ErrUnknownState)

	_, _, err = f.bookings.ListByOwner(ctx, u.ID, "ALL", 0, 0)
	assert.ErrorIs(t, err, booking.ErrInvalidPage)

	_, _, err = f.bookings.ListByBooker(ctx, u.ID, "ALL", -1, 10)
	assert.ErrorIs(t, err, booking.ErrInvalidPage)
}

func TestList_PaginationCompleteness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user(t, "owner"), f.user(t, "booker")
	it := f.item(t, u1)

	// Duplicate start times exercise the id tie-break.
	for i := 0; i < 7; i++ {
		start := time.Duration(i/2) * day
		f.book(t, u2, it, start, start+time.Hour)
	}

	const size = 2
	var paged []string
	for page := 0; page < 4; page++ {
		list, total, err := f.bookings.ListByBooker(ctx, u2.ID, "ALL", page*size, size)
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		assert.LessOrEqual(t, len(list), size)
		paged = append(paged, ids(list)...)
	}

	whole, _, err := f.bookings.ListByBooker(ctx, u2.ID, "ALL", 0, 4*size)
	require.NoError(t, err)
	assert.Equal(t, ids(whole), paged)
	assert.Len(t, paged, 7)

	seen := map[string]bool{}
	for _, id := range paged {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}

	for i := 1; i < len(whole); i++ {
		assert.False(t, whole[i].StartTime.After(whole[i-1].StartTime))
	}

	// An offset inside a page resolves to that page's start.
	mid, _, err := f.bookings.ListByBooker(ctx, u2.ID, "ALL", 3, size)
	require.NoError(t, err)
	assert.Equal(t, paged[2:4], ids(mid))

	again, _, err := f.bookings.ListByBooker(ctx, u2.ID, "ALL", 0, 4*size)
	require.NoError(t, err)
	assert.Equal(t, ids(whole), ids(again))
}

func TestDecide_ConcurrentApprovals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user(t, "owner"), f.user(t, "booker")
	it := f.item(t, u1)
	b := f.book(t, u2, it, 2*day, 3*day)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.bookings.Decide(ctx, b.ID, u1.ID, i%2 == 0)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		kind := apperror.KindOf(err)
		assert.Contains(t, []apperror.Kind{apperror.KindValidation, apperror.KindConflict}, kind, fmt.Sprint(err))
	}
	assert.Equal(t, 1, wins)

	got, err := f.bookings.Get(ctx, b.ID, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Status != booking.StatusApproved, f.available(t, it.ID),
		"availability must follow the winning transition")
}

func TestHasCompletedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2, u3 := f.user(t, "owner"), f.user(t, "booker"), f.user(t, "stranger")
	it := f.item(t, u1)

	b := f.book(t, u2, it, 2*day, 3*day)

	done, err := f.bookings.HasCompletedBooking(ctx, it.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, done, "waiting bookings never count")

	_, err = f.bookings.Decide(ctx, b.ID, u1.ID, true)
	require.NoError(t, err)

	done, err = f.bookings.HasCompletedBooking(ctx, it.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, done, "not finished yet")

	f.advance(3 * day)
	done, err = f.bookings.HasCompletedBooking(ctx, it.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = f.bookings.HasCompletedBooking(ctx, it.ID, u3.ID)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestItemSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1, u2 := f.user(t, "owner"), f.user(t, "booker")
	it := f.item(t, u1)

	empty, err := f.bookings.ItemSchedule(ctx, it.ID)
	require.NoError(t, err)
	assert.Nil(t, empty.LastEnd)
	assert.Nil(t, empty.NextStart)

	past := f.book(t, u2, it, -3*day, -2*day)
	next := f.book(t, u2, it, 2*day, 3*day)
	later := f.book(t, u2, it, 5*day, 6*day)
	waiting := f.book(t, u2, it, day, day+time.Hour)

	// All bookings exist before the first approval takes the item off the market.
	for _, b := range []*booking.Booking{past, next, later} {
		_, err := f.bookings.Decide(ctx, b.ID, u1.ID, true)
		require.NoError(t, err)
	}

	s, err := f.bookings.ItemSchedule(ctx, it.ID)
	require.NoError(t, err)
	require.NotNil(t, s.LastEnd)
	require.NotNil(t, s.NextStart)
	assert.Equal(t, past.EndTime, *s.LastEnd)
	assert.Equal(t, next.StartTime, *s.NextStart, "waiting booking %s must be ignored", waiting.ID)
}
