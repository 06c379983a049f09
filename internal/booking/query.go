package booking

import "time"

// Query is a fully planned listing request handed to the repository.
// Page is zero-based and already derived from the caller's offset.
type Query struct {
	ViewerID string
	Role     Role
	State    State
	Now      time.Time
	Page     int
	PageSize int
}

// Offset is the number of rows skipped before the page.
func (q Query) Offset() int {
	return q.Page * q.PageSize
}

// PlanQuery validates listing input and turns an offset into a page index.
// The page index is computed once here so the storage layer never sees raw offsets.
func PlanQuery(viewerID string, role Role, token string, from, size int, now time.Time) (Query, error) {
	state, err := ParseState(token)
	if err != nil {
		return Query{}, err
	}
	if size < 1 || from < 0 {
		return Query{}, ErrInvalidPage
	}

	return Query{
		ViewerID: viewerID,
		Role:     role,
		State:    state,
		Now:      now,
		Page:     from / size,
		PageSize: size,
	}, nil
}

// PageStart is the offset a listing really starts at once from is snapped to
// the start of its page. size must be positive.
func PageStart(from, size int) int {
	return from / size * size
}

// Less orders bookings newest start first, breaking ties by id descending.
func Less(a, b *Booking) bool {
	if !a.StartTime.Equal(b.StartTime) {
		return a.StartTime.After(b.StartTime)
	}
	return a.ID > b.ID
}
