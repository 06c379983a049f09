package app_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

func createItem(t *testing.T, token, name string) itemHttp.ItemResponse {
	t.Helper()
	available := true
	w := executeRequest("POST", "/v1/items", itemHttp.CreateItemRequest{
		Name: name, Description: name + " for rent", Available: &available,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[itemHttp.ItemResponse](t, w)
}

func createBooking(itemID string, start, end time.Duration, token string) *httptest.ResponseRecorder {
	return executeRequest("POST", "/v1/bookings", map[string]any{
		"item_id": itemID,
		"start":   testNow.Add(start),
		"end":     testNow.Add(end),
	}, token)
}

func TestBookingLifecycle(t *testing.T) {
	ownerID, ownerToken := signUp(t, "owner@book.com")
	bookerID, bookerToken := signUp(t, "booker@book.com")
	_, strangerToken := signUp(t, "stranger@book.com")

	drill := createItem(t, ownerToken, "Drill")
	var bookingID string

	t.Run("Create Booking: Bad Request (Invalid Input Format)", func(t *testing.T) {
		// Missing item id
		w := executeRequest("POST", "/v1/bookings", map[string]any{
			"start": testNow.Add(time.Hour), "end": testNow.Add(2 * time.Hour),
		}, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// Invalid UUID
		w = createBooking("not-a-uuid", time.Hour, 2*time.Hour, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Create Booking: Window Rules", func(t *testing.T) {
		w := createBooking(drill.ID, -time.Hour, time.Hour, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "start must not be in the past")

		w = createBooking(drill.ID, 2*time.Hour, time.Hour, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "end must be after start")
	})

	t.Run("Create Booking: Own Item", func(t *testing.T) {
		w := createBooking(drill.ID, 24*time.Hour, 48*time.Hour, ownerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "cannot book own item")
	})

	t.Run("Create Booking: Unknown Item", func(t *testing.T) {
		w := createBooking("00000000-0000-0000-0000-000000000000", 24*time.Hour, 48*time.Hour, bookerToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Create Booking: Unauthorized", func(t *testing.T) {
		w := createBooking(drill.ID, 24*time.Hour, 48*time.Hour, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Create Booking: Success", func(t *testing.T) {
		w := createBooking(drill.ID, 24*time.Hour, 48*time.Hour, bookerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decode[bookingHttp.BookingResponse](t, w)
		bookingID = resp.ID
		assert.Equal(t, "WAITING", resp.Status)
		assert.Equal(t, drill.ID, resp.Item.ID)
		assert.Equal(t, ownerID, resp.Item.OwnerID)
		assert.Equal(t, bookerID, resp.Booker.ID)
		assert.True(t, resp.Start.Equal(testNow.Add(24*time.Hour)))
	})

	t.Run("Get Booking: Participants Only", func(t *testing.T) {
		path := fmt.Sprintf("/v1/bookings/%s", bookingID)

		assert.Equal(t, http.StatusOK, executeRequest("GET", path, nil, bookerToken).Code)
		assert.Equal(t, http.StatusOK, executeRequest("GET", path, nil, ownerToken).Code)
		assert.Equal(t, http.StatusForbidden, executeRequest("GET", path, nil, strangerToken).Code)
		assert.Equal(t, http.StatusNotFound, executeRequest("GET", "/v1/bookings/00000000-0000-0000-0000-000000000000", nil, bookerToken).Code)
		assert.Equal(t, http.StatusBadRequest, executeRequest("GET", "/v1/bookings/nope", nil, bookerToken).Code)
	})

	t.Run("Decide: Validation", func(t *testing.T) {
		path := fmt.Sprintf("/v1/bookings/%s", bookingID)

		// approved is required
		assert.Equal(t, http.StatusBadRequest, executeRequest("PATCH", path, nil, ownerToken).Code)
		assert.Equal(t, http.StatusBadRequest, executeRequest("PATCH", path+"?approved=maybe", nil, ownerToken).Code)

		// Only the owner decides
		assert.Equal(t, http.StatusForbidden, executeRequest("PATCH", path+"?approved=true", nil, bookerToken).Code)
	})

	t.Run("Decide: Approve", func(t *testing.T) {
		path := fmt.Sprintf("/v1/bookings/%s?approved=true", bookingID)

		w := executeRequest("PATCH", path, nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "APPROVED", decode[bookingHttp.BookingResponse](t, w).Status)

		w = executeRequest("GET", "/v1/items/"+drill.ID, nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code)
		detail := decode[itemHttp.ItemDetailResponse](t, w)
		assert.False(t, detail.Available)
		require.NotNil(t, detail.NextBookingStart)
		assert.True(t, detail.NextBookingStart.Equal(testNow.Add(24*time.Hour)))
		assert.Nil(t, detail.LastBookingEnd)

		// Approving twice is a business-rule failure.
		w = executeRequest("PATCH", path, nil, ownerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Create Booking: Item Unavailable", func(t *testing.T) {
		w := createBooking(drill.ID, 72*time.Hour, 96*time.Hour, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "item not available")
	})

	t.Run("Cancel", func(t *testing.T) {
		path := fmt.Sprintf("/v1/bookings/%s/cancel", bookingID)

		assert.Equal(t, http.StatusForbidden, executeRequest("PATCH", path, nil, ownerToken).Code)

		w := executeRequest("PATCH", path, nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "CANCELLED", decode[bookingHttp.BookingResponse](t, w).Status)

		w = executeRequest("PATCH", path, nil, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already cancelled")

		w = executeRequest("GET", "/v1/items/"+drill.ID, nil, ownerToken)
		assert.True(t, decode[itemHttp.ItemDetailResponse](t, w).Available)
	})

	t.Run("Cancel: Inside 24h Window", func(t *testing.T) {
		w := createBooking(drill.ID, 23*time.Hour, 30*time.Hour, bookerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		id := decode[bookingHttp.BookingResponse](t, w).ID

		w = executeRequest("PATCH", fmt.Sprintf("/v1/bookings/%s/cancel", id), nil, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "24 hours")
	})
}

func TestBookingListing(t *testing.T) {
	_, ownerToken := signUp(t, "owner@list.com")
	_, bookerToken := signUp(t, "booker@list.com")

	tent := createItem(t, ownerToken, "Tent")
	stove := createItem(t, ownerToken, "Stove")

	var created []string
	for i, it := range []itemHttp.ItemResponse{tent, stove, tent, stove, tent} {
		start := time.Duration(i+1) * 24 * time.Hour
		w := createBooking(it.ID, start, start+time.Hour, bookerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		created = append(created, decode[bookingHttp.BookingResponse](t, w).ID)
	}

	// Reject the earliest so WAITING and REJECTED differ.
	w := executeRequest("PATCH", fmt.Sprintf("/v1/bookings/%s?approved=false", created[0]), nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)

	type page = response.OffsetPageResponse[bookingHttp.BookingResponse]
	listIDs := func(p page) []string {
		out := make([]string, len(p.Items))
		for i, b := range p.Items {
			out[i] = b.ID
		}
		return out
	}

	t.Run("Defaults", func(t *testing.T) {
		w := executeRequest("GET", "/v1/bookings", nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code)
		p := decode[page](t, w)
		assert.Equal(t, 0, p.From)
		assert.Equal(t, 10, p.Size)
		assert.Equal(t, 5, p.Total)
		assert.Equal(t, []string{created[4], created[3], created[2], created[1], created[0]}, listIDs(p))
	})

	t.Run("Owner View", func(t *testing.T) {
		w := executeRequest("GET", "/v1/bookings/owner?state=future", nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 5, decode[page](t, w).Total)

		w = executeRequest("GET", "/v1/bookings/owner", nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, decode[page](t, w).Total)
	})

	t.Run("State Filters", func(t *testing.T) {
		w := executeRequest("GET", "/v1/bookings?state=rejected", nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{created[0]}, listIDs(decode[page](t, w)))

		w = executeRequest("GET", "/v1/bookings?state=WAITING", nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 4, decode[page](t, w).Total)

		w = executeRequest("GET", "/v1/bookings?state=PAST", nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, decode[page](t, w).Total)
	})

	t.Run("Unknown State", func(t *testing.T) {
		w := executeRequest("GET", "/v1/bookings?state=LATER", nil, bookerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Available: [ALL CURRENT PAST FUTURE WAITING REJECTED]")
	})

	t.Run("Paging", func(t *testing.T) {
		var all []string
		for from := 0; from < 6; from += 2 {
			w := executeRequest("GET", fmt.Sprintf("/v1/bookings?from=%d&size=2", from), nil, bookerToken)
			require.Equal(t, http.StatusOK, w.Code)
			all = append(all, listIDs(decode[page](t, w))...)
		}
		assert.Equal(t, []string{created[4], created[3], created[2], created[1], created[0]}, all)

		// An offset inside a page snaps to the page start and says so.
		w := executeRequest("GET", "/v1/bookings?from=3&size=2", nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code)
		p := decode[page](t, w)
		assert.Equal(t, 2, p.From)
		assert.Equal(t, []string{created[2], created[1]}, listIDs(p))

		// Past the end the total still counts every match.
		w = executeRequest("GET", "/v1/bookings?from=20&size=2", nil, bookerToken)
		require.Equal(t, http.StatusOK, w.Code)
		p = decode[page](t, w)
		assert.Empty(t, p.Items)
		assert.Equal(t, 5, p.Total)
		assert.Equal(t, 20, p.From)

		assert.Equal(t, http.StatusBadRequest, executeRequest("GET", "/v1/bookings?size=0", nil, bookerToken).Code)
		assert.Equal(t, http.StatusBadRequest, executeRequest("GET", "/v1/bookings?from=-1", nil, bookerToken).Code)
		assert.Equal(t, http.StatusBadRequest, executeRequest("GET", "/v1/bookings?from=abc", nil, bookerToken).Code)
	})
}
