package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
)

type itemRepository struct {
	s *Store
}

func (r *itemRepository) Create(_ context.Context, it *item.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[it.OwnerID]; !ok {
		return item.ErrOwnerNotFound
	}
	if it.RequestID != nil {
		if _, ok := r.s.requests[*it.RequestID]; !ok {
			return item.ErrRequestNotFound
		}
	}

	it.ID = newID()
	it.CreatedAt = r.s.clock.Now()
	r.s.items[it.ID] = *it
	return nil
}

func (r *itemRepository) GetByID(_ context.Context, id string) (*item.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return &it, nil
}

func (r *itemRepository) List(_ context.Context, filter item.Filter) ([]*item.Item, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	text := strings.ToLower(filter.Text)

	var matched []*item.Item
	for _, it := range r.s.items {
		if filter.OwnerID != "" && it.OwnerID != filter.OwnerID {
			continue
		}
		if filter.AvailableOnly && !it.Available {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(it.Name), text) &&
			!strings.Contains(strings.ToLower(it.Description), text) {
			continue
		}
		it := it
		matched = append(matched, &it)
	}
	sortItems(matched)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	return paginate(matched, (filter.Page-1)*filter.PageSize, filter.PageSize), len(matched), nil
}

func (r *itemRepository) ListByRequests(_ context.Context, requestIDs []string) ([]*item.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*item.Item
	for _, it := range r.s.items {
		if it.RequestID == nil || !slices.Contains(requestIDs, *it.RequestID) {
			continue
		}
		it := it
		matched = append(matched, &it)
	}
	sortItems(matched)
	return matched, nil
}

func (r *itemRepository) Update(_ context.Context, id string, req item.UpdateRequest) (*item.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}

	if req.Name != nil {
		it.Name = *req.Name
	}
	if req.Description != nil {
		it.Description = *req.Description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}
	r.s.items[id] = it
	return &it, nil
}

func sortItems(items []*item.Item) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func paginate[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
