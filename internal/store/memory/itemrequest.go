package memory

import (
	"context"
	"sort"

	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
)

type requestRepository struct {
	s *Store
}

func (r *requestRepository) Create(_ context.Context, req *itemrequest.ItemRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[req.RequesterID]; !ok {
		return itemrequest.ErrUserNotFound
	}

	req.ID = newID()
	stored := *req
	stored.Items = nil
	r.s.requests[req.ID] = stored
	return nil
}

func (r *requestRepository) GetByID(_ context.Context, id string) (*itemrequest.ItemRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, itemrequest.ErrNotFound
	}
	return &req, nil
}

func (r *requestRepository) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.requests[id]
	return ok, nil
}

func (r *requestRepository) List(_ context.Context, filter itemrequest.Filter) ([]*itemrequest.ItemRequest, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*itemrequest.ItemRequest
	for _, req := range r.s.requests {
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		if filter.ExcludeRequesterID != "" && req.RequesterID == filter.ExcludeRequesterID {
			continue
		}
		req := req
		matched = append(matched, &req)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	return paginate(matched, (filter.Page-1)*filter.PageSize, filter.PageSize), len(matched), nil
}
