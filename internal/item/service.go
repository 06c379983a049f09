package item

import (
	"context"
	"log"
	"strings"
)

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	Available   bool
	RequestID   *string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

// OwnerChecker reports whether a user exists. user.Service satisfies it.
type OwnerChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// RequestChecker reports whether an item request exists. The item request
// repositories satisfy it.
type RequestChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*Item, int, error)
	// Search finds available items whose name or description contains text.
	// Blank text finds nothing.
	Search(ctx context.Context, text string, page, pageSize int) ([]*Item, int, error)
	// ListByRequests returns the items listed in answer to any of requestIDs.
	ListByRequests(ctx context.Context, requestIDs []string) ([]*Item, error)
	Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Item, error)
}

type service struct {
	repo     Repository
	owners   OwnerChecker
	requests RequestChecker
}

func NewService(repo Repository, owners OwnerChecker, requests RequestChecker) Service {
	return &service{
		repo:     repo,
		owners:   owners,
		requests: requests,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	ok, err := s.owners.Exists(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOwnerNotFound
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRequestNotFound
		}
	}

	it := &Item{
		OwnerID:     req.OwnerID,
		Name:        name,
		Description: description,
		Available:   req.Available,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*Item, int, error) {
	return s.repo.List(ctx, Filter{OwnerID: ownerID, Page: page, PageSize: pageSize})
}

func (s *service) Search(ctx context.Context, text string, page, pageSize int) ([]*Item, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, 0, nil
	}

	log.Printf("searching items: text=%q page=%d", text, page)
	return s.repo.List(ctx, Filter{Text: text, AvailableOnly: true, Page: page, PageSize: pageSize})
}

func (s *service) ListByRequests(ctx context.Context, requestIDs []string) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	return s.repo.ListByRequests(ctx, requestIDs)
}

func (s *service) Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != actorID {
		return nil, ErrPermissionDenied
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		req.Name = &name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, ErrEmptyDescription
		}
		req.Description = &description
	}

	return s.repo.Update(ctx, id, req)
}
