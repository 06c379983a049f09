package itemrequest

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
)

// UserChecker reports whether a user exists. user.Service satisfies it.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ItemFinder finds the items listed in answer to requests. item.Service satisfies it.
type ItemFinder interface {
	ListByRequests(ctx context.Context, requestIDs []string) ([]*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, requesterID, description string) (*ItemRequest, error)
	GetByID(ctx context.Context, id string) (*ItemRequest, error)
	// ListOwn returns the requests userID made, newest first.
	ListOwn(ctx context.Context, userID string, page, pageSize int) ([]*ItemRequest, int, error)
	// ListOthers returns the requests everyone else made, newest first.
	ListOthers(ctx context.Context, userID string, page, pageSize int) ([]*ItemRequest, int, error)
}

type service struct {
	repo  Repository
	users UserChecker
	items ItemFinder
	clock clock.Clock
}

func NewService(repo Repository, users UserChecker, items ItemFinder, clk clock.Clock) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, requesterID, description string) (*ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	if err := s.ensureUser(ctx, requesterID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		RequesterID: requesterID,
		Description: description,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Printf("item request %s created by user %s", req.ID, requesterID)
	return req, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, []*ItemRequest{req}); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, userID string, page, pageSize int) ([]*ItemRequest, int, error) {
	return s.list(ctx, userID, Filter{RequesterID: userID, Page: page, PageSize: pageSize})
}

func (s *service) ListOthers(ctx context.Context, userID string, page, pageSize int) ([]*ItemRequest, int, error) {
	return s.list(ctx, userID, Filter{ExcludeRequesterID: userID, Page: page, PageSize: pageSize})
}

func (s *service) list(ctx context.Context, userID string, filter Filter) ([]*ItemRequest, int, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, 0, err
	}

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (s *service) ensureUser(ctx context.Context, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// attachItems fills Items on each request with one lookup.
func (s *service) attachItems(ctx context.Context, requests []*ItemRequest) error {
	if len(requests) == 0 {
		return nil
	}

	byID := make(map[string]*ItemRequest, len(requests))
	ids := make([]string, len(requests))
	for i, req := range requests {
		byID[req.ID] = req
		ids[i] = req.ID
	}

	items, err := s.items.ListByRequests(ctx, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		if req, ok := byID[*it.RequestID]; ok {
			req.Items = append(req.Items, it)
		}
	}
	return nil
}
