package comment

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	ItemID   string
	AuthorID string
	Text     string
}

// UserReader looks up users. user.Service satisfies it.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ItemReader looks up items. item.Service satisfies it.
type ItemReader interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

// CompletionChecker decides whether a user has finished a booking of an item.
// booking.Service satisfies it.
type CompletionChecker interface {
	CheckCompletedBooking(ctx context.Context, itemID, userID string) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Comment, error)
	ListByItem(ctx context.Context, itemID string) ([]*Comment, error)
}

type service struct {
	repo     Repository
	users    UserReader
	items    ItemReader
	bookings CompletionChecker
	clock    clock.Clock
}

func NewService(repo Repository, users UserReader, items ItemReader, bookings CompletionChecker, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		users:    users,
		items:    items,
		bookings: bookings,
		clock:    clk,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	author, err := s.users.GetByID(ctx, req.AuthorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.items.GetByID(ctx, req.ItemID); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	// Only someone who has finished an approved booking may comment.
	if err := s.bookings.CheckCompletedBooking(ctx, req.ItemID, req.AuthorID); err != nil {
		return nil, err
	}

	c := &Comment{
		ItemID:     req.ItemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Printf("comment %s added to item %s by user %s", c.ID, c.ItemID, c.AuthorID)
	return c, nil
}

func (s *service) ListByItem(ctx context.Context, itemID string) ([]*Comment, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return s.repo.ListByItem(ctx, itemID)
}
