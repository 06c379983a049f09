package memory

import (
	"context"
	"sort"

	"github.com/nekogravitycat/shareit-backend/internal/comment"
)

type commentRepository struct {
	s *Store
}

func (r *commentRepository) Create(_ context.Context, c *comment.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[c.AuthorID]; !ok {
		return comment.ErrUserNotFound
	}
	if _, ok := r.s.items[c.ItemID]; !ok {
		return comment.ErrItemNotFound
	}

	c.ID = newID()
	r.s.comments[c.ID] = *c
	return nil
}

func (r *commentRepository) ListByItem(_ context.Context, itemID string) ([]*comment.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*comment.Comment
	for _, c := range r.s.comments {
		if c.ItemID != itemID {
			continue
		}
		if u, ok := r.s.users[c.AuthorID]; ok {
			c.AuthorName = u.Name
		}
		c := c
		matched = append(matched, &c)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return matched, nil
}
