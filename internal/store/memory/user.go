package memory

import (
	"context"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.users[id]
	return ok, nil
}

func (r *userRepository) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.emails[u.Email]; taken {
		return user.ErrEmailAlreadyUsed
	}

	u.ID = newID()
	u.CreatedAt = r.s.clock.Now()
	r.s.users[u.ID] = *u
	r.s.emails[u.Email] = u.ID
	return nil
}
