package users

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

// MemoryRepository keeps users in process memory. Returned values are copies.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Tags = append([]models.Tag{}, u.Tags...)
	c.Contacts = append([]string{}, u.Contacts...)
	return &c
}

func (r *MemoryRepository) emailTaken(email, exceptID string) bool {
	for _, u := range r.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return fmt.Errorf("%w: user %s already exists", common.ErrorConflict, user.ID)
	}
	if r.emailTaken(user.Email, "") {
		return fmt.Errorf("%w: email already registered", common.ErrorConflict)
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetMany(ctx context.Context, ids []string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

// mutate applies fn to the stored user under the write lock.
func (r *MemoryRepository) mutate(id string, fn func(u *models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	return fn(u)
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, id, name, email string, at time.Time) error {
	return r.mutate(id, func(u *models.User) error {
		if r.emailTaken(email, id) {
			return fmt.Errorf("%w: email already registered", common.ErrorConflict)
		}
		u.Name, u.Email, u.UpdatedAt = name, email, at
		return nil
	})
}

func (r *MemoryRepository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	return r.mutate(id, func(u *models.User) error {
		u.PasswordHash, u.UpdatedAt = hash, at
		return nil
	})
}

func (r *MemoryRepository) UpdateAvatar(ctx context.Context, id string, avatar models.Avatar, at time.Time) error {
	return r.mutate(id, func(u *models.User) error {
		u.Avatar, u.UpdatedAt = avatar, at
		return nil
	})
}

func (r *MemoryRepository) SetVerified(ctx context.Context, id string, at time.Time) error {
	return r.mutate(id, func(u *models.User) error {
		u.Verified, u.UpdatedAt = true, at
		return nil
	})
}

func (r *MemoryRepository) AddContact(ctx context.Context, id, contactID string) error {
	return r.mutate(id, func(u *models.User) error {
		if !u.HasContact(contactID) {
			u.Contacts = append(u.Contacts, contactID)
		}
		return nil
	})
}

func (r *MemoryRepository) RemoveContact(ctx context.Context, id, contactID string) error {
	return r.mutate(id, func(u *models.User) error {
		kept := u.Contacts[:0]
		for _, c := range u.Contacts {
			if c != contactID {
				kept = append(kept, c)
			}
		}
		u.Contacts = kept
		return nil
	})
}

func (r *MemoryRepository) ListContacts(ctx context.Context, id string, skip, limit int) ([]models.PublicUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.users[id]
	if !ok {
		return []models.PublicUser{}, nil
	}
	out := []models.PublicUser{}
	for _, cid := range owner.Contacts {
		if c, ok := r.users[cid]; ok {
			out = append(out, c.Public())
		}
	}
	return window(out, skip, limit), nil
}

func (r *MemoryRepository) Search(ctx context.Context, q string, skip, limit int) ([]models.PublicUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q = strings.ToLower(q)
	var hits []*models.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			hits = append(hits, u)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if !hits[i].CreatedAt.Equal(hits[j].CreatedAt) {
			return hits[i].CreatedAt.Before(hits[j].CreatedAt)
		}
		return hits[i].ID < hits[j].ID
	})

	out := make([]models.PublicUser, 0, len(hits))
	for _, u := range hits {
		out = append(out, u.Public())
	}
	return window(out, skip, limit), nil
}

func (r *MemoryRepository) AddTag(ctx context.Context, userID string, tag models.Tag) error {
	return r.mutate(userID, func(u *models.User) error {
		for _, t := range u.Tags {
			if t.ID == tag.ID {
				return fmt.Errorf("%w: tag %s already exists", common.ErrorConflict, tag.ID)
			}
		}
		u.Tags = append(u.Tags, tag)
		return nil
	})
}

func (r *MemoryRepository) RemoveTag(ctx context.Context, userID, tagID string) (bool, error) {
	removed := false
	err := r.mutate(userID, func(u *models.User) error {
		kept := make([]models.Tag, 0, len(u.Tags))
		for _, t := range u.Tags {
			if t.ID == tagID {
				removed = true
				continue
			}
			kept = append(kept, t)
		}
		u.Tags = kept
		return nil
	})
	if err != nil {
		return false, nil
	}
	return removed, nil
}

func (r *MemoryRepository) ListTags(ctx context.Context, userID string) ([]models.Tag, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Tags, nil
}
