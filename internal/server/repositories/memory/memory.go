// Package memory is a mutex-guarded in-process RepositoryManager. Every
// repository it vends shares one store regardless of the DBTX passed in, so
// it suits tests that exercise services without PostgreSQL.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/dbx"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/posts"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/users"
)

type store struct {
	mu       sync.Mutex
	now      func() time.Time
	users    map[string]models.User
	profiles map[string]models.Profile
	posts    map[string]models.Post
}

type Manager struct {
	s *store
}

func NewManager() *Manager {
	return &Manager{s: &store{
		now:      time.Now,
		users:    map[string]models.User{},
		profiles: map[string]models.Profile{},
		posts:    map[string]models.Post{},
	}}
}

// SetClock replaces the timestamp source used for created_at.
func (m *Manager) SetClock(now func() time.Time) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.now = now
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *Manager) Users(dbx.DBTX) users.Repository       { return userRepo{m.s} }
func (m *Manager) Profiles(dbx.DBTX) profiles.Repository { return profileRepo{m.s} }
func (m *Manager) Posts(dbx.DBTX) posts.Repository       { return postRepo{m.s} }

type userRepo struct{ s *store }

func (r userRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, common.ErrDuplicateEmail
		}
	}
	u.CreatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

type profileRepo struct{ s *store }

// populate must be called with the lock held.
func (r profileRepo) populate(p models.Profile) *models.Profile {
	p.User = models.UserRef{ID: p.UserID}
	if u, ok := r.s.users[p.UserID]; ok {
		p.User.Name, p.User.Avatar = u.Name, u.Avatar
	}
	p.Skills = append([]string{}, p.Skills...)
	p.Experience = append([]models.Experience{}, p.Experience...)
	p.Education = append([]models.Education{}, p.Education...)
	return &p
}

func (r profileRepo) GetByUser(_ context.Context, userID string) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.populate(p), nil
}

func (r profileRepo) LockByUser(ctx context.Context, userID string) (*models.Profile, error) {
	return r.GetByUser(ctx, userID)
}

func (r profileRepo) List(context.Context) ([]*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, r.populate(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r profileRepo) Save(_ context.Context, p *models.Profile) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.profiles[p.UserID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = r.s.now()
	}
	stored := *r.populate(*p)
	r.s.profiles[p.UserID] = stored
	return r.populate(stored), nil
}

func (r profileRepo) DeleteByUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.profiles, userID)
	return nil
}

type postRepo struct{ s *store }

func clonePost(p models.Post) *models.Post {
	p.Likes = append([]models.Like{}, p.Likes...)
	return &p
}

func (r postRepo) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.CreatedAt = r.s.now()
	if p.Likes == nil {
		p.Likes = []models.Like{}
	}
	r.s.posts[p.ID] = *clonePost(*p)
	return p, nil
}

func (r postRepo) List(context.Context) ([]*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		out = append(out, clonePost(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r postRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clonePost(p), nil
}

func (r postRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r postRepo) Like(_ context.Context, id, userID string) ([]models.Like, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.LikedBy(userID) {
		return nil, common.ErrAlreadyLiked
	}
	p.Likes = append([]models.Like{{User: userID}}, p.Likes...)
	r.s.posts[id] = p
	return clonePost(p).Likes, nil
}

func (r postRepo) Unlike(_ context.Context, id, userID string) ([]models.Like, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !p.LikedBy(userID) {
		return nil, common.ErrNotLiked
	}
	likes := make([]models.Like, 0, len(p.Likes)-1)
	for _, l := range p.Likes {
		if l.User != userID {
			likes = append(likes, l)
		}
	}
	p.Likes = likes
	r.s.posts[id] = p
	return clonePost(p).Likes, nil
}
