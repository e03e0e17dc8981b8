package userrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/oakmount/accounts-api/internal/domain"
	"github.com/oakmount/accounts-api/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID    map[domain.UserID]userrepo.User
	idBySub map[domain.SubjectID]domain.UserID
}

func NewRepo() *Repo {
	return &Repo{
		byID:    make(map[domain.UserID]userrepo.User),
		idBySub: make(map[domain.SubjectID]domain.UserID),
	}
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	_ = ctx
	if u.ID == "" {
		return userrepo.ErrAlreadyExists // treat empty ID as invalid; app layer validates before this
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; ok {
		return userrepo.ErrAlreadyExists
	}
	if existingID, ok := r.idBySub[u.Subject]; ok && existingID != "" {
		return userrepo.ErrSubjectAlreadyBound
	}

	r.byID[u.ID] = cloneUser(u)
	r.idBySub[u.Subject] = u.ID
	return nil
}

func (r *Repo) Update(ctx context.Context, u userrepo.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[u.ID]
	if !ok {
		return userrepo.ErrNotFound
	}
	// Subject binding is immutable.
	if existing.Subject != u.Subject {
		return userrepo.ErrSubjectAlreadyBound
	}

	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idBySub[subject]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	u, ok := r.byID[id]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) List(ctx context.Context, includeInactive bool) ([]userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]userrepo.User, 0, len(r.byID))
	for _, u := range r.byID {
		if !includeInactive && !u.IsActive {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sortUsersByDisplayName(out)
	return out, nil
}

func cloneUser(u userrepo.User) userrepo.User {
	out := u
	if u.Bio != nil {
		v := *u.Bio
		out.Bio = &v
	}
	return out
}

func sortUsersByDisplayName(us []userrepo.User) {
	sort.Slice(us, func(i, j int) bool {
		di := strings.ToLower(us[i].DisplayName)
		dj := strings.ToLower(us[j].DisplayName)
		if di == dj {
			return string(us[i].ID) < string(us[j].ID)
		}
		return di < dj
	})
}
