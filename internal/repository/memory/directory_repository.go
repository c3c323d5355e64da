package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/directory"
)

type DirectoryRepository struct {
	mu         sync.RWMutex
	providers  map[uuid.UUID]*directory.Provider
	identities map[uuid.UUID]*directory.Identity
}

func NewDirectoryRepository() *DirectoryRepository {
	return &DirectoryRepository{
		providers:  make(map[uuid.UUID]*directory.Provider),
		identities: make(map[uuid.UUID]*directory.Identity),
	}
}

var _ directory.Repository = (*DirectoryRepository)(nil)

// Seed loads directory records; the booking core itself never writes here.
func (r *DirectoryRepository) Seed(providers []*directory.Provider, identities []*directory.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range providers {
		cp := *p
		r.providers[cp.ID] = &cp
	}
	for _, id := range identities {
		cp := *id
		r.identities[cp.ID] = &cp
	}
}

func (r *DirectoryRepository) GetProvider(ctx context.Context, providerID uuid.UUID) (*directory.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[providerID]
	if !ok {
		return nil, directory.ErrProviderNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *DirectoryRepository) GetIdentity(ctx context.Context, userID uuid.UUID) (*directory.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.identities[userID]
	if !ok {
		return nil, directory.ErrIdentityNotFound
	}
	cp := *id
	return &cp, nil
}

func (r *DirectoryRepository) ListProviders(ctx context.Context, specialization string) ([]*directory.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*directory.Provider
	for _, p := range r.providers {
		if specialization == "" || strings.EqualFold(p.Specialization, specialization) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *DirectoryRepository) ListSpecializations(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, p := range r.providers {
		key := strings.ToLower(p.Specialization)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p.Specialization)
	}
	sort.Strings(out)
	return out, nil
}
