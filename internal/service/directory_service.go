package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/directory"
)

// DirectoryService is the read side of the provider directory. The booking
// core consumes it through the resolver interfaces and never writes to it.
type DirectoryService struct {
	repo directory.Repository
}

func NewDirectoryService(repo directory.Repository) *DirectoryService {
	return &DirectoryService{repo: repo}
}

var (
	_ IdentityResolver = (*DirectoryService)(nil)
	_ ProviderResolver = (*DirectoryService)(nil)
)

func (s *DirectoryService) ResolveIdentity(ctx context.Context, userID uuid.UUID) (*IdentityInfo, error) {
	id, err := s.repo.GetIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &IdentityInfo{Name: id.Name, Email: id.Email}, nil
}

func (s *DirectoryService) ResolveProvider(ctx context.Context, providerID uuid.UUID) (*ProviderInfo, error) {
	p, err := s.repo.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return &ProviderInfo{
		Specialization:  p.Specialization,
		Region:          p.Region,
		ExperienceYears: p.ExperienceYears,
	}, nil
}

// ProviderCard is a directory listing row with identity joined in when the
// lookup succeeds.
type ProviderCard struct {
	ID              uuid.UUID     `json:"id"`
	Specialization  string        `json:"specialization"`
	Region          string        `json:"region"`
	ExperienceYears int           `json:"experienceYears"`
	Qualification   string        `json:"qualification"`
	Identity        *IdentityInfo `json:"identity,omitempty"`
}

func (s *DirectoryService) ListProviders(ctx context.Context, specialization string) ([]*ProviderCard, error) {
	providers, err := s.repo.ListProviders(ctx, specialization)
	if err != nil {
		return nil, fmt.Errorf("%w: listing providers: %v", ErrStoreUnavailable, err)
	}

	cards := make([]*ProviderCard, 0, len(providers))
	for _, p := range providers {
		card := &ProviderCard{
			ID:              p.ID,
			Specialization:  p.Specialization,
			Region:          p.Region,
			ExperienceYears: p.ExperienceYears,
			Qualification:   p.Qualification,
		}
		if info, err := s.ResolveIdentity(ctx, p.UserID); err == nil {
			card.Identity = info
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *DirectoryService) ListSpecializations(ctx context.Context) ([]string, error) {
	specs, err := s.repo.ListSpecializations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing specializations: %v", ErrStoreUnavailable, err)
	}
	return specs, nil
}
