package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medibook/medibook/internal/domain/directory"
)

type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

var _ directory.Repository = (*DirectoryRepository)(nil)

func (r *DirectoryRepository) GetProvider(ctx context.Context, providerID uuid.UUID) (*directory.Provider, error) {
	var p directory.Provider
	err := r.db.WithContext(ctx).First(&p, "id = ?", providerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, directory.ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading provider: %w", err)
	}
	return &p, nil
}

func (r *DirectoryRepository) GetIdentity(ctx context.Context, userID uuid.UUID) (*directory.Identity, error) {
	var id directory.Identity
	err := r.db.WithContext(ctx).First(&id, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, directory.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading identity: %w", err)
	}
	return &id, nil
}

func (r *DirectoryRepository) ListProviders(ctx context.Context, specialization string) ([]*directory.Provider, error) {
	q := r.db.WithContext(ctx).Model(&directory.Provider{})
	if specialization != "" {
		q = q.Where("LOWER(specialization) = LOWER(?)", specialization)
	}
	var out []*directory.Provider
	if err := q.Order("specialization ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing providers: %w", err)
	}
	return out, nil
}

func (r *DirectoryRepository) ListSpecializations(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Model(&directory.Provider{}).
		Distinct("specialization").
		Order("specialization ASC").
		Pluck("specialization", &out).Error
	if err != nil {
		return nil, fmt.Errorf("listing specializations: %w", err)
	}
	return out, nil
}
