package directory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetProvider(ctx context.Context, providerID uuid.UUID) (*Provider, error)
	GetIdentity(ctx context.Context, userID uuid.UUID) (*Identity, error)
	ListProviders(ctx context.Context, specialization string) ([]*Provider, error)
	ListSpecializations(ctx context.Context) ([]string, error)
}
