package interfaces

import (
	"context"

	"github.com/haguru/seedkit/internal/models"
)

// InvestorRepository is the read-only view over the investors collection.
type InvestorRepository interface {
	CollectionName() string
	ListCollectionNames(ctx context.Context) ([]string, error)
	CountInvestors(ctx context.Context) (int64, error)
	ListInvestors(ctx context.Context) ([]models.Investor, error)
}
