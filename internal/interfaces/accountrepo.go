package interfaces

import (
	"context"

	"github.com/haguru/seedkit/internal/models"
)

// AccountRepository defines the contract for storing and retrieving accounts
// of a single role. Each role lives in its own collection.
type AccountRepository interface {
	// FindByEmailOrUsername returns the account matching either key, or nil if none does.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.Account, error)
	// AddAccount inserts the account and returns its hex ID.
	AddAccount(ctx context.Context, account models.Account) (string, error)
	// EnsureIndices creates the unique email and username indexes.
	EnsureIndices(ctx context.Context) error
}
