package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haguru/seedkit/internal/interfaces"
	"github.com/haguru/seedkit/internal/models"
	"github.com/haguru/seedkit/pkg/helper"

	structValidator "github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Outcome reports what a seed run did.
type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeExisting Outcome = "existing"
)

// Defaults are the plaintext values of the account to seed.
type Defaults struct {
	FullName string
	Email    string
	Username string
	Password string
}

// AdminDefaults returns the bootstrap administrator.
func AdminDefaults() Defaults {
	return Defaults{
		FullName: DefaultAdminFullName,
		Email:    DefaultAdminEmail,
		Username: DefaultAdminUsername,
		Password: DefaultAdminPassword,
	}
}

// UserDefaults returns the bootstrap end user.
func UserDefaults() Defaults {
	return Defaults{
		FullName: DefaultUserFullName,
		Email:    DefaultUserEmail,
		Username: DefaultUserUsername,
		Password: DefaultUserPassword,
	}
}

// DefaultsFor returns the bootstrap values of role.
func DefaultsFor(role models.Role) (Defaults, error) {
	switch role {
	case models.RoleAdmin:
		return AdminDefaults(), nil
	case models.RoleUser:
		return UserDefaults(), nil
	default:
		return Defaults{}, fmt.Errorf("no defaults for role %q", role)
	}
}

// Result is the outcome of Seed and the account it found or created.
type Result struct {
	Outcome Outcome
	ID      string
	Account *models.Account
}

type Seeder struct {
	Repo       interfaces.AccountRepository
	Logger     interfaces.Logger
	Validator  *structValidator.Validate
	BcryptCost int
	Now        func() time.Time
}

// NewSeeder creates a Seeder using cost for bcrypt.
func NewSeeder(repo interfaces.AccountRepository, logger interfaces.Logger, validator *structValidator.Validate, cost int) *Seeder {
	return &Seeder{
		Repo:       repo,
		Logger:     logger,
		Validator:  validator,
		BcryptCost: cost,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

// Seed makes sure an account matching defaults exists.
// A found account is returned without any write. Otherwise the unique
// indexes are ensured before the insert; an insert that loses a race
// returns an error wrapping interfaces.ErrDuplicateKey.
func (s *Seeder) Seed(ctx context.Context, role models.Role, defaults Defaults) (*Result, error) {
	funcName := helper.ShortFuncName(helper.GetFuncName())
	s.Logger.Debug("Entering function", "func", funcName, "role", role.String())
	defer s.Logger.Debug("Exiting function", "func", funcName, "role", role.String())

	existing, err := s.Repo.FindByEmailOrUsername(ctx, defaults.Email, defaults.Username)
	if err != nil {
		s.Logger.Error(ErrFailedToLookup, "func", funcName, "role", role.String(), "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToLookup, err)
	}
	if existing != nil {
		return &Result{Outcome: OutcomeExisting, ID: existing.ID.Hex(), Account: existing}, nil
	}

	if err := s.Repo.EnsureIndices(ctx); err != nil {
		s.Logger.Error(ErrFailedToEnsureIndex, "func", funcName, "role", role.String(), "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToEnsureIndex, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaults.Password), s.BcryptCost)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "role", role.String(), "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}

	account := models.NewAccount(defaults.FullName, defaults.Email, defaults.Username, string(hashedPassword), s.Now())
	account.ID = primitive.NewObjectID()
	if s.Validator != nil {
		if err := s.Validator.Struct(account); err != nil {
			s.Logger.Error(ErrInvalidAccount, "func", funcName, "role", role.String(), "error", err)
			return nil, fmt.Errorf("%s: %w", ErrInvalidAccount, err)
		}
	}

	id, err := s.Repo.AddAccount(ctx, *account)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			s.Logger.Debug(ErrAccountExists, "func", funcName, "role", role.String(),
				"email", defaults.Email, "username", defaults.Username)
			return nil, fmt.Errorf("%s: %w", ErrAccountExists, err)
		}
		s.Logger.Error(ErrFailedToSeed, "func", funcName, "role", role.String(), "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToSeed, err)
	}

	return &Result{Outcome: OutcomeCreated, ID: id, Account: account}, nil
}
