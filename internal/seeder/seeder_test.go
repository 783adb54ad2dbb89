package seeder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/haguru/seedkit/internal/interfaces"
	"github.com/haguru/seedkit/internal/interfaces/mocks"
	"github.com/haguru/seedkit/internal/models"
	"github.com/haguru/seedkit/pkg/zerolog"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestSeeder(repo interfaces.AccountRepository) *Seeder {
	s := NewSeeder(repo, zerolog.NewZerologLoggerWithWriter("test", io.Discard), structValidator.New(), bcrypt.MinCost)
	s.Now = func() time.Time { return fixedNow }
	return s
}

func TestDefaultsFor(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		want    Defaults
		wantErr bool
	}{
		{
			name: "admin",
			role: models.RoleAdmin,
			want: Defaults{FullName: "Administrator", Email: "admin@gmail.com", Username: "admin", Password: "admin123"},
		},
		{
			name: "user",
			role: models.RoleUser,
			want: Defaults{FullName: "Default User", Email: "user@gmail.com", Username: "user", Password: "user123"},
		},
		{
			name:    "unknown",
			role:    models.Role("investor"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultsFor(tt.role)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeeder_Seed(t *testing.T) {
	defaults := AdminDefaults()
	existing := &models.Account{
		ID:        primitive.NewObjectID(),
		FullName:  "Administrator",
		Email:     "admin@gmail.com",
		Username:  "admin",
		Password:  "$2a$10$existing",
		CreatedAt: fixedNow.Add(-time.Hour),
	}
	createdAccount := mock.MatchedBy(func(a models.Account) bool {
		return !a.ID.IsZero() &&
			a.FullName == "Administrator" &&
			a.Email == "admin@gmail.com" &&
			a.Username == "admin" &&
			!a.IsProfileComplete &&
			a.CreatedAt.Equal(fixedNow) &&
			a.Password != "admin123" &&
			bcrypt.CompareHashAndPassword([]byte(a.Password), []byte("admin123")) == nil
	})

	tests := []struct {
		name          string
		defaults      Defaults
		cost          int
		setup         func(repo *mocks.MockAccountRepository)
		wantOutcome   Outcome
		wantID        string
		wantErr       string
		wantDuplicate bool
		wantNoWrite   bool
		wantLogged    []string
		wantNotLogged []string
	}{
		{
			name:     "empty collection creates the account",
			defaults: defaults,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.On("EnsureIndices", mock.Anything).Return(nil).Once()
				repo.On("FindByEmailOrUsername", mock.Anything, "admin@gmail.com", "admin").Return(nil, nil).Once()
				repo.On("AddAccount", mock.Anything, createdAccount).Return("65f0c0ffee0000000000abcd", nil).Once()
			},
			wantOutcome: OutcomeCreated,
			wantID:      "65f0c0ffee0000000000abcd",
		},
		{
			name:     "existing account is left untouched",
			defaults: defaults,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.On("FindByEmailOrUsername", mock.Anything, "admin@gmail.com", "admin").Return(existing, nil).Once()
			},
			wantOutcome: OutcomeExisting,
			wantID:      existing.ID.Hex(),
			wantNoWrite: true,
		},
		{
			name:     "existing account never builds indexes",
			defaults: defaults,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.On("FindByEmailOrUsername", mock.Anything, "admin@gmail.com", "admin").Return(existing, nil).Once()
				// would fail if reached: pre-existing duplicates elsewhere in the collection
				repo.On("EnsureIndices", mock.Anything).
					Return(errors.New("E11000 duplicate key error: index build failed")).Maybe()
			},
			wantOutcome: OutcomeExisting,
			wantID:      existing.ID.Hex(),
			wantNoWrite: true,
		},
		{
			name:     "insert losing a race reports already exists",
			defaults: defaults,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.On("EnsureIndices", mock.Anything).Return(nil).Once()
				repo.On("FindByEmailOrUsername", mock.Anything, "admin@gmail.com", "admin").Return(nil, nil).Once()
				repo.On("AddAccount", mock.Anything, mock.Anything).
					Return("", fmt.Errorf("account with email 'admin@gmail.com' already exists: %w", interfaces.ErrDuplicateKey)).Once()
			},
			wantErr:       ErrAccountExists,
			wantDuplicate: true,
			wantNotLogged: []string{ErrAccountExists},
		},
		{
			name:     "generic insert failure",
			defaults: defaults,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.On("EnsureIndices", mock.Anything).Return(nil).Once()
				repo.On("FindByEmailOrUsername", mock.Anything, "admin@gmail.com", "admin").Return(nil, nil).Once()
				repo.On("AddAccount", mock.Anything, mock.Anything).Return("", errors.New("not primary")).Once()
			},
			wantErr: ErrFailedToSeed,
		},
		{
			name:     "lookup failure",
			defaults: defaults,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.On("FindByEmailOrUsername", mock.Anything, "admin@gmail.com", "admin").Return(nil, errors.New("timeout")).Once()
			},
			wantErr:     ErrFailedToLookup,
			wantNoWrite: true,
		},
		{
			name:     "index failure",
			defaults: defaults,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.On("FindByEmailOrUsername", mock.Anything, "admin@gmail.com", "admin").Return(nil, nil).Once()
				repo.On("EnsureIndices", mock.Anything).Return(errors.New("duplicate values in collection")).Once()
			},
			wantErr:    ErrFailedToEnsureIndex,
			wantLogged: []string{ErrFailedToEnsureIndex},
		},
		{
			name:     "invalid defaults never reach the database",
			defaults: Defaults{FullName: "Broken", Email: "not-an-email", Username: "broken", Password: "x"},
			setup: func(repo *mocks.MockAccountRepository) {
				repo.On("EnsureIndices", mock.Anything).Return(nil).Once()
				repo.On("FindByEmailOrUsername", mock.Anything, "not-an-email", "broken").Return(nil, nil).Once()
			},
			wantErr:    ErrInvalidAccount,
			wantLogged: []string{ErrInvalidAccount, "func=seeder."},
		},
		{
			name:     "bad bcrypt cost",
			defaults: defaults,
			cost:     bcrypt.MaxCost + 1,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.On("EnsureIndices", mock.Anything).Return(nil).Once()
				repo.On("FindByEmailOrUsername", mock.Anything, "admin@gmail.com", "admin").Return(nil, nil).Once()
			},
			wantErr: ErrFailedToHashPassword,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			repo := mocks.NewMockAccountRepository(t)
			tt.setup(repo)
			s := newTestSeeder(repo)
			s.Logger = zerolog.NewZerologLoggerWithWriter("test", &buf)
			s.Logger.SetLevel("info")
			if tt.cost != 0 {
				s.BcryptCost = tt.cost
			}

			got, err := s.Seed(context.Background(), models.RoleAdmin, tt.defaults)
			if tt.wantNoWrite {
				repo.AssertNotCalled(t, "EnsureIndices", mock.Anything)
				repo.AssertNotCalled(t, "AddAccount", mock.Anything, mock.Anything)
			}
			for _, want := range tt.wantLogged {
				assert.Contains(t, buf.String(), want)
			}
			for _, unwanted := range tt.wantNotLogged {
				assert.NotContains(t, buf.String(), unwanted)
			}
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Equal(t, tt.wantDuplicate, errors.Is(err, interfaces.ErrDuplicateKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, got.Outcome)
			assert.Equal(t, tt.wantID, got.ID)
			require.NotNil(t, got.Account)
			assert.Equal(t, "admin@gmail.com", got.Account.Email)
		})
	}
}

// memoryRepo enforces unique email and username like the real indexes.
type memoryRepo struct {
	mu       sync.Mutex
	accounts []models.Account
	inserts  int
}

func (r *memoryRepo) EnsureIndices(ctx context.Context) error { return nil }

func (r *memoryRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email || a.Username == username {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) AddAccount(ctx context.Context, account models.Account) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == account.Email || a.Username == account.Username {
			return "", fmt.Errorf("E11000: %w", interfaces.ErrDuplicateKey)
		}
	}
	r.inserts++
	r.accounts = append(r.accounts, account)
	return account.ID.Hex(), nil
}

func TestSeeder_SeedIsIdempotent(t *testing.T) {
	for _, role := range []models.Role{models.RoleAdmin, models.RoleUser} {
		t.Run(role.String(), func(t *testing.T) {
			repo := &memoryRepo{}
			s := newTestSeeder(repo)
			defaults, err := DefaultsFor(role)
			require.NoError(t, err)

			first, err := s.Seed(context.Background(), role, defaults)
			require.NoError(t, err)
			assert.Equal(t, OutcomeCreated, first.Outcome)

			second, err := s.Seed(context.Background(), role, defaults)
			require.NoError(t, err)
			assert.Equal(t, OutcomeExisting, second.Outcome)
			assert.Equal(t, first.ID, second.ID)

			require.Len(t, repo.accounts, 1)
			assert.Equal(t, 1, repo.inserts)
			stored := repo.accounts[0]
			assert.NotEqual(t, defaults.Password, stored.Password)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(defaults.Password)))
			assert.False(t, stored.IsProfileComplete)
		})
	}
}

func TestSeeder_ConcurrentSeedsKeepOneAccount(t *testing.T) {
	repo := &memoryRepo{}
	s := newTestSeeder(repo)

	const runs = 8
	var wg sync.WaitGroup
	errs := make([]error, runs)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Seed(context.Background(), models.RoleAdmin, AdminDefaults())
		}(i)
	}
	wg.Wait()

	require.Len(t, repo.accounts, 1)
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, interfaces.ErrDuplicateKey)
		}
	}
}
