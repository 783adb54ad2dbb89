package inspector

import (
	"context"
	"fmt"
	"slices"

	"github.com/haguru/seedkit/internal/interfaces"
	"github.com/haguru/seedkit/internal/models"
	"github.com/haguru/seedkit/pkg/helper"
)

const (
	ErrFailedToListCollections = "failed to list collections"
	ErrFailedToCount           = "failed to count documents"
	ErrFailedToListDocuments   = "failed to list documents"
)

// Report is what one inspection observed.
type Report struct {
	Collection  string
	Exists      bool
	Count       int64
	Investors   []models.Investor
	Collections []string
}

// Inspector reports on the investors collection without writing to it.
type Inspector struct {
	Repo   interfaces.InvestorRepository
	Logger interfaces.Logger
}

func NewInspector(repo interfaces.InvestorRepository, logger interfaces.Logger) *Inspector {
	return &Inspector{Repo: repo, Logger: logger}
}

// Inspect lists collections, then counts and lists investors when the
// collection exists. The full collection list is always logged last.
func (i *Inspector) Inspect(ctx context.Context) (*Report, error) {
	funcName := helper.ShortFuncName(helper.GetFuncName())
	collection := i.Repo.CollectionName()

	names, err := i.Repo.ListCollectionNames(ctx)
	if err != nil {
		i.Logger.Error(ErrFailedToListCollections, "func", funcName, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToListCollections, err)
	}
	slices.Sort(names)

	report := &Report{
		Collection:  collection,
		Exists:      slices.Contains(names, collection),
		Collections: names,
	}

	if !report.Exists {
		i.Logger.Info("Collection does not exist yet; it will be created automatically on the first write",
			"collection", collection)
	} else {
		i.Logger.Info("Collection exists", "collection", collection)

		report.Count, err = i.Repo.CountInvestors(ctx)
		if err != nil {
			i.Logger.Error(ErrFailedToCount, "func", funcName, "collection", collection, "error", err)
			return nil, fmt.Errorf("%s: %w", ErrFailedToCount, err)
		}
		i.Logger.Info("Document count", "collection", collection, "count", report.Count)

		if report.Count > 0 {
			report.Investors, err = i.Repo.ListInvestors(ctx)
			if err != nil {
				i.Logger.Error(ErrFailedToListDocuments, "func", funcName, "collection", collection, "error", err)
				return nil, fmt.Errorf("%s: %w", ErrFailedToListDocuments, err)
			}
			for n, investor := range report.Investors {
				i.Logger.Info("Investor", "index", n+1, "name", investor.Name, "email", investor.Email)
			}
		}
	}

	i.Logger.Info("Collections in database", "count", len(names), "collections", names)
	return report, nil
}
