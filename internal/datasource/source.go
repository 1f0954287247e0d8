// Package datasource defines where banking data comes from and how a failing
// live source degrades to the embedded dataset.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"
)

// Source fetches raw banking data.
type Source interface {
	FetchAccounts(ctx context.Context) ([]models.RawAccount, error)
	FetchTransactions(ctx context.Context) ([]models.RawTransaction, error)
	FetchCategories(ctx context.Context) ([]models.RawCategory, error)
}

// Status describes the most recent fetch of each resource.
type Status struct {
	UsedFallback bool
	Errors       []error
	// Resources lists the resources served by the fallback, in fetch order.
	Resources []string
}

// FallbackSource serves primary data and switches to the fallback, per
// resource, whenever the primary fails.
type FallbackSource struct {
	primary  Source
	fallback Source
	logger   logging.Logger

	mu   sync.Mutex
	last map[string]error
	seq  []string
}

// NewFallbackSource wraps primary with fallback.
func NewFallbackSource(primary, fallback Source, logger logging.Logger) *FallbackSource {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &FallbackSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		last:     make(map[string]error),
	}
}

// FetchAccounts implements Source.
func (f *FallbackSource) FetchAccounts(ctx context.Context) ([]models.RawAccount, error) {
	return fetch(ctx, f, "accounts", f.primary.FetchAccounts, f.fallback.FetchAccounts)
}

// FetchTransactions implements Source.
func (f *FallbackSource) FetchTransactions(ctx context.Context) ([]models.RawTransaction, error) {
	return fetch(ctx, f, "transactions", f.primary.FetchTransactions, f.fallback.FetchTransactions)
}

// FetchCategories implements Source.
func (f *FallbackSource) FetchCategories(ctx context.Context) ([]models.RawCategory, error) {
	return fetch(ctx, f, "categories", f.primary.FetchCategories, f.fallback.FetchCategories)
}

// Status returns the outcome of the last fetch of every resource fetched so
// far.
func (f *FallbackSource) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	var st Status
	for _, resource := range f.seq {
		if err := f.last[resource]; err != nil {
			st.UsedFallback = true
			st.Errors = append(st.Errors, err)
			st.Resources = append(st.Resources, resource)
		}
	}
	return st
}

func (f *FallbackSource) record(resource string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, seen := f.last[resource]; !seen {
		f.seq = append(f.seq, resource)
	}
	f.last[resource] = err
}

func fetch[T any](
	ctx context.Context,
	f *FallbackSource,
	resource string,
	primary, fallback func(context.Context) ([]T, error),
) ([]T, error) {
	items, err := primary(ctx)
	if err == nil {
		f.record(resource, nil)
		return items, nil
	}
	// A caller that gave up is not a source failure. Client timeouts still
	// fall through to the fallback.
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil, err
	}

	f.record(resource, err)
	f.logger.WithError(err).Warn("Primary data source failed, using fallback data",
		logging.F(logging.FieldResource, resource))

	items, fbErr := fallback(ctx)
	if fbErr != nil {
		return nil, fmt.Errorf("fetch %s: fallback failed after %v: %w", resource, err, fbErr)
	}
	return items, nil
}
