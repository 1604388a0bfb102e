package recon

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Cap on concurrent store lookups per reconciliation call so large imports
// cannot overwhelm the database.
const defaultMatchConcurrency = 8

type Request struct {
	Customers []string `json:"customers"`
	Products  []string `json:"products"`
}

type Report struct {
	Customers []MatchResult `json:"customers"`
	Products  []MatchResult `json:"products"`
}

// Reconciler drives the matcher over a batch of imported names for both
// entity types. Matching is read-only, so names run concurrently; all
// caches live per call, never process-wide.
type Reconciler struct {
	customers   *Matcher
	products    *Matcher
	concurrency int
}

func NewReconciler(customers EntityRepo, products EntityRepo) *Reconciler {
	return &Reconciler{
		customers:   NewMatcher(customers),
		products:    NewMatcher(products),
		concurrency: defaultMatchConcurrency,
	}
}

// Reconcile classifies every name in both lists. Results are positionally
// 1:1 with the input, duplicates included; the two lists are processed
// concurrently.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (Report, error) {
	report := Report{
		Customers: make([]MatchResult, len(req.Customers)),
		Products:  make([]MatchResult, len(req.Products)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.matchAll(gctx, r.customers, req.Customers, report.Customers)
	})
	g.Go(func() error {
		return r.matchAll(gctx, r.products, req.Products, report.Products)
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return report, nil
}

func (r *Reconciler) matchAll(ctx context.Context, m *Matcher, names []string, out []MatchResult) error {
	// Per-call cache: a name repeated within one request hits the store once.
	var mu sync.Mutex
	cache := make(map[string]MatchResult)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, name := range names {
		i, name := i, name
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			// Blank names never reach the store.
			out[i] = MatchResult{QueryName: name, Status: MatchStatusNewRequired}
			continue
		}

		g.Go(func() error {
			key := strings.ToLower(trimmed)

			mu.Lock()
			cached, ok := cache[key]
			mu.Unlock()
			if !ok {
				var err error
				cached, err = m.Match(gctx, trimmed)
				if err != nil {
					return err
				}
				mu.Lock()
				cache[key] = cached
				mu.Unlock()
			}

			cached.QueryName = name
			out[i] = cached
			return nil
		})
	}
	return g.Wait()
}
