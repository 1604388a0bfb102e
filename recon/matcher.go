package recon

import (
	"context"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"golang.org/x/sync/errgroup"
)

type MatchStatus string

const (
	MatchStatusExact       MatchStatus = "exact_match"
	MatchStatusAlias       MatchStatus = "alias_match"
	MatchStatusSimilar     MatchStatus = "similar_match"
	MatchStatusNewRequired MatchStatus = "new_required"
)

type Entity struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Candidate is one partial-search hit. MatchedName is the text the token
// search actually hit (the canonical name, or the alias label for hits from
// the alias table) and is what gets scored.
type Candidate struct {
	Entity      Entity
	MatchedName string
}

// MatchResult classifies one query name. Exactly one of Match (exact/alias)
// or Suggestions (similar) is populated; new_required carries neither.
type MatchResult struct {
	QueryName   string      `json:"query_name"`
	Status      MatchStatus `json:"status"`
	Match       *Entity     `json:"match,omitempty"`
	Suggestions []Entity    `json:"suggestions,omitempty"`
}

// EntityRepo is the store surface one canonical entity type (customers or
// products) exposes to the matcher. Equality lookups are case-insensitive
// and return nil without error when nothing qualifies; a dangling alias is
// a nil result, not an error.
type EntityRepo interface {
	FindExact(ctx context.Context, name string) (*Entity, error)
	FindAlias(ctx context.Context, name string) (*Entity, error)
	SearchCandidates(ctx context.Context, tokens []string, limit int) ([]Candidate, error)
	SearchAliasCandidates(ctx context.Context, tokens []string, limit int) ([]Candidate, error)
}

// Candidate-generation cost caps for tier 3.
const (
	canonicalCandidateLimit = 150
	aliasCandidateLimit     = 200
	maxSearchTokens         = 8
)

// Matcher runs the three-tier strategy (exact -> alias -> fuzzy candidates)
// for one entity type. Tiers are strictly ordered and short-circuit: a
// higher-tier hit suppresses the candidate search entirely.
type Matcher struct {
	repo          EntityRepo
	threshold     float64
	suggestionCap int
}

func NewMatcher(repo EntityRepo) *Matcher {
	return &Matcher{
		repo:          repo,
		threshold:     SimilarityThreshold,
		suggestionCap: config.SearchLimit,
	}
}

// Match classifies queryName against the repo. Any store error aborts the
// match and is fatal for the enclosing batch; there is no best-effort
// fallback.
func (m *Matcher) Match(ctx context.Context, queryName string) (MatchResult, error) {
	result := MatchResult{QueryName: queryName, Status: MatchStatusNewRequired}

	entity, err := m.repo.FindExact(ctx, queryName)
	if err != nil {
		return result, err
	}
	if entity != nil {
		result.Status = MatchStatusExact
		result.Match = entity
		return result, nil
	}

	entity, err = m.repo.FindAlias(ctx, queryName)
	if err != nil {
		return result, err
	}
	if entity != nil {
		result.Status = MatchStatusAlias
		result.Match = entity
		return result, nil
	}

	suggestions, err := m.suggest(ctx, queryName)
	if err != nil {
		return result, err
	}
	if len(suggestions) > 0 {
		result.Status = MatchStatusSimilar
		result.Suggestions = suggestions
	}
	return result, nil
}

func (m *Matcher) suggest(ctx context.Context, queryName string) ([]Entity, error) {
	tokens := Tokens(queryName)
	if len(tokens) == 0 {
		return nil, nil
	}
	if len(tokens) > maxSearchTokens {
		tokens = tokens[:maxSearchTokens]
	}

	// The canonical and alias searches are independent; issue both at once.
	var canonical, aliased []Candidate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		canonical, err = m.repo.SearchCandidates(gctx, tokens, canonicalCandidateLimit)
		return err
	})
	g.Go(func() error {
		var err error
		aliased, err = m.repo.SearchAliasCandidates(gctx, tokens, aliasCandidateLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	suggestions := make([]Entity, 0, m.suggestionCap)
	for _, cand := range append(canonical, aliased...) {
		if _, dup := seen[cand.Entity.ID]; dup {
			continue
		}
		if Similarity(queryName, cand.MatchedName) < m.threshold {
			continue
		}
		seen[cand.Entity.ID] = struct{}{}
		suggestions = append(suggestions, cand.Entity)
		if len(suggestions) >= m.suggestionCap {
			break
		}
	}
	return suggestions, nil
}
