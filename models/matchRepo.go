package models

import (
	"context"
	"errors"
	"strings"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/recon"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"gorm.io/gorm"
)

// matchCandidateRow is the scan target for candidate searches. MatchedName
// carries the text the token search hit (canonical name or alias label).
type matchCandidateRow struct {
	ID          int
	Name        string
	MatchedName string
}

func tokenLikeCondition(column string, tokens []string) (string, []interface{}) {
	conds := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		conds = append(conds, "LOWER("+column+") LIKE ?")
		args = append(args, "%"+strings.ToLower(tok)+"%")
	}
	return strings.Join(conds, " OR "), args
}

func toCandidates(rows []matchCandidateRow) []recon.Candidate {
	candidates := make([]recon.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, recon.Candidate{
			Entity:      recon.Entity{ID: row.ID, Name: row.Name},
			MatchedName: row.MatchedName,
		})
	}
	return candidates
}

func findExactEntity(ctx context.Context, table string, name string) (*recon.Entity, error) {
	db := config.GetDB()
	var row matchCandidateRow
	err := db.WithContext(ctx).
		Table(table).
		Select("id, name").
		Where("LOWER(name) = LOWER(?)", name).
		Order("id ASC").
		Limit(1).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.NewStoreError(table+".FindExact", err)
	}
	return &recon.Entity{ID: row.ID, Name: row.Name}, nil
}

// findAliasEntity resolves an alias label to its canonical entity through an
// inner join, so a dangling alias (entity row gone) yields no match rather
// than an error.
func findAliasEntity(ctx context.Context, aliasTable string, entityTable string, fkColumn string, name string) (*recon.Entity, error) {
	db := config.GetDB()
	var row matchCandidateRow
	err := db.WithContext(ctx).
		Table(aliasTable).
		Select(entityTable+".id AS id, "+entityTable+".name AS name").
		Joins("JOIN "+entityTable+" ON "+entityTable+".id = "+aliasTable+"."+fkColumn).
		Where("LOWER("+aliasTable+".alias_name) = LOWER(?)", name).
		Order(entityTable + ".id ASC").
		Limit(1).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.NewStoreError(aliasTable+".FindAlias", err)
	}
	return &recon.Entity{ID: row.ID, Name: row.Name}, nil
}

func searchEntityCandidates(ctx context.Context, table string, tokens []string, limit int) ([]recon.Candidate, error) {
	cond, args := tokenLikeCondition("name", tokens)
	if cond == "" {
		return nil, nil
	}
	db := config.GetDB()
	var rows []matchCandidateRow
	err := db.WithContext(ctx).
		Table(table).
		Select("id, name, name AS matched_name").
		Where(cond, args...).
		Order("id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, utils.NewStoreError(table+".SearchCandidates", err)
	}
	return toCandidates(rows), nil
}

func searchAliasCandidates(ctx context.Context, aliasTable string, entityTable string, fkColumn string, tokens []string, limit int) ([]recon.Candidate, error) {
	cond, args := tokenLikeCondition(aliasTable+".alias_name", tokens)
	if cond == "" {
		return nil, nil
	}
	db := config.GetDB()
	var rows []matchCandidateRow
	err := db.WithContext(ctx).
		Table(aliasTable).
		Select(entityTable+".id AS id, "+entityTable+".name AS name, "+aliasTable+".alias_name AS matched_name").
		Joins("JOIN "+entityTable+" ON "+entityTable+".id = "+aliasTable+"."+fkColumn).
		Where(cond, args...).
		Order(entityTable + ".id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, utils.NewStoreError(aliasTable+".SearchAliasCandidates", err)
	}
	return toCandidates(rows), nil
}

// CustomerMatchRepo adapts the customers and customer_aliases tables to the
// matching engine's store surface.
type CustomerMatchRepo struct{}

func (CustomerMatchRepo) FindExact(ctx context.Context, name string) (*recon.Entity, error) {
	return findExactEntity(ctx, "customers", name)
}

func (CustomerMatchRepo) FindAlias(ctx context.Context, name string) (*recon.Entity, error) {
	return findAliasEntity(ctx, "customer_aliases", "customers", "customer_id", name)
}

func (CustomerMatchRepo) SearchCandidates(ctx context.Context, tokens []string, limit int) ([]recon.Candidate, error) {
	return searchEntityCandidates(ctx, "customers", tokens, limit)
}

func (CustomerMatchRepo) SearchAliasCandidates(ctx context.Context, tokens []string, limit int) ([]recon.Candidate, error) {
	return searchAliasCandidates(ctx, "customer_aliases", "customers", "customer_id", tokens, limit)
}

// ProductMatchRepo adapts the products and product_aliases tables.
type ProductMatchRepo struct{}

func (ProductMatchRepo) FindExact(ctx context.Context, name string) (*recon.Entity, error) {
	return findExactEntity(ctx, "products", name)
}

func (ProductMatchRepo) FindAlias(ctx context.Context, name string) (*recon.Entity, error) {
	return findAliasEntity(ctx, "product_aliases", "products", "product_id", name)
}

func (ProductMatchRepo) SearchCandidates(ctx context.Context, tokens []string, limit int) ([]recon.Candidate, error) {
	return searchEntityCandidates(ctx, "products", tokens, limit)
}

func (ProductMatchRepo) SearchAliasCandidates(ctx context.Context, tokens []string, limit int) ([]recon.Candidate, error) {
	return searchAliasCandidates(ctx, "product_aliases", "products", "product_id", tokens, limit)
}
