// Package sqlite stores content access rules in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

const repoType = "access_rules"

// AccessRulesRepository implements ports.AccessRulesRepository.
type AccessRulesRepository struct {
	db *sql.DB
}

// NewAccessRulesRepository opens the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func NewAccessRulesRepository(path string) (*AccessRulesRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, domain.NewRepositoryError("open", repoType, "failed to open database", err)
	}
	// sqlite allows one writer; a single connection also keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, domain.NewRepositoryError("open", repoType, "failed to connect", err)
	}

	repo := &AccessRulesRepository{db: db}
	if err := repo.migrate(); err != nil {
		_ = db.Close()
		return nil, domain.NewRepositoryError("migrate", repoType, "failed to apply schema", err)
	}
	return repo, nil
}

func (r *AccessRulesRepository) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS content_access (
		track_id      TEXT PRIMARY KEY,
		required_tier TEXT NOT NULL,
		updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := r.db.Exec(query)
	return err
}

// Rule returns the rule for one track.
func (r *AccessRulesRepository) Rule(ctx context.Context, trackID string) (domain.ContentAccess, error) {
	query := `SELECT track_id, required_tier FROM content_access WHERE track_id = ?`

	var rule domain.ContentAccess
	var tier string
	err := r.db.QueryRowContext(ctx, query, trackID).Scan(&rule.TrackID, &tier)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ContentAccess{}, domain.ErrAccessRuleNotFound
	}
	if err != nil {
		return domain.ContentAccess{}, domain.NewRepositoryError("Rule", repoType, "query failed", err)
	}
	rule.RequiredTier = domain.AccessTier(tier)
	return rule, nil
}

// Rules returns every stored rule ordered by track ID.
func (r *AccessRulesRepository) Rules(ctx context.Context) ([]domain.ContentAccess, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT track_id, required_tier FROM content_access ORDER BY track_id`)
	if err != nil {
		return nil, domain.NewRepositoryError("Rules", repoType, "query failed", err)
	}
	defer rows.Close()

	var rules []domain.ContentAccess
	for rows.Next() {
		var rule domain.ContentAccess
		var tier string
		if err := rows.Scan(&rule.TrackID, &tier); err != nil {
			return nil, domain.NewRepositoryError("Rules", repoType, "scan failed", err)
		}
		rule.RequiredTier = domain.AccessTier(tier)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewRepositoryError("Rules", repoType, "iteration failed", err)
	}
	return rules, nil
}

// SaveRule inserts or replaces a rule.
func (r *AccessRulesRepository) SaveRule(ctx context.Context, rule domain.ContentAccess) error {
	if rule.TrackID == "" {
		return domain.NewRepositoryError("SaveRule", repoType, "track id is required", nil)
	}
	query := `
	INSERT INTO content_access (track_id, required_tier, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(track_id) DO UPDATE SET
		required_tier = excluded.required_tier,
		updated_at    = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, rule.TrackID, string(rule.RequiredTier)); err != nil {
		return domain.NewRepositoryError("SaveRule", repoType, fmt.Sprintf("failed to save rule for %s", rule.TrackID), err)
	}
	return nil
}

// DeleteRule removes a rule. A missing rule is not an error.
func (r *AccessRulesRepository) DeleteRule(ctx context.Context, trackID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM content_access WHERE track_id = ?`, trackID); err != nil {
		return domain.NewRepositoryError("DeleteRule", repoType, "delete failed", err)
	}
	return nil
}

// Close closes the database.
func (r *AccessRulesRepository) Close() error {
	return r.db.Close()
}

var _ ports.AccessRulesRepository = (*AccessRulesRepository)(nil)
