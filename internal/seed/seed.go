// Package seed bootstraps the auth schema and loads the sample tenant used
// for local development. Seeding is idempotent: existing data short-circuits
// the insert pass.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		domain TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS tenants (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS user_tenants (
		user_id TEXT NOT NULL REFERENCES users(id),
		tenant_id TEXT NOT NULL REFERENCES tenants(id),
		status TEXT NOT NULL DEFAULT 'active',
		PRIMARY KEY (user_id, tenant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS roles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS permissions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		expires_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS revoked_tokens (
		id TEXT PRIMARY KEY,
		revoked_at TIMESTAMP
	)`,
}

// Tables lists every seeded table in verification order.
var Tables = []string{
	"organizations", "tenants", "users", "user_tenants",
	"roles", "permissions", "refresh_tokens", "revoked_tokens",
}

// Seeder runs migrations, inserts the sample tenant, and verifies counts.
type Seeder struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, logger: logger}
}

// Migrate creates all tables that do not exist yet.
func (s *Seeder) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	s.logger.Info("migrations_applied", "tables", len(schema))
	return nil
}

// InsertSampleData loads the Acme fixture set. When organizations already
// hold rows the pass is skipped entirely.
func (s *Seeder) InsertSampleData(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM organizations").Scan(&count); err != nil {
		return fmt.Errorf("count organizations: %w", err)
	}
	if count > 0 {
		s.logger.Info("sample_data_present", "organizations", count)
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	orgID := newID()
	tenantID := newID()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO organizations (id, name, domain, status) VALUES (?, ?, ?, 'active')",
		orgID, "Acme Corporation", "acme.com"); err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO tenants (id, organization_id, name, slug, status) VALUES (?, ?, ?, ?, 'active')",
		tenantID, orgID, "Acme Production", "acme-prod"); err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}

	for _, email := range []string{"admin@acme.com", "user@acme.com"} {
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		userID := newID()
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, email, password_hash, status) VALUES (?, ?, ?, 'active')",
			userID, email, string(hash)); err != nil {
			return fmt.Errorf("insert user %s: %w", email, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO user_tenants (user_id, tenant_id, status) VALUES (?, ?, 'active')",
			userID, tenantID); err != nil {
			return fmt.Errorf("link user %s: %w", email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("sample_data_inserted", "organization", "Acme Corporation", "tenant", "acme-prod")
	return nil
}

// Counts reports the row count per seeded table.
func (s *Seeder) Counts(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int, len(Tables))
	for _, table := range Tables {
		var count int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		out[table] = count
	}
	return out, nil
}

// Run migrates, seeds, and verifies in one pass.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}
	if err := s.InsertSampleData(ctx); err != nil {
		return err
	}
	counts, err := s.Counts(ctx)
	if err != nil {
		return err
	}
	for _, table := range Tables {
		s.logger.Info("table_count", "table", table, "rows", counts[table])
	}
	return nil
}

// newID matches the stored identifier format: a UUID with dashes stripped.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
