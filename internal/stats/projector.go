package stats

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Projector mirrors per-domain aggregates into a sqlite table so domain totals
// survive tab closes and daemon restarts. The JSON state file stays the source
// of truth for live data; this is a read-optimized projection.
type Projector struct {
	db *sql.DB
}

func NewProjector(dbPath string) (*Projector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	p := &Projector{db: db}
	if err := p.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (p *Projector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS domain_stats (
  domain TEXT PRIMARY KEY,
  total_time_ms INTEGER NOT NULL,
  sessions INTEGER NOT NULL,
  last_seen TEXT,
  updated_at TEXT NOT NULL
);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create domain_stats table: %w", err)
	}
	return nil
}

// UpsertDomains accumulates the given aggregates into the table. Totals only
// grow here; Reset is the single way back to zero.
func (p *Projector) UpsertDomains(ctx context.Context, domains []DomainStat) error {
	const stmt = `
INSERT INTO domain_stats (domain, total_time_ms, sessions, last_seen, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(domain) DO UPDATE SET
  total_time_ms=MAX(domain_stats.total_time_ms, excluded.total_time_ms),
  sessions=MAX(domain_stats.sessions, excluded.sessions),
  last_seen=excluded.last_seen,
  updated_at=excluded.updated_at;
`
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, d := range domains {
		var lastSeen string
		if !d.LastSeen.IsZero() {
			lastSeen = d.LastSeen.UTC().Format(time.RFC3339)
		}
		if _, err := tx.ExecContext(ctx, stmt, d.Domain, d.TotalTime, d.Sessions, lastSeen, now); err != nil {
			return fmt.Errorf("upsert %s: %w", d.Domain, err)
		}
	}
	return tx.Commit()
}

// TopDomains reads the n highest projected totals.
func (p *Projector) TopDomains(ctx context.Context, n int) ([]DomainStat, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT domain, total_time_ms, sessions, last_seen FROM domain_stats
		 ORDER BY total_time_ms DESC, domain ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query domain_stats: %w", err)
	}
	defer rows.Close()

	var out []DomainStat
	for rows.Next() {
		var d DomainStat
		var lastSeen string
		if err := rows.Scan(&d.Domain, &d.TotalTime, &d.Sessions, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan domain_stats: %w", err)
		}
		if lastSeen != "" {
			if ts, err := time.Parse(time.RFC3339, lastSeen); err == nil {
				d.LastSeen = ts
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Reset clears the projection (popup clear action).
func (p *Projector) Reset(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM domain_stats`); err != nil {
		return fmt.Errorf("reset domain_stats: %w", err)
	}
	return nil
}

func (p *Projector) Close() error {
	return p.db.Close()
}
