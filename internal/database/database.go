// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates and validates a pgxpool connection pool.
// It retries up to 5 times to accommodate containers starting up.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	// Sensible pool defaults for a small service.
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				break
			}
			pool.Close()
			err = fmt.Errorf("ping: %w", err)
		}
		log.Printf("db connect attempt %d/5 failed: %v - retrying in 2s", attempt, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return pool, nil
}

// schema is applied at boot. Statements are idempotent so restarting the
// server against an existing database is safe.
//
// The UNIQUE (event_id, member_id) index on team_members is load-bearing:
// it rejects a user joining two teams for the same event even if two
// registrations race past the in-transaction duplicate check.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id               UUID PRIMARY KEY,
	email            TEXT NOT NULL UNIQUE,
	password_hash    TEXT NOT NULL,
	name             TEXT NOT NULL,
	gender           TEXT NOT NULL DEFAULT '',
	stream           TEXT NOT NULL DEFAULT '',
	date_of_birth    DATE,
	passing_out_year INT,
	phone            TEXT NOT NULL DEFAULT '',
	address          TEXT NOT NULL DEFAULT '',
	bio              TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS events (
	id                    UUID PRIMARY KEY,
	event_name            TEXT NOT NULL,
	event_description     TEXT NOT NULL,
	department            TEXT NOT NULL DEFAULT '',
	venue                 TEXT NOT NULL DEFAULT '',
	category              TEXT NOT NULL,
	participation_type    TEXT NOT NULL,
	min_team_size         INT NOT NULL DEFAULT 1,
	max_team_size         INT NOT NULL DEFAULT 1,
	max_participants      INT NOT NULL DEFAULT 0,
	registration_fee      NUMERIC(10,2) NOT NULL DEFAULT 0,
	registration_deadline TIMESTAMPTZ,
	start_date            TIMESTAMPTZ,
	end_date              TIMESTAMPTZ,
	organizer             TEXT NOT NULL DEFAULT '',
	contact_info          TEXT NOT NULL DEFAULT '',
	prize_first           TEXT NOT NULL DEFAULT '',
	prize_second          TEXT NOT NULL DEFAULT '',
	prize_third           TEXT NOT NULL DEFAULT '',
	image_url             TEXT NOT NULL DEFAULT '',
	event_creator_id      UUID NOT NULL REFERENCES users(id),
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS teams (
	id         UUID PRIMARY KEY,
	event_id   UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	leader_id  UUID NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS team_members (
	team_id   UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
	member_id UUID NOT NULL REFERENCES users(id),
	event_id  UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	PRIMARY KEY (team_id, member_id),
	UNIQUE (event_id, member_id)
);

CREATE INDEX IF NOT EXISTS idx_events_creator ON events (event_creator_id);
CREATE INDEX IF NOT EXISTS idx_teams_event ON teams (event_id);
CREATE INDEX IF NOT EXISTS idx_team_members_event ON team_members (event_id);
CREATE INDEX IF NOT EXISTS idx_team_members_member ON team_members (member_id);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
