package storage

import "database/sql"

// migrateV001 creates the initial schema: the restaurant cache, deals, and
// view-history tables with their query indexes. Every statement uses
// IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS restaurants (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			cuisine          TEXT NOT NULL DEFAULT '',
			address          TEXT NOT NULL DEFAULT '',
			lat              REAL NOT NULL,
			lng              REAL NOT NULL,
			price_tier       INTEGER NOT NULL DEFAULT 0,
			rating           REAL NOT NULL DEFAULT 0,
			near_transit     BOOLEAN NOT NULL DEFAULT 0,
			student_discount BOOLEAN NOT NULL DEFAULT 0,
			avg_price        REAL,
			price_source     TEXT NOT NULL DEFAULT 'unknown',
			open_now         BOOLEAN,
			image_url        TEXT NOT NULL DEFAULT '',
			thumb_path       TEXT NOT NULL DEFAULT '',
			cached_at        DATETIME NOT NULL,
			last_access      DATETIME NOT NULL,
			user_lat         REAL,
			user_lng         REAL
		)`,

		`CREATE TABLE IF NOT EXISTS deals (
			id              TEXT PRIMARY KEY,
			restaurant_id   TEXT NOT NULL,
			restaurant_name TEXT NOT NULL DEFAULT '',
			title           TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			original_price  REAL,
			deal_price      REAL NOT NULL,
			deal_type       TEXT NOT NULL DEFAULT 'daily',
			source          TEXT NOT NULL DEFAULT 'user-submitted',
			valid_days      INTEGER NOT NULL DEFAULT 0,
			start_time      TEXT NOT NULL DEFAULT '',
			end_time        TEXT NOT NULL DEFAULT '',
			valid_from      DATETIME,
			valid_until     DATETIME,
			upvotes         INTEGER NOT NULL DEFAULT 0,
			downvotes       INTEGER NOT NULL DEFAULT 0,
			report_count    INTEGER NOT NULL DEFAULT 0,
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS view_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			restaurant_id TEXT NOT NULL,
			viewed_at     DATETIME NOT NULL,
			source        TEXT NOT NULL
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_restaurants_geo         ON restaurants(lat, lng)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_avg_price   ON restaurants(avg_price)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_last_access ON restaurants(last_access)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_rating      ON restaurants(rating)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_transit     ON restaurants(near_transit)`,

		`CREATE INDEX IF NOT EXISTS idx_deals_restaurant  ON deals(restaurant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_deals_price       ON deals(deal_price)`,
		`CREATE INDEX IF NOT EXISTS idx_deals_valid_until ON deals(valid_until)`,
		`CREATE INDEX IF NOT EXISTS idx_deals_valid_days  ON deals(valid_days)`,
		`CREATE INDEX IF NOT EXISTS idx_deals_type        ON deals(deal_type)`,

		`CREATE INDEX IF NOT EXISTS idx_views_viewed_at  ON view_history(viewed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_views_restaurant ON view_history(restaurant_id)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
