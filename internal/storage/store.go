package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/deal"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/geo"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
)

// Store defines the interface for local CheapEats data operations.
type Store interface {
	UpsertRestaurants(ctx context.Context, rows []RestaurantRow) error
	GetRestaurant(ctx context.Context, id string) (*RestaurantRow, error)
	RestaurantsNear(ctx context.Context, center geo.Coordinate, radiusDeg float64) ([]RestaurantRow, error)
	RestaurantsByRecency(ctx context.Context, limit int) ([]RestaurantRow, error)
	RestaurantIDs(ctx context.Context) ([]string, error)
	TouchRestaurant(ctx context.Context, id string, at time.Time) error
	SetThumbPath(ctx context.Context, id, path string) error
	PruneRestaurants(ctx context.Context, olderThan time.Time) (int64, error)
	EvictLRU(ctx context.Context, keep int) (int64, error)
	CountRestaurants(ctx context.Context) (int64, error)
	DeleteAllRestaurants(ctx context.Context) error

	AddDeal(ctx context.Context, d *deal.Deal) error
	GetDeal(ctx context.Context, id string) (*deal.Deal, error)
	DealsForRestaurant(ctx context.Context, restaurantID string) ([]deal.Deal, error)
	ListDeals(ctx context.Context) ([]deal.Deal, error)
	VoteDeal(ctx context.Context, id string, up bool) error
	ReportDeal(ctx context.Context, id string) error
	PruneExpiredDeals(ctx context.Context, now time.Time) (int64, error)

	AddView(ctx context.Context, entry *ViewEntry) error
	ViewedIDsSince(ctx context.Context, source ViewSource, since time.Time) ([]string, error)
	PruneViews(ctx context.Context, olderThan time.Time) (int64, error)

	GetStats(ctx context.Context) (*Stats, error)
	PurgeAll(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements for the hot paths
	upsertRestaurant *sql.Stmt
	getRestaurant    *sql.Stmt
	touchRestaurant  *sql.Stmt
	setThumbPath     *sql.Stmt
	insertView       *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and
// migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

const restaurantColumns = `id, name, cuisine, address, lat, lng, price_tier, rating,
	near_transit, student_discount, avg_price, price_source, open_now,
	image_url, thumb_path, cached_at, last_access, user_lat, user_lng`

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.upsertRestaurant, err = s.db.Prepare(`
		INSERT OR REPLACE INTO restaurants (` + restaurantColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.getRestaurant, err = s.db.Prepare(`
		SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = ?
	`)
	if err != nil {
		return err
	}

	s.touchRestaurant, err = s.db.Prepare(`
		UPDATE restaurants SET last_access = ? WHERE id = ?
	`)
	if err != nil {
		return err
	}

	s.setThumbPath, err = s.db.Prepare(`
		UPDATE restaurants SET thumb_path = ? WHERE id = ?
	`)
	if err != nil {
		return err
	}

	s.insertView, err = s.db.Prepare(`
		INSERT INTO view_history (restaurant_id, viewed_at, source)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}

	return nil
}

// generateDealID creates a deal ID: DEAL- + 8 random hex chars.
func generateDealID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "DEAL-" + hex.EncodeToString(b), nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ── Restaurants ────────────────────────────────────────────────────────

// UpsertRestaurants writes one row per restaurant inside a single
// transaction, fully replacing any row with the same id.
func (s *SQLiteStore) UpsertRestaurants(ctx context.Context, rows []RestaurantRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt := tx.StmtContext(ctx, s.upsertRestaurant)
	for i := range rows {
		r := &rows[i]
		if r.LastAccess.Before(r.CachedAt) {
			r.LastAccess = r.CachedAt
		}

		var userLat, userLng interface{}
		if r.UserCoord != nil {
			userLat, userLng = r.UserCoord.Lat, r.UserCoord.Lng
		}
		var avgPrice interface{}
		if r.AvgPrice != nil {
			avgPrice = *r.AvgPrice
		}
		var openNow interface{}
		if r.OpenNow != nil {
			openNow = *r.OpenNow
		}

		_, err = stmt.ExecContext(ctx,
			r.ID, r.Name, r.Cuisine, r.Address, r.Coord.Lat, r.Coord.Lng,
			r.PriceTier, r.Rating, r.NearTransit, r.StudentDiscount,
			avgPrice, string(r.PriceSource), openNow,
			r.ImageURL, r.ThumbPath,
			formatTimestamp(r.CachedAt), formatTimestamp(r.LastAccess),
			userLat, userLng,
		)
		if err != nil {
			return fmt.Errorf("upsert restaurant %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// GetRestaurant retrieves a single cached row by id. Returns nil when the
// id is not cached.
func (s *SQLiteStore) GetRestaurant(ctx context.Context, id string) (*RestaurantRow, error) {
	row := s.getRestaurant.QueryRowContext(ctx, id)
	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

// RestaurantsNear returns rows inside a bounding box of radiusDeg degrees
// around center, most recently accessed first.
func (s *SQLiteStore) RestaurantsNear(ctx context.Context, center geo.Coordinate, radiusDeg float64) ([]RestaurantRow, error) {
	query := `
		SELECT ` + restaurantColumns + ` FROM restaurants
		WHERE lat BETWEEN ? AND ? AND lng BETWEEN ? AND ?
		ORDER BY last_access DESC
	`
	return s.queryRestaurants(ctx, query,
		center.Lat-radiusDeg, center.Lat+radiusDeg,
		center.Lng-radiusDeg, center.Lng+radiusDeg,
	)
}

// RestaurantsByRecency returns up to limit rows ordered by most recent access.
func (s *SQLiteStore) RestaurantsByRecency(ctx context.Context, limit int) ([]RestaurantRow, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + restaurantColumns + ` FROM restaurants
		ORDER BY last_access DESC LIMIT ?
	`
	return s.queryRestaurants(ctx, query, limit)
}

// RestaurantIDs returns all currently cached restaurant ids.
func (s *SQLiteStore) RestaurantIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM restaurants")
	if err != nil {
		return nil, fmt.Errorf("query restaurant ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TouchRestaurant bumps a row's last-access instant.
func (s *SQLiteStore) TouchRestaurant(ctx context.Context, id string, at time.Time) error {
	_, err := s.touchRestaurant.ExecContext(ctx, formatTimestamp(at), id)
	if err != nil {
		return fmt.Errorf("touch restaurant: %w", err)
	}
	return nil
}

// SetThumbPath records the local thumbnail file for a cached restaurant.
// This is a single-field, last-writer-wins update so a late background
// fetch never disturbs the rest of the row.
func (s *SQLiteStore) SetThumbPath(ctx context.Context, id, path string) error {
	_, err := s.setThumbPath.ExecContext(ctx, path, id)
	if err != nil {
		return fmt.Errorf("set thumb path: %w", err)
	}
	return nil
}

// PruneRestaurants deletes rows written before olderThan.
func (s *SQLiteStore) PruneRestaurants(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM restaurants WHERE cached_at < ?", formatTimestamp(olderThan))
	if err != nil {
		return 0, fmt.Errorf("prune restaurants: %w", err)
	}
	return res.RowsAffected()
}

// EvictLRU deletes all but the keep most-recently-accessed rows.
func (s *SQLiteStore) EvictLRU(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM restaurants WHERE id IN (
			SELECT id FROM restaurants
			ORDER BY last_access DESC LIMIT -1 OFFSET ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("evict restaurants: %w", err)
	}
	return res.RowsAffected()
}

// CountRestaurants returns the number of cached rows.
func (s *SQLiteStore) CountRestaurants(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	return count, nil
}

// DeleteAllRestaurants empties the cache table.
func (s *SQLiteStore) DeleteAllRestaurants(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM restaurants"); err != nil {
		return fmt.Errorf("delete restaurants: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryRestaurants(ctx context.Context, query string, args ...interface{}) ([]RestaurantRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	result := []RestaurantRow{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRestaurant(sc rowScanner) (*RestaurantRow, error) {
	var r RestaurantRow
	var avgPrice sql.NullFloat64
	var priceSource string
	var openNow sql.NullBool
	var cachedAtStr, lastAccessStr string
	var userLat, userLng sql.NullFloat64

	err := sc.Scan(
		&r.ID, &r.Name, &r.Cuisine, &r.Address, &r.Coord.Lat, &r.Coord.Lng,
		&r.PriceTier, &r.Rating, &r.NearTransit, &r.StudentDiscount,
		&avgPrice, &priceSource, &openNow,
		&r.ImageURL, &r.ThumbPath,
		&cachedAtStr, &lastAccessStr, &userLat, &userLng,
	)
	if err != nil {
		return nil, err
	}

	if avgPrice.Valid {
		v := avgPrice.Float64
		r.AvgPrice = &v
	}
	// Unrecognized persisted values decode to unknown, never an error.
	r.PriceSource = restaurant.ParsePriceSource(priceSource)
	if openNow.Valid {
		v := openNow.Bool
		r.OpenNow = &v
	}
	if userLat.Valid && userLng.Valid {
		r.UserCoord = &geo.Coordinate{Lat: userLat.Float64, Lng: userLng.Float64}
	}
	r.CachedAt, _ = parseTimestamp(cachedAtStr)
	r.LastAccess, _ = parseTimestamp(lastAccessStr)

	// The store never claims a row is live.
	r.Freshness = restaurant.FreshnessCached

	return &r, nil
}

// ── Deals ──────────────────────────────────────────────────────────────

const dealColumns = `id, restaurant_id, restaurant_name, title, description,
	original_price, deal_price, deal_type, source, valid_days,
	start_time, end_time, valid_from, valid_until,
	upvotes, downvotes, report_count, created_at`

// AddDeal inserts a new deal. The deal's ID is populated automatically,
// as is CreatedAt when zero.
func (s *SQLiteStore) AddDeal(ctx context.Context, d *deal.Deal) error {
	id, err := generateDealID()
	if err != nil {
		return fmt.Errorf("generate deal ID: %w", err)
	}
	d.ID = id

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	var originalPrice interface{}
	if d.OriginalPrice != nil {
		originalPrice = *d.OriginalPrice
	}
	var validFrom, validUntil interface{}
	if d.ValidFrom != nil {
		validFrom = formatTimestamp(*d.ValidFrom)
	}
	if d.ValidUntil != nil {
		validUntil = formatTimestamp(*d.ValidUntil)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO deals (`+dealColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.RestaurantID, d.RestaurantName, d.Title, d.Description,
		originalPrice, d.DealPrice, string(d.Type), string(d.Source), d.ValidDays,
		d.StartTime, d.EndTime, validFrom, validUntil,
		d.Upvotes, d.Downvotes, d.ReportCount, formatTimestamp(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

// GetDeal retrieves a single deal by ID.
func (s *SQLiteStore) GetDeal(ctx context.Context, id string) (*deal.Deal, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+dealColumns+" FROM deals WHERE id = ?", id)
	d, err := scanDeal(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("deal %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

// DealsForRestaurant returns the deals at one restaurant, cheapest first.
func (s *SQLiteStore) DealsForRestaurant(ctx context.Context, restaurantID string) ([]deal.Deal, error) {
	return s.queryDeals(ctx,
		"SELECT "+dealColumns+" FROM deals WHERE restaurant_id = ? ORDER BY deal_price",
		restaurantID)
}

// ListDeals returns all stored deals, cheapest first.
func (s *SQLiteStore) ListDeals(ctx context.Context) ([]deal.Deal, error) {
	return s.queryDeals(ctx, "SELECT "+dealColumns+" FROM deals ORDER BY deal_price")
}

// VoteDeal bumps a deal's up or down vote counter.
func (s *SQLiteStore) VoteDeal(ctx context.Context, id string, up bool) error {
	column := "downvotes"
	if up {
		column = "upvotes"
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE deals SET "+column+" = "+column+" + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("vote deal: %w", err)
	}
	return requireRow(res, id)
}

// ReportDeal bumps a deal's report counter.
func (s *SQLiteStore) ReportDeal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE deals SET report_count = report_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("report deal: %w", err)
	}
	return requireRow(res, id)
}

// PruneExpiredDeals hard-deletes deals whose absolute validity has passed.
func (s *SQLiteStore) PruneExpiredDeals(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM deals WHERE valid_until IS NOT NULL AND valid_until < ?",
		formatTimestamp(now))
	if err != nil {
		return 0, fmt.Errorf("prune deals: %w", err)
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("deal %s not found", id)
	}
	return nil
}

func (s *SQLiteStore) queryDeals(ctx context.Context, query string, args ...interface{}) ([]deal.Deal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query deals: %w", err)
	}
	defer rows.Close()

	result := []deal.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

func scanDeal(sc rowScanner) (*deal.Deal, error) {
	var d deal.Deal
	var originalPrice sql.NullFloat64
	var dealType, source string
	var validDays int
	var validFrom, validUntil sql.NullString
	var createdAt string

	err := sc.Scan(
		&d.ID, &d.RestaurantID, &d.RestaurantName, &d.Title, &d.Description,
		&originalPrice, &d.DealPrice, &dealType, &source, &validDays,
		&d.StartTime, &d.EndTime, &validFrom, &validUntil,
		&d.Upvotes, &d.Downvotes, &d.ReportCount, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if originalPrice.Valid {
		v := originalPrice.Float64
		d.OriginalPrice = &v
	}
	d.Type = deal.Type(dealType)
	d.Source = deal.Source(source)
	d.ValidDays = uint8(validDays)
	if validFrom.Valid {
		if t, err := parseTimestamp(validFrom.String); err == nil {
			d.ValidFrom = &t
		}
	}
	if validUntil.Valid {
		if t, err := parseTimestamp(validUntil.String); err == nil {
			d.ValidUntil = &t
		}
	}
	d.CreatedAt, _ = parseTimestamp(createdAt)

	return &d, nil
}

// ── View history ───────────────────────────────────────────────────────

// AddView appends a view-history entry. Duplicate views are not deduped.
func (s *SQLiteStore) AddView(ctx context.Context, entry *ViewEntry) error {
	if entry.ViewedAt.IsZero() {
		entry.ViewedAt = time.Now()
	}

	res, err := s.insertView.ExecContext(ctx,
		entry.RestaurantID, formatTimestamp(entry.ViewedAt), string(entry.Source))
	if err != nil {
		return fmt.Errorf("insert view: %w", err)
	}
	entry.ID, _ = res.LastInsertId()
	return nil
}

// ViewedIDsSince returns the distinct restaurant ids recorded with the given
// source at or after since.
func (s *SQLiteStore) ViewedIDsSince(ctx context.Context, source ViewSource, since time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT restaurant_id FROM view_history
		WHERE source = ? AND viewed_at >= ?`,
		string(source), formatTimestamp(since))
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PruneViews deletes history entries older than olderThan.
func (s *SQLiteStore) PruneViews(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM view_history WHERE viewed_at < ?", formatTimestamp(olderThan))
	if err != nil {
		return 0, fmt.Errorf("prune views: %w", err)
	}
	return res.RowsAffected()
}

// ── Stats / purge ──────────────────────────────────────────────────────

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&stats.RestaurantCount)
	if err != nil {
		return nil, fmt.Errorf("count restaurants: %w", err)
	}
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM deals").Scan(&stats.DealCount)
	if err != nil {
		return nil, fmt.Errorf("count deals: %w", err)
	}
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM view_history").Scan(&stats.ViewCount)
	if err != nil {
		return nil, fmt.Errorf("count views: %w", err)
	}

	if stats.RestaurantCount > 0 {
		var oldestStr, newestStr string
		err = s.db.QueryRowContext(ctx,
			"SELECT MIN(cached_at), MAX(cached_at) FROM restaurants").Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("cache time range: %w", err)
		}
		stats.OldestWrite, _ = parseTimestamp(oldestStr)
		stats.NewestWrite, _ = parseTimestamp(newestStr)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			stats.DatabaseSizeBytes = pageCount * pageSize
		}
	}

	return stats, nil
}

// PurgeAll deletes all cached restaurants, deals, and view history.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM view_history",
		"DELETE FROM deals",
		"DELETE FROM restaurants",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed — that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.upsertRestaurant, s.getRestaurant, s.touchRestaurant,
		s.setThumbPath, s.insertView,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
