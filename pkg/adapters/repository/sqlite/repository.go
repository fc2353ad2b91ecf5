package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	db, err := sql.Open(driverName(dbURL), dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func driverName(dbURL string) string {
	if strings.HasPrefix(dbURL, "libsql://") || strings.HasPrefix(dbURL, "wss://") || strings.HasPrefix(dbURL, "https://") {
		return "libsql"
	}
	return "sqlite"
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS shares (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		short_code TEXT NOT NULL UNIQUE,
		title TEXT,
		token TEXT NOT NULL,
		entry_count INTEGER DEFAULT 0,
		clicks INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_shares_short_code ON shares(short_code);

	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		share_id INTEGER NOT NULL,
		referer TEXT,
		user_agent TEXT,
		ip_hash TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(share_id) REFERENCES shares(id)
	);
	CREATE INDEX IF NOT EXISTS idx_visits_share_id ON visits(share_id);
	`
	_, err := db.Exec(query)
	return err
}

const shareColumns = `id, short_code, title, token, entry_count, clicks, created_at, updated_at, deleted_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanShare(row scanner) (*domain.Share, error) {
	var s domain.Share
	var title sql.NullString
	var deletedAt sql.NullTime
	if err := row.Scan(&s.ID, &s.ShortCode, &title, &s.Token, &s.EntryCount, &s.Clicks,
		&s.CreatedAt, &s.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	s.Title = title.String
	if deletedAt.Valid {
		s.DeletedAt = &deletedAt.Time
	}
	return &s, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, share *domain.Share) error {
	query := `INSERT INTO shares (short_code, title, token, entry_count, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, share.ShortCode, share.Title, share.Token, share.EntryCount, share.CreatedAt, share.UpdatedAt)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	share.ID = id
	return nil
}

func (r *SQLiteRepository) GetByShortCode(ctx context.Context, code string) (*domain.Share, error) {
	query := `SELECT ` + shareColumns + ` FROM shares WHERE short_code = ? AND deleted_at IS NULL`
	return r.getOne(ctx, query, code)
}

// ShortCodeExists reports whether code is held by any share, deleted ones
// included, since the unique index still covers them.
func (r *SQLiteRepository) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM shares WHERE short_code = ?`, code).Scan(&n)
	return n > 0, err
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*domain.Share, error) {
	query := `SELECT ` + shareColumns + ` FROM shares WHERE id = ? AND deleted_at IS NULL`
	return r.getOne(ctx, query, id)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg any) (*domain.Share, error) {
	share, err := scanShare(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return share, err
}

func (r *SQLiteRepository) Update(ctx context.Context, share *domain.Share) error {
	query := `UPDATE shares SET title = ?, token = ?, entry_count = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, share.Title, share.Token, share.EntryCount, share.UpdatedAt, share.ID)
	return err
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE shares SET deleted_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func searchFilter(filters map[string]interface{}) (string, []interface{}) {
	if search, ok := filters["search"].(string); ok && search != "" {
		return " AND (title LIKE ? OR short_code LIKE ?)", []interface{}{"%" + search + "%", "%" + search + "%"}
	}
	return "", nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit, offset int, filters map[string]interface{}) ([]domain.Share, error) {
	where, args := searchFilter(filters)
	query := `SELECT ` + shareColumns + ` FROM shares WHERE deleted_at IS NULL` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	return r.query(ctx, query, args...)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Share, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []domain.Share
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, *s)
	}
	return shares, rows.Err()
}

func (r *SQLiteRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	where, args := searchFilter(filters)
	query := `SELECT COUNT(*) FROM shares WHERE deleted_at IS NULL` + where

	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.Share, error) {
	return r.query(ctx, `SELECT `+shareColumns+` FROM shares ORDER BY id`)
}

func (r *SQLiteRepository) RecordVisit(ctx context.Context, visit *domain.Visit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Insert Visit Record
	queryVisit := `INSERT INTO visits (share_id, referer, user_agent, ip_hash, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, queryVisit, visit.ShareID, visit.Referer, visit.UserAgent, visit.IPHash, visit.CreatedAt.Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}

	// 2. Increment Share Clicks Counter (Atomic)
	_, err = tx.ExecContext(ctx, `UPDATE shares SET clicks = clicks + 1 WHERE id = ?`, visit.ShareID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetShareStats(ctx context.Context, shareID int64) (*domain.ShareStats, error) {
	stats := &domain.ShareStats{
		Referrers:   make(map[string]int64),
		DailyClicks: []domain.DailyClick{},
	}

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits WHERE share_id = ?`, shareID).Scan(&stats.TotalClicks)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT COALESCE(referer, ''), COUNT(*) as c FROM visits WHERE share_id = ? GROUP BY referer ORDER BY c DESC LIMIT 10`, shareID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ref string
		var count int64
		if err := rows.Scan(&ref, &count); err != nil {
			return nil, err
		}
		if ref == "" {
			ref = "Direct"
		}
		stats.Referrers[ref] = count
	}
	rows.Close()

	// Daily Clicks (Last 30 days)
	rows2, err := r.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', created_at) as date, COUNT(*)
		FROM visits
		WHERE share_id = ?
		GROUP BY date
		ORDER BY date DESC
		LIMIT 30`, shareID)
	if err != nil {
		return nil, err
	}
	defer rows2.Close()
	for rows2.Next() {
		var dc domain.DailyClick
		if err := rows2.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		stats.DailyClicks = append(stats.DailyClicks, dc)
	}

	return stats, rows2.Err()
}

func (r *SQLiteRepository) GetDashboardStats(ctx context.Context, limit int, filters map[string]interface{}) ([]domain.Share, int64, error) {
	// Sum the clicks column instead of scanning visits
	var totalSystemClicks int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(clicks), 0) FROM shares WHERE deleted_at IS NULL`).Scan(&totalSystemClicks)
	if err != nil {
		return nil, 0, err
	}

	where, args := searchFilter(filters)
	query := `SELECT ` + shareColumns + ` FROM shares WHERE deleted_at IS NULL` + where + ` ORDER BY clicks DESC LIMIT ?`
	args = append(args, limit)

	shares, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return shares, totalSystemClicks, nil
}

// Import inserts a share exported by Dump, keeping its short code and
// timestamps. Existing short codes are skipped and reported as false.
func (r *SQLiteRepository) Import(ctx context.Context, share *domain.Share) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO shares (short_code, title, token, entry_count, clicks, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		share.ShortCode, share.Title, share.Token, share.EntryCount, share.Clicks, share.CreatedAt, share.UpdatedAt, share.DeletedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Ensure interface compliance
var _ ports.ShareRepository = (*SQLiteRepository)(nil)
