package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// Privacy-conscious visitor record
type VisitorMetric struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// StoredSubmission is a submission as recorded locally.
type StoredSubmission struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	Form       string    `json:"form"`
	Filename   string    `json:"filename"`
	ReceivedAt time.Time `json:"received_at"`
	Committed  bool      `json:"committed"`
}

// Submission rebuilds the value that was (or would have been) committed.
func (s StoredSubmission) Submission() Submission {
	return Submission{
		Name:       s.Name,
		Email:      s.Email,
		Message:    s.Message,
		Form:       s.Form,
		ReceivedAt: s.ReceivedAt,
	}
}

type AdminStats struct {
	TotalVisitors     int64              `json:"total_visitors"`
	UniqueVisitors    int64              `json:"unique_visitors"`
	TotalSubmissions  int64              `json:"total_submissions"`
	Committed         int64              `json:"committed_submissions"`
	VisitorsToday     int64              `json:"visitors_today"`
	VisitorsThisWeek  int64              `json:"visitors_this_week"`
	RecentSubmissions []StoredSubmission `json:"recent_submissions"`
	RecentVisitors    []VisitorMetric    `json:"recent_visitors"`
}

// Store keeps visitor metrics and a local copy of every submission in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path. ":memory:" is allowed.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// single writer; also keeps an in-memory database on one connection
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,  -- Store hashed IP instead of raw IP
		user_agent TEXT,
		path TEXT,
		timestamp INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		form TEXT NOT NULL DEFAULT 'contact',
		filename TEXT NOT NULL,
		received_at INTEGER NOT NULL,
		committed INTEGER NOT NULL DEFAULT 0
	)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate")
		}
	}
	return nil
}

func (s *Store) RecordVisit(ctx context.Context, hashedIP, userAgent, path string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, hashedIP, userAgent, path, at.Unix())
	return errors.Wrap(err, "record visit")
}

// CleanupVisitors removes visitor rows older than cutoff and reports how many went.
func (s *Store) CleanupVisitors(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff.Unix())
	if err != nil {
		return 0, errors.Wrap(err, "cleanup visitors")
	}
	return result.RowsAffected()
}

func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list visitors")
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var (
			v  VisitorMetric
			ts int64
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, errors.Wrap(err, "scan visitor")
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		visitors = append(visitors, v)
	}
	return visitors, errors.Wrap(rows.Err(), "list visitors")
}

// SaveSubmission records sub and returns its row id.
func (s *Store) SaveSubmission(ctx context.Context, sub Submission) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (name, email, message, form, filename, received_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sub.Name, sub.Email, sub.Message, sub.Form, sub.Filename(), sub.ReceivedAt.UnixMilli())
	if err != nil {
		return 0, errors.Wrap(err, "save submission")
	}
	return result.LastInsertId()
}

// MarkCommitted flags a submission as written to the content repository.
func (s *Store) MarkCommitted(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE submissions SET committed = 1 WHERE id = ?`, id)
	return errors.Wrap(err, "mark submission committed")
}

const submissionColumns = `id, name, email, message, form, filename, received_at, committed`

func scanSubmission(row interface{ Scan(...any) error }) (StoredSubmission, error) {
	var (
		sub       StoredSubmission
		ms        int64
		committed int
	)
	if err := row.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Message, &sub.Form, &sub.Filename, &ms, &committed); err != nil {
		return StoredSubmission{}, err
	}
	sub.ReceivedAt = time.UnixMilli(ms).UTC()
	sub.Committed = committed != 0
	return sub, nil
}

func (s *Store) ListSubmissions(ctx context.Context, limit int) ([]StoredSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		ORDER BY received_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list submissions")
	}
	defer rows.Close()

	var subs []StoredSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan submission")
		}
		subs = append(subs, sub)
	}
	return subs, errors.Wrap(rows.Err(), "list submissions")
}

// GetSubmission returns ErrNotFound when no row has the id.
func (s *Store) GetSubmission(ctx context.Context, id int64) (StoredSubmission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredSubmission{}, errors.Wrapf(ErrNotFound, "submission %d", id)
	}
	if err != nil {
		return StoredSubmission{}, errors.Wrap(err, "get submission")
	}
	return sub, nil
}

// DeleteSubmission reports false when nothing was deleted.
func (s *Store) DeleteSubmission(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
	if err != nil {
		return false, errors.Wrap(err, "delete submission")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "delete submission")
	}
	return n > 0, nil
}

// Stats gathers the dashboard numbers relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*AdminStats, error) {
	stats := &AdminStats{}

	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{startOfDay.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{weekAgo.Unix()}},
		{&stats.TotalSubmissions, `SELECT COUNT(*) FROM submissions`, nil},
		{&stats.Committed, `SELECT COUNT(*) FROM submissions WHERE committed = 1`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, errors.Wrap(err, "stats")
		}
	}

	var err error
	if stats.RecentSubmissions, err = s.ListSubmissions(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}
