package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

// SQLStore is the durable table of deduplicated stories. All time windows
// are evaluated with the database clock. The *sql.DB pool is safe for
// concurrent use by every caller.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the database and verifies it is reachable. An error
// here means storage is entirely unreachable.
func Open(ctx context.Context, driver, dsn string, maxOpen int) (*SQLStore, error) {
	d, err := lookupDialect(driver)
	if err != nil {
		return nil, err
	}
	if d.name == "mysql" {
		if dsn, err = normalizeMySQLDSN(dsn); err != nil {
			return nil, fmt.Errorf("storage: invalid mysql dsn: %w", err)
		}
	}
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", d.name, err)
	}
	if d.name == "sqlite3" {
		// single writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: connect %s: %w", d.name, err)
	}
	return &SQLStore{db: db, dialect: d}, nil
}

// normalizeMySQLDSN makes the mysql driver scan TIMESTAMP columns into
// time.Time and pins the session to UTC so they match the driver's location.
func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	cfg.Params["time_zone"] = "'+00:00'"
	return cfg.FormatDSN(), nil
}

// maxTitleLen matches the width of the unique title column.
const maxTitleLen = 255

// truncateTitle cuts title to maxTitleLen characters so every dialect
// stores and deduplicates the same key.
func truncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= maxTitleLen {
		return title
	}
	return string([]rune(title)[:maxTitleLen])
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the configured dialect name.
func (s *SQLStore) Driver() string { return s.dialect.name }

// Ping checks the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return wrap("ping", s.db.PingContext(ctx))
}

// EnsureSchema creates the stories table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.dialect.schema)
	return wrap("ensure schema", err)
}

// InsertIfAbsent stores the candidate unless a story with the same title
// exists. A duplicate title is not an error; inserted reports whether a new
// row was created.
func (s *SQLStore) InsertIfAbsent(ctx context.Context, c model.Candidate) (inserted bool, err error) {
	points := c.Points
	if points < 0 {
		points = 0
	}
	res, err := s.db.ExecContext(ctx, s.dialect.insert, truncateTitle(c.Title), c.Link, points)
	if err != nil {
		return false, wrap("insert story", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("insert story", err)
	}
	return n > 0, nil
}

// CountSince returns how many stories were created within the trailing
// window d.
func (s *SQLStore) CountSince(ctx context.Context, d time.Duration) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.dialect.countSince, s.dialect.windowArg(clampWindow(d))).Scan(&n)
	if err != nil {
		return 0, wrap("count stories", err)
	}
	return n, nil
}

// ListSince returns the stories created within the trailing window d, in no
// particular order.
func (s *SQLStore) ListSince(ctx context.Context, d time.Duration) ([]model.Story, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.listSince, s.dialect.windowArg(clampWindow(d)))
	if err != nil {
		return nil, wrap("list stories", err)
	}
	defer rows.Close()

	var out []model.Story
	for rows.Next() {
		var (
			st     model.Story
			title  sql.NullString
			link   sql.NullString
			points sql.NullInt64
		)
		if err := rows.Scan(&st.ID, &title, &link, &points, &st.CreatedAt); err != nil {
			return nil, wrap("scan story", err)
		}
		st.Title = title.String
		st.Link = link.String
		st.Points = int(points.Int64)
		st.CreatedAt = st.CreatedAt.UTC()
		out = append(out, st)
	}
	return out, wrap("list stories", rows.Err())
}

func clampWindow(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
