package storage

import (
	"fmt"
	"time"
)

// dialect carries the SQL that differs between the supported databases.
type dialect struct {
	name       string
	driverName string
	schema     string
	insert     string
	countSince string
	listSince  string
	// windowArg converts a trailing window into the bind value used by
	// countSince/listSince.
	windowArg func(d time.Duration) any
}

var dialects = map[string]dialect{
	"mysql": {
		name:       "mysql",
		driverName: "mysql",
		schema: `CREATE TABLE IF NOT EXISTS stories (
  id INT AUTO_INCREMENT PRIMARY KEY,
  title VARCHAR(255),
  link TEXT,
  points INT,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(title)
)`,
		insert:     `INSERT IGNORE INTO stories (title, link, points) VALUES (?, ?, ?)`,
		countSince: `SELECT COUNT(*) FROM stories WHERE created_at >= NOW() - INTERVAL ? SECOND`,
		listSince:  `SELECT id, title, link, points, created_at FROM stories WHERE created_at >= NOW() - INTERVAL ? SECOND`,
		windowArg:  func(d time.Duration) any { return int64(d / time.Second) },
	},
	"postgres": {
		name:       "postgres",
		driverName: "pgx",
		schema: `CREATE TABLE IF NOT EXISTS stories (
  id SERIAL PRIMARY KEY,
  title VARCHAR(255) UNIQUE,
  link TEXT,
  points INTEGER,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
		insert:     `INSERT INTO stories (title, link, points) VALUES ($1, $2, $3) ON CONFLICT (title) DO NOTHING`,
		countSince: `SELECT COUNT(*) FROM stories WHERE created_at >= NOW() - make_interval(secs => $1)`,
		listSince:  `SELECT id, title, link, points, created_at FROM stories WHERE created_at >= NOW() - make_interval(secs => $1)`,
		windowArg:  func(d time.Duration) any { return d.Seconds() },
	},
	"sqlite3": {
		name:       "sqlite3",
		driverName: "sqlite3",
		schema: `CREATE TABLE IF NOT EXISTS stories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title VARCHAR(255) UNIQUE,
  link TEXT,
  points INTEGER,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		insert:     `INSERT INTO stories (title, link, points) VALUES (?, ?, ?) ON CONFLICT(title) DO NOTHING`,
		countSince: `SELECT COUNT(*) FROM stories WHERE created_at >= datetime('now', ?)`,
		listSince:  `SELECT id, title, link, points, created_at FROM stories WHERE created_at >= datetime('now', ?)`,
		windowArg:  func(d time.Duration) any { return fmt.Sprintf("-%d seconds", int64(d/time.Second)) },
	},
}

func lookupDialect(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("storage: unsupported driver %q", driver)
	}
	return d, nil
}
