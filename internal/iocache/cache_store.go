// Package iocache is for caching fetched datasets across runs.
package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// tableNamePattern restricts table names to safe SQL identifiers.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// dialect holds the SQL that differs between durable backends.
// Statements are format strings taking the quoted table name.
type dialect struct {
	driver   string
	quote    string // identifier quote character
	columns  string // column definitions for the response table
	upsert   string
	selectOn string // WHERE clause matching one cache_key
	olderOn  string // WHERE clause matching cache_timestamp < cutoff
	hint     string // connection format shown on failure
}

var dialects = map[schema.DatabaseBackend]dialect{
	schema.SQLiteBackend: {
		driver:   "sqlite",
		quote:    `"`,
		columns:  "cache_key TEXT PRIMARY KEY, cache_value BLOB NOT NULL, cache_version INTEGER NOT NULL, cache_timestamp INTEGER NOT NULL",
		upsert:   "INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)",
		selectOn: "cache_key = ?",
		olderOn:  "cache_timestamp < ?",
		hint:     "a writable file path",
	},
	schema.MySQLBackend: {
		driver:  "mysql",
		quote:   "`",
		columns: "cache_key VARCHAR(255) PRIMARY KEY, cache_value MEDIUMBLOB NOT NULL, cache_version INT NOT NULL, cache_timestamp BIGINT NOT NULL",
		upsert: "INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new " +
			"ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp",
		selectOn: "cache_key = ?",
		olderOn:  "cache_timestamp < ?",
		hint:     "user:password@tcp(host:port)/dbname",
	},
	schema.PostgreSQLBackend: {
		driver:  "pgx",
		quote:   `"`,
		columns: "cache_key TEXT PRIMARY KEY, cache_value BYTEA NOT NULL, cache_version INTEGER NOT NULL, cache_timestamp BIGINT NOT NULL",
		upsert: "INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4) " +
			"ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp",
		selectOn: "cache_key = $1",
		olderOn:  "cache_timestamp < $1",
		hint:     "host=localhost port=5432 user=postgres dbname=mydb",
	},
}

// table returns the quoted table name.
func (d dialect) table(name string) string {
	return d.quote + name + d.quote
}

// createTable returns the idempotent DDL for the response table.
func (d dialect) createTable(name string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.table(name), d.columns)
}

// SQLStore keeps fetched response bodies in a SQL table.
type SQLStore struct {
	db      *sql.DB
	table   string
	backend schema.DatabaseBackend
	dialect dialect
	connStr string
}

var _ contract.CacheStore = &SQLStore{} // Compile-time check

// noneStore is the store of the none backend: it keeps nothing.
type noneStore struct{}

var _ contract.CacheStore = noneStore{} // Compile-time check

// NewCacheStore opens the durable store for backend and creates its table.
// For sqlite an empty connStr means the default database file.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if !tableNamePattern.MatchString(tableName) {
		return nil, fmt.Errorf("invalid table name %q: must match %s", tableName, tableNamePattern)
	}
	if backend == schema.NoneBackend {
		return noneStore{}, nil
	}
	d, ok := dialects[backend]
	if !ok {
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	dsn := connStr
	if backend == schema.SQLiteBackend && dsn == "" {
		dsn = GetDBFilePath()
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache (expected %s): %w", backend, d.hint, err)
	}
	if backend == schema.SQLiteBackend {
		// One connection avoids "database is locked" and keeps :memory: on a single database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s cache (expected %s): %w", backend, d.hint, err)
	}
	if _, err := db.Exec(d.createTable(tableName)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &SQLStore{db: db, table: tableName, backend: backend, dialect: d, connStr: connStr}, nil
}

// Get returns the body, format version and write time stored under key.
// A missing key yields sql.ErrNoRows.
func (s *SQLStore) Get(key string) ([]byte, int, int64, error) {
	var (
		value   []byte
		version int
		ts      int64
	)
	query := fmt.Sprintf("SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE %s", s.dialect.table(s.table), s.dialect.selectOn)
	if err := s.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set writes value under key, replacing any previous entry.
func (s *SQLStore) Set(key string, value []byte, version int, timestamp int64) error {
	_, err := s.db.Exec(fmt.Sprintf(s.dialect.upsert, s.dialect.table(s.table)), key, value, version, timestamp)
	return err
}

// Delete removes the entry under key. Deleting a missing key is not an error.
func (s *SQLStore) Delete(key string) error {
	_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s", s.dialect.table(s.table), s.dialect.selectOn), key)
	return err
}

// Prune deletes entries written before cutoff and returns how many were removed.
func (s *SQLStore) Prune(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s", s.dialect.table(s.table), s.dialect.olderOn), cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the underlying DB connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// GetStatus reports the entry count, the write time range and the table size.
func (s *SQLStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(s.backend), Connected: true}

	var newest, oldest sql.NullInt64
	query := fmt.Sprintf("SELECT COUNT(*), MAX(cache_timestamp), MIN(cache_timestamp) FROM %s", s.dialect.table(s.table))
	if err := s.db.QueryRow(query).Scan(&status.TotalEntries, &newest, &oldest); err != nil {
		return status, fmt.Errorf("failed to read cache status: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	status.LastEntryTime = time.Unix(newest.Int64, 0)
	status.OldestEntryTime = time.Unix(oldest.Int64, 0)
	status.TableSizeBytes = s.tableSize(status.TotalEntries)
	return status, nil
}

// tableSize estimates the on-disk size of the response table.
// SQLite reports the whole database file, the servers report the table.
// When the server cannot tell, each entry is counted as 1000 bytes.
func (s *SQLStore) tableSize(totalEntries int) int64 {
	size := int64(totalEntries) * 1000
	var measured int64
	switch s.backend {
	case schema.SQLiteBackend:
		row := s.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&measured); err == nil {
			size = measured
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		row := s.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, s.table)
		if err := row.Scan(&measured); err == nil {
			size = measured
		}
	case schema.PostgreSQLBackend:
		if err := s.db.QueryRow("SELECT pg_total_relation_size($1)", s.table).Scan(&measured); err == nil {
			size = measured
		}
	}
	return size
}

func (noneStore) Get(string) ([]byte, int, int64, error) { return nil, 0, 0, sql.ErrNoRows }

func (noneStore) Set(string, []byte, int, int64) error { return nil }

func (noneStore) Delete(string) error { return nil }

func (noneStore) Prune(time.Time) (int64, error) { return 0, nil }

func (noneStore) Close() error { return nil }

func (noneStore) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{Backend: string(schema.NoneBackend)}, nil
}
