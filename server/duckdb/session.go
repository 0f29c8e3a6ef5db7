// Package duckdb manages the read-only session over the downloaded
// database file.
//
// Read-only mode is the sole safety control against destructive SQL:
// the engine itself rejects writes, the server adds no statement
// filtering on top.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
	"github.com/TebbyShelby/pricecatcher/server/config"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/rs/zerolog"
)

// ColumnInfo describes one column of an introspected table
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableInfo describes one table of the opened database
type TableInfo struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// Session is a live read-only connection to a database file plus the
// schema snapshot computed when it was opened. The snapshot is never
// refreshed; the file cannot change underneath a read-only handle.
type Session struct {
	db     *sql.DB
	path   string
	schema []TableInfo
	logger zerolog.Logger
}

// Open opens the database file read-only, applies the fixed resource
// limits and snapshots the schema.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Session, error) {
	db, err := sql.Open("duckdb", path+"?access_mode=read_only")
	if err != nil {
		return nil, errors.New(ErrOpenFailed, "failed to open database file", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.New(ErrOpenFailed, "failed to open database file", err).AddContext("path", path)
	}

	// One logical session per workspace
	db.SetMaxOpenConns(1)

	s := &Session{
		db:     db,
		path:   path,
		logger: logger.With().Str("component", "duckdb-session").Logger(),
	}

	limits := []string{
		fmt.Sprintf("SET memory_limit='%s'", config.DUCKDB_MEMORY_LIMIT),
		fmt.Sprintf("SET threads TO %d", config.DUCKDB_THREADS),
	}
	for _, stmt := range limits {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			s.logger.Warn().Err(err).Str("statement", stmt).Msg("Failed to apply session limit")
		}
	}

	schema, err := s.introspectSchema(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.schema = schema

	s.logger.Info().Str("path", path).Int("tables", len(schema)).Msg("Database session opened")
	return s, nil
}

// Schema returns the snapshot computed at open time
func (s *Session) Schema() []TableInfo {
	return s.schema
}

// Path returns the local database file path
func (s *Session) Path() string {
	return s.path
}

// Query forwards SQL verbatim to the engine
func (s *Session) Query(ctx context.Context, sqlText string) (*sql.Rows, error) {
	if s.db == nil {
		return nil, errors.New(ErrSessionClosed, "database session is closed", nil)
	}
	return s.db.QueryContext(ctx, sqlText)
}

// Close closes the database handle. Removing the temporary directory
// that holds the file is the owning workspace's job.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// introspectSchema lists tables and describes each one's columns
func (s *Session) introspectSchema(ctx context.Context) ([]TableInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, errors.New(ErrIntrospectionFailed, "failed to list tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.New(ErrIntrospectionFailed, "failed to scan table name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(ErrIntrospectionFailed, "failed to list tables", err)
	}

	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		columns, err := s.describeTable(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, TableInfo{Name: name, Columns: columns})
	}
	return tables, nil
}

// describeTable returns the ordered column descriptors of one table
func (s *Session) describeTable(ctx context.Context, table string) ([]ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("DESCRIBE %s", quoteIdent(table)))
	if err != nil {
		return nil, errors.New(ErrIntrospectionFailed, "failed to describe table", err).AddContext("table", table)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.New(ErrIntrospectionFailed, "failed to read describe columns", err).AddContext("table", table)
	}

	var result []ColumnInfo
	for rows.Next() {
		// DESCRIBE yields column_name, column_type plus nullability and
		// key metadata this snapshot does not carry
		var colName, colType sql.NullString
		dest := make([]interface{}, len(cols))
		dest[0] = &colName
		dest[1] = &colType
		for i := 2; i < len(dest); i++ {
			dest[i] = new(interface{})
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.New(ErrIntrospectionFailed, "failed to scan column descriptor", err).AddContext("table", table)
		}
		result = append(result, ColumnInfo{Name: colName.String, Type: colType.String})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(ErrIntrospectionFailed, "failed to describe table", err).AddContext("table", table)
	}
	return result, nil
}

// quoteIdent quotes an identifier for interpolation into DESCRIBE
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
