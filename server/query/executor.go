// Package query executes user SQL against an open session and
// materializes the full result set.
//
// The SQL text is forwarded verbatim: no validation, no rewriting, no
// row limit and no timeout. Whatever the engine raises comes back with
// its message intact.
package query

import (
	"context"
	"time"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
	"github.com/TebbyShelby/pricecatcher/server/duckdb"
	"github.com/TebbyShelby/pricecatcher/utils"
)

// Result represents the tabular output of one executed query
type Result struct {
	QueryID  string          `json:"queryId"`
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int64           `json:"rowCount"`
	Duration time.Duration   `json:"-"`
}

// ElapsedSeconds returns the wall-clock duration as a float, the unit
// shown in the UI
func (r *Result) ElapsedSeconds() float64 {
	return r.Duration.Seconds()
}

// Execute forwards sqlText to the session and materializes every row.
// Engine errors are wrapped with their message preserved verbatim.
func Execute(ctx context.Context, sess *duckdb.Session, sqlText string) (*Result, error) {
	queryID := utils.GenerateULIDString()
	start := time.Now()

	rows, err := sess.Query(ctx, sqlText)
	if err != nil {
		return nil, errors.New(ErrExecutionFailed, "Query execution failed", err).AddContext("query_id", queryID)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.New(ErrScanFailed, "failed to read result columns", err).AddContext("query_id", queryID)
	}

	resultRows := make([][]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.New(ErrScanFailed, "failed to scan result row", err).AddContext("query_id", queryID)
		}
		resultRows = append(resultRows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(ErrExecutionFailed, "Query execution failed", err).AddContext("query_id", queryID)
	}

	return &Result{
		QueryID:  queryID,
		Columns:  columns,
		Rows:     resultRows,
		RowCount: int64(len(resultRows)),
		Duration: time.Since(start),
	}, nil
}
