package query

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
)

// CSV renders the result as comma-separated values: a header row of
// column names followed by the data rows, no index column.
func (r *Result) CSV() (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(r.Columns); err != nil {
		return "", errors.New(ErrCSVFailed, "failed to write CSV header", err)
	}

	record := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i, value := range row {
			record[i] = formatValue(value)
		}
		if err := w.Write(record); err != nil {
			return "", errors.New(ErrCSVFailed, "failed to write CSV row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.New(ErrCSVFailed, "failed to flush CSV", err)
	}
	return sb.String(), nil
}

// formatValue renders a cell for CSV output; NULL becomes empty
func formatValue(value interface{}) string {
	if value == nil {
		return ""
	}
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", value)
}
