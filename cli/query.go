package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TebbyShelby/pricecatcher/server/config"
	"github.com/TebbyShelby/pricecatcher/server/drive"
	"github.com/TebbyShelby/pricecatcher/server/duckdb"
	"github.com/TebbyShelby/pricecatcher/server/query"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Run a one-shot SQL query against the published database",
	Long: `Query downloads the published database using the given
service-account credentials, runs a single SQL statement against it and
prints the result. The downloaded copy is removed afterwards.

Examples:
  pricecatcher query --credentials svc.json "SHOW TABLES"
  pricecatcher query --credentials svc.json --format csv "SELECT * FROM pricecatcher LIMIT 10"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

type queryOptions struct {
	credentials string
	format      string
	maxRows     int
	timing      bool
}

var queryOpts = &queryOptions{}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryOpts.credentials, "credentials", "", "path to service-account credentials JSON (required)")
	queryCmd.Flags().StringVar(&queryOpts.format, "format", "table", "output format: table, csv")
	queryCmd.Flags().IntVar(&queryOpts.maxRows, "max-rows", 1000, "maximum number of rows to display")
	queryCmd.Flags().BoolVar(&queryOpts.timing, "timing", true, "show query execution time")
	queryCmd.MarkFlagRequired("credentials")
}

func runQuery(cmd *cobra.Command, args []string) error {
	sqlText := args[0]
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		cfg = config.LoadDefaultConfig()
	}

	if _, err := os.Stat(queryOpts.credentials); err != nil {
		pterm.Error.Printfln("Cannot read credentials file: %v", err)
		return err
	}

	// Progress goes to the terminal; structured logs stay quiet unless
	// something goes wrong
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	tempDir, err := os.MkdirTemp("", "pricecatcher-*")
	if err != nil {
		pterm.Error.Printfln("Failed to create temporary directory: %v", err)
		return err
	}
	defer os.RemoveAll(tempDir)

	fetcher := drive.NewGoogleFetcher(drive.Config{
		FolderID:  cfg.Drive.FolderID,
		FileName:  cfg.Drive.FileName,
		ChunkSize: config.DOWNLOAD_CHUNK_SIZE,
	}, logger)

	dbPath := filepath.Join(tempDir, cfg.Drive.FileName)

	spinner, _ := pterm.DefaultSpinner.Start("Downloading database from Drive...")
	if err := fetcher.Fetch(ctx, queryOpts.credentials, dbPath); err != nil {
		spinner.Fail("Download failed")
		pterm.Error.Printfln("%v", err)
		return err
	}
	spinner.Success("Database downloaded")

	session, err := duckdb.Open(ctx, dbPath, logger)
	if err != nil {
		pterm.Error.Printfln("Failed to open database: %v", err)
		return err
	}
	defer session.Close()

	result, err := query.Execute(ctx, session, sqlText)
	if err != nil {
		pterm.Error.Printfln("Query failed: %v", err)
		return err
	}

	return displayResult(result)
}

func displayResult(result *query.Result) error {
	if queryOpts.timing {
		pterm.Info.Printfln("Query executed in %.2f seconds", result.ElapsedSeconds())
	}

	if result.RowCount == 0 {
		pterm.Info.Println("No rows returned")
		return nil
	}
	pterm.Info.Printfln("%d rows returned", result.RowCount)

	rows := result.Rows
	if len(rows) > queryOpts.maxRows {
		rows = rows[:queryOpts.maxRows]
		pterm.Warning.Printfln("Showing first %d rows (use --max-rows to adjust)", queryOpts.maxRows)
	}

	switch queryOpts.format {
	case "table":
		return renderTable(result.Columns, rows)
	case "csv":
		truncated := &query.Result{Columns: result.Columns, Rows: rows, RowCount: int64(len(rows))}
		out, err := truncated.CSV()
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	default:
		pterm.Error.Printfln("Unsupported format: %s", queryOpts.format)
		return fmt.Errorf("unsupported format: %s", queryOpts.format)
	}
}

func renderTable(columns []string, rows [][]interface{}) error {
	data := pterm.TableData{columns}
	for _, row := range rows {
		rendered := make([]string, len(row))
		for i, v := range row {
			rendered[i] = formatCell(v)
		}
		data = append(data, rendered)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatCell(value interface{}) string {
	if value == nil {
		return "NULL"
	}
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", value)
}
