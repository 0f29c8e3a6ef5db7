// Package workspace holds the per-session state of the query tool.
//
// The original deployment kept one global database manager shared by
// every request; a Workspace replaces it with an explicit per-session
// context so concurrent users cannot contaminate each other. Each
// workspace owns at most one database session and one temporary
// directory, and serializes its own operations, preserving the
// one-operation-at-a-time flow of a single user's browser session.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
	"github.com/TebbyShelby/pricecatcher/server/config"
	"github.com/TebbyShelby/pricecatcher/server/credentials"
	"github.com/TebbyShelby/pricecatcher/server/drive"
	"github.com/TebbyShelby/pricecatcher/server/duckdb"
	"github.com/TebbyShelby/pricecatcher/server/query"
	"github.com/rs/zerolog"
)

// State is the lifecycle state of a workspace. Failed transitions fall
// back to the prior stable state instead of moving forward.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateQuerying     State = "querying"
)

// Workspace is one user session: uploaded credentials, the live
// database session, the schema snapshot and the last query result.
type Workspace struct {
	id      string
	cfg     *config.Config
	fetcher drive.Fetcher
	logger  zerolog.Logger

	mu             sync.Mutex
	state          State
	creds          *credentials.Credentials
	tempDir        string
	session        *duckdb.Session
	lastResult     *query.Result
	elapsedSeconds float64
}

// newWorkspace is called by the Manager; workspaces are never built directly
func newWorkspace(id string, cfg *config.Config, fetcher drive.Fetcher, logger zerolog.Logger) *Workspace {
	return &Workspace{
		id:      id,
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger.With().Str("component", "workspace").Str("workspace_id", id).Logger(),
		state:   StateDisconnected,
	}
}

// ID returns the workspace identifier bound to the session cookie
func (w *Workspace) ID() string {
	return w.id
}

// State returns the current lifecycle state
func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// SetCredentials parses an uploaded document. On parse failure the
// previously stored credentials, if any, are left untouched.
func (w *Workspace) SetCredentials(raw []byte) (credentials.Summary, error) {
	creds, err := credentials.Load(raw)
	if err != nil {
		return credentials.Summary{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.creds = creds

	summary := creds.Summary()
	w.logger.Info().Str("client_email", summary.ClientEmail).Msg("Credentials uploaded")
	return summary, nil
}

// HasCredentials reports whether a credential document is stored
func (w *Workspace) HasCredentials() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.creds != nil
}

// Connect downloads the remote database file and opens a read-only
// session over it. Without stored credentials it fails immediately and
// performs no network call. Any stage failure cleans up and returns
// the workspace to disconnected.
func (w *Workspace) Connect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.creds == nil {
		return errors.New(ErrCredentialsMissing, "Please upload credentials first", nil)
	}

	// Reconnecting replaces the existing session and its files
	w.closeLocked()
	w.state = StateConnecting

	tempDir, err := os.MkdirTemp("", "pricecatcher-*")
	if err != nil {
		w.state = StateDisconnected
		return errors.New(ErrTempDirFailed, "failed to create temporary directory", err)
	}

	credsPath := filepath.Join(tempDir, "creds.json")
	dbPath := filepath.Join(tempDir, w.cfg.Drive.FileName)

	fail := func(cause error) error {
		os.RemoveAll(tempDir)
		w.state = StateDisconnected
		w.logger.Error().Err(cause).Msg("Connection failed")
		return cause
	}

	if err := w.creds.WriteFile(credsPath); err != nil {
		return fail(err)
	}

	if err := w.fetcher.Fetch(ctx, credsPath, dbPath); err != nil {
		return fail(err)
	}

	session, err := duckdb.Open(ctx, dbPath, w.logger)
	if err != nil {
		return fail(err)
	}

	w.tempDir = tempDir
	w.session = session
	w.state = StateConnected
	w.logger.Info().Int("tables", len(session.Schema())).Msg("Connected to database")
	return nil
}

// Schema returns the snapshot of the connected database
func (w *Workspace) Schema() ([]duckdb.TableInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session == nil {
		return nil, errors.New(ErrNotConnected, "Please connect to database first", nil)
	}
	return w.session.Schema(), nil
}

// ExecuteQuery runs sqlText against the open session. On failure the
// previous result is left untouched and the workspace returns to
// connected.
func (w *Workspace) ExecuteQuery(ctx context.Context, sqlText string) (*query.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session == nil {
		return nil, errors.New(ErrNotConnected, "Please connect to database first", nil)
	}

	w.state = StateQuerying
	result, err := query.Execute(ctx, w.session, sqlText)
	w.state = StateConnected
	if err != nil {
		w.logger.Error().Err(err).Str("query", sqlText).Msg("Query execution failed")
		return nil, err
	}

	w.lastResult = result
	w.elapsedSeconds = result.ElapsedSeconds()
	w.logger.Info().
		Str("query_id", result.QueryID).
		Int64("rows", result.RowCount).
		Float64("seconds", w.elapsedSeconds).
		Msg("Query executed")
	return result, nil
}

// LastResult returns the result of the most recent successful query
func (w *Workspace) LastResult() (*query.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastResult == nil {
		return nil, errors.New(ErrNoResult, "no query results to export", nil)
	}
	return w.lastResult, nil
}

// ExportCSV renders the last result as CSV
func (w *Workspace) ExportCSV() (string, error) {
	result, err := w.LastResult()
	if err != nil {
		return "", err
	}
	return result.CSV()
}

// ElapsedSeconds returns the duration of the last successful query
func (w *Workspace) ElapsedSeconds() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.elapsedSeconds
}

// Close tears down the session and removes the temporary directory
// holding the credentials and database files. Idempotent.
func (w *Workspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Workspace) closeLocked() error {
	var err error
	if w.session != nil {
		err = w.session.Close()
		w.session = nil
	}
	if w.tempDir != "" {
		if rmErr := os.RemoveAll(w.tempDir); rmErr != nil && err == nil {
			err = rmErr
		}
		w.tempDir = ""
	}
	w.state = StateDisconnected
	return err
}
