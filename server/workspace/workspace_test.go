package workspace

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
	"github.com/TebbyShelby/pricecatcher/server/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher copies a prepared database file instead of talking to Drive
type stubFetcher struct {
	srcPath string
	err     error
	calls   int
}

func (f *stubFetcher) Fetch(ctx context.Context, credsPath, destPath string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	// The credentials file must have been materialized before the fetch
	if _, err := os.Stat(credsPath); err != nil {
		return err
	}
	data, err := os.ReadFile(f.srcPath)
	if err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0644)
}

// createFixtureDB builds a database file the stub fetcher can serve
func createFixtureDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.duckdb")
	db, err := sql.Open("duckdb", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE prices (item VARCHAR, price DOUBLE)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO prices VALUES ('rice', 28.50), ('sugar', 2.85)")
	require.NoError(t, err)

	return path
}

func newTestManager(t *testing.T, fetcher *stubFetcher) *Manager {
	t.Helper()
	m := NewManager(config.LoadDefaultConfig(), fetcher, zerolog.Nop())
	t.Cleanup(m.CloseAll)
	return m
}

const validCreds = `{"type":"service_account","client_email":"svc@example.com","project_id":"pricecatcher"}`

// tempDirCount counts pricecatcher temp dirs currently on disk
func tempDirCount(t *testing.T) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "pricecatcher-*"))
	require.NoError(t, err)
	return len(matches)
}

func TestConnectWithoutCredentials(t *testing.T) {
	fetcher := &stubFetcher{}
	w := newTestManager(t, fetcher).Create()

	err := w.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrCredentialsMissing))
	assert.Equal(t, "Please upload credentials first", err.Error())

	// No network call may be attempted
	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, StateDisconnected, w.State())
}

func TestSetCredentials(t *testing.T) {
	w := newTestManager(t, &stubFetcher{}).Create()

	_, err := w.SetCredentials([]byte(`{"broken":`))
	require.Error(t, err)
	assert.False(t, w.HasCredentials())

	summary, err := w.SetCredentials([]byte(validCreds))
	require.NoError(t, err)
	assert.True(t, w.HasCredentials())
	assert.Equal(t, "svc@example.com", summary.ClientEmail)

	// A later bad upload leaves the stored credentials untouched
	_, err = w.SetCredentials([]byte("not json"))
	require.Error(t, err)
	assert.True(t, w.HasCredentials())
}

func TestConnectAndQuery(t *testing.T) {
	fetcher := &stubFetcher{srcPath: createFixtureDB(t)}
	w := newTestManager(t, fetcher).Create()

	_, err := w.SetCredentials([]byte(validCreds))
	require.NoError(t, err)

	require.NoError(t, w.Connect(context.Background()))
	assert.Equal(t, StateConnected, w.State())

	schema, err := w.Schema()
	require.NoError(t, err)
	require.Len(t, schema, 1)
	assert.Equal(t, "prices", schema[0].Name)
	require.Len(t, schema[0].Columns, 2)
	assert.Equal(t, "item", schema[0].Columns[0].Name)
	assert.Equal(t, "price", schema[0].Columns[1].Name)

	result, err := w.ExecuteQuery(context.Background(), "SELECT item FROM prices ORDER BY item")
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.RowCount)
	assert.GreaterOrEqual(t, w.ElapsedSeconds(), 0.0)
	assert.Equal(t, StateConnected, w.State())
}

func TestConnectFetchFailure(t *testing.T) {
	before := tempDirCount(t)

	fetcher := &stubFetcher{err: errors.New(errors.CommonInternal, "transfer broke", nil)}
	w := newTestManager(t, fetcher).Create()

	_, err := w.SetCredentials([]byte(validCreds))
	require.NoError(t, err)

	err = w.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateDisconnected, w.State())

	// The failed attempt must not leave its temp dir behind
	assert.Equal(t, before, tempDirCount(t))
}

func TestQueryBeforeConnect(t *testing.T) {
	w := newTestManager(t, &stubFetcher{}).Create()

	_, err := w.ExecuteQuery(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrNotConnected))
	assert.Equal(t, "Please connect to database first", err.Error())
}

func TestFailedQueryKeepsPreviousResult(t *testing.T) {
	fetcher := &stubFetcher{srcPath: createFixtureDB(t)}
	w := newTestManager(t, fetcher).Create()

	_, err := w.SetCredentials([]byte(validCreds))
	require.NoError(t, err)
	require.NoError(t, w.Connect(context.Background()))

	first, err := w.ExecuteQuery(context.Background(), "SELECT 1 AS x")
	require.NoError(t, err)

	_, err = w.ExecuteQuery(context.Background(), "SELEC * FROM prices")
	require.Error(t, err)
	assert.Equal(t, StateConnected, w.State())

	kept, err := w.LastResult()
	require.NoError(t, err)
	assert.Equal(t, first.QueryID, kept.QueryID)
}

func TestExportCSV(t *testing.T) {
	fetcher := &stubFetcher{srcPath: createFixtureDB(t)}
	w := newTestManager(t, fetcher).Create()

	_, err := w.ExportCSV()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrNoResult))

	_, err = w.SetCredentials([]byte(validCreds))
	require.NoError(t, err)
	require.NoError(t, w.Connect(context.Background()))

	_, err = w.ExecuteQuery(context.Background(), "SELECT item, price FROM prices ORDER BY item")
	require.NoError(t, err)

	out, err := w.ExportCSV()
	require.NoError(t, err)
	assert.Equal(t, "item,price\nrice,28.5\nsugar,2.85\n", out)
}

func TestCloseRemovesTempDir(t *testing.T) {
	before := tempDirCount(t)

	fetcher := &stubFetcher{srcPath: createFixtureDB(t)}
	w := newTestManager(t, fetcher).Create()

	_, err := w.SetCredentials([]byte(validCreds))
	require.NoError(t, err)
	require.NoError(t, w.Connect(context.Background()))
	assert.Equal(t, before+1, tempDirCount(t))

	require.NoError(t, w.Close())
	assert.Equal(t, before, tempDirCount(t))
	assert.Equal(t, StateDisconnected, w.State())

	// Idempotent
	require.NoError(t, w.Close())
}

func TestManagerGetOrCreate(t *testing.T) {
	m := newTestManager(t, &stubFetcher{})

	w := m.GetOrCreate("")
	require.NotNil(t, w)
	assert.Equal(t, 1, m.Count())

	same := m.GetOrCreate(w.ID())
	assert.Same(t, w, same)
	assert.Equal(t, 1, m.Count())

	other := m.GetOrCreate("01UNKNOWNSESSIONIDXXXXXXXX")
	assert.NotSame(t, w, other)
	assert.Equal(t, 2, m.Count())
}

func TestManagerCloseAll(t *testing.T) {
	before := tempDirCount(t)

	fetcher := &stubFetcher{srcPath: createFixtureDB(t)}
	m := newTestManager(t, fetcher)

	w := m.Create()
	_, err := w.SetCredentials([]byte(validCreds))
	require.NoError(t, err)
	require.NoError(t, w.Connect(context.Background()))

	m.CloseAll()
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, before, tempDirCount(t))
}
