package drive

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// chunkRecorder records the size of every write it receives
type chunkRecorder struct {
	buf    bytes.Buffer
	writes []int
}

func (c *chunkRecorder) Write(p []byte) (int, error) {
	c.writes = append(c.writes, len(p))
	return c.buf.Write(p)
}

func TestCopyChunks(t *testing.T) {
	payload := strings.Repeat("x", 2500)
	rec := &chunkRecorder{}

	written, err := copyChunks(rec, strings.NewReader(payload), 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if written != 2500 {
		t.Errorf("Expected 2500 bytes written, got %d", written)
	}

	if rec.buf.String() != payload {
		t.Error("Copied payload does not match source")
	}

	// Sequential fixed-size chunks with a short tail
	expected := []int{1000, 1000, 500}
	if len(rec.writes) != len(expected) {
		t.Fatalf("Expected %d writes, got %d (%v)", len(expected), len(rec.writes), rec.writes)
	}
	for i, n := range expected {
		if rec.writes[i] != n {
			t.Errorf("Write %d: expected %d bytes, got %d", i, n, rec.writes[i])
		}
	}
}

func TestCopyChunksEmpty(t *testing.T) {
	rec := &chunkRecorder{}
	written, err := copyChunks(rec, strings.NewReader(""), 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if written != 0 {
		t.Errorf("Expected 0 bytes written, got %d", written)
	}
}

// failingReader fails after serving some bytes
type failingReader struct {
	data []byte
	err  error
	done bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.done {
		return 0, f.err
	}
	f.done = true
	return copy(p, f.data), nil
}

func TestCopyChunksReadFailure(t *testing.T) {
	transferErr := errors.New("connection reset")
	rec := &chunkRecorder{}

	written, err := copyChunks(rec, &failingReader{data: []byte("partial"), err: transferErr}, 1000)
	if !errors.Is(err, transferErr) {
		t.Errorf("Expected transfer error to surface, got %v", err)
	}
	if written != 7 {
		t.Errorf("Expected 7 bytes before failure, got %d", written)
	}
}

// shortWriter accepts fewer bytes than offered
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	if len(p) > 2 {
		return 2, nil
	}
	return len(p), nil
}

func TestCopyChunksShortWrite(t *testing.T) {
	_, err := copyChunks(shortWriter{}, strings.NewReader("payload"), 1000)
	if !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("Expected io.ErrShortWrite, got %v", err)
	}
}

func TestNewGoogleFetcherDefaults(t *testing.T) {
	f := NewGoogleFetcher(Config{FolderID: "folder", FileName: "db.duckdb"}, zerolog.Nop())

	if f.config.ChunkSize != 1024*1024 {
		t.Errorf("Expected default 1 MiB chunk size, got %d", f.config.ChunkSize)
	}
}
