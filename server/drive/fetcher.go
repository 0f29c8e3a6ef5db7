// Package drive downloads the published database file from Google Drive.
//
// The file lives under a fixed parent folder and is located by exact
// name. The transfer is a plain sequential copy in 1 MiB chunks; there
// is no resumption and no retry, a failed download surfaces as a tagged
// error and the caller starts over.
package drive

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
	"github.com/rs/zerolog"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Fetcher materializes the remote database file at a local path using
// the service-account credentials file at credsPath.
type Fetcher interface {
	Fetch(ctx context.Context, credsPath, destPath string) error
}

// Config identifies the remote file and the transfer chunk size
type Config struct {
	FolderID  string
	FileName  string
	ChunkSize int
}

// GoogleFetcher is the Drive-backed Fetcher implementation
type GoogleFetcher struct {
	config Config
	logger zerolog.Logger
}

// NewGoogleFetcher creates a fetcher for the configured remote file
func NewGoogleFetcher(cfg Config, logger zerolog.Logger) *GoogleFetcher {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1024 * 1024
	}
	return &GoogleFetcher{
		config: cfg,
		logger: logger.With().Str("component", "drive-fetcher").Logger(),
	}
}

// Fetch authenticates with a read-only scope, locates the file by exact
// name within the parent folder and downloads it to destPath.
func (f *GoogleFetcher) Fetch(ctx context.Context, credsPath, destPath string) error {
	svc, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(credsPath),
		option.WithScopes(gdrive.DriveReadonlyScope),
	)
	if err != nil {
		return errors.New(ErrAuthFailed, "failed to authenticate with Drive", err)
	}

	query := fmt.Sprintf("name = '%s' and '%s' in parents", f.config.FileName, f.config.FolderID)
	list, err := svc.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return errors.New(ErrLookupFailed, "failed to query Drive for database file", err)
	}

	if len(list.Files) == 0 {
		return errors.Newf(ErrNotFound, nil, "could not find %s in the configured folder", f.config.FileName)
	}

	// First match wins. Duplicates should not happen in the publishing
	// pipeline, so make them visible when they do.
	if len(list.Files) > 1 {
		f.logger.Warn().
			Str("file", f.config.FileName).
			Int("matches", len(list.Files)).
			Msg("Multiple files match in Drive folder, using first match")
	}

	fileID := list.Files[0].Id
	f.logger.Info().Str("file", f.config.FileName).Str("file_id", fileID).Msg("Downloading database file")

	resp, err := svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return errors.New(ErrTransferFailed, "failed to start download", err)
	}
	defer resp.Body.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return errors.New(ErrTransferFailed, "failed to create local database file", err)
	}
	defer out.Close()

	written, err := copyChunks(out, resp.Body, f.config.ChunkSize)
	if err != nil {
		return errors.New(ErrTransferFailed, "failed to download database file", err).
			AddContext("bytes_written", fmt.Sprintf("%d", written))
	}

	if err := out.Close(); err != nil {
		return errors.New(ErrTransferFailed, "failed to finalize local database file", err)
	}

	f.logger.Info().Int64("bytes", written).Str("path", destPath).Msg("Download complete")
	return nil
}

// copyChunks copies src to dst in fixed-size sequential chunks,
// blocking until the transfer completes. io.Copy is avoided here: it
// delegates to ReaderFrom/WriterTo when available and the chunk size
// would no longer hold.
func copyChunks(dst io.Writer, src io.Reader, chunkSize int) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn != n {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
