package sw

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/roessland/syncwich/suunto"
)

// isNotFoundError checks if the error indicates a 404 Not Found response
func isNotFoundError(err error) bool {
	var apiErr *suunto.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// DownloadService saves workouts to disk without presentation concerns
type DownloadService struct {
	downloader *ActivityDownloader
	fs         FileSystem
	logger     Logger
	limiter    *rate.Limiter
}

// NewDownloadService creates a new download service. limiter paces export
// requests; nil means no pacing.
func NewDownloadService(downloader *ActivityDownloader, fs FileSystem, logger Logger, limiter *rate.Limiter) *DownloadService {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &DownloadService{
		downloader: downloader,
		fs:         fs,
		logger:     logger,
		limiter:    limiter,
	}
}

// fitPath is where entry is saved below saveDir
func fitPath(saveDir string, entry DirectoryEntry) string {
	return filepath.Join(saveDir, entry.Name)
}

// DownloadActivity downloads a single workout and returns structured results
func (ds *DownloadService) DownloadActivity(ctx context.Context, entry DirectoryEntry, saveDir string, onProgress ProgressFunc) DownloadResult {
	path := fitPath(saveDir, entry)

	if ds.fs.Exists(path) {
		return DownloadResult{
			WorkoutKey: entry.ID,
			Success:    true,
			FilePath:   path,
			Existed:    true,
		}
	}

	if err := ds.limiter.Wait(ctx); err != nil {
		return DownloadResult{
			WorkoutKey: entry.ID,
			Error:      fmt.Errorf("waiting to download %s: %w", entry.ID, err),
		}
	}

	var buf bytes.Buffer
	session, err := ds.downloader.Start(ctx, entry, &buf, onProgress)
	if err != nil {
		return DownloadResult{
			WorkoutKey: entry.ID,
			Error:      fmt.Errorf("failed to download FIT file for workout %s: %w", entry.ID, err),
		}
	}

	n, err := session.Wait()
	if err != nil {
		return DownloadResult{
			WorkoutKey:   entry.ID,
			NotAvailable: isNotFoundError(err),
			Error:        fmt.Errorf("failed to download FIT file for workout %s: %w", entry.ID, err),
		}
	}

	if err := ds.fs.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return DownloadResult{
			WorkoutKey: entry.ID,
			Error:      fmt.Errorf("failed to save FIT file for workout %s: %w", entry.ID, err),
		}
	}

	ds.logger.Debug("saved workout", "workout_key", entry.ID, "path", path, "bytes", n)

	return DownloadResult{
		WorkoutKey: entry.ID,
		Success:    true,
		FilePath:   path,
		Bytes:      n,
	}
}
