package sw

import (
	"context"
	"io"
	"time"

	"golang.org/x/oauth2"

	"github.com/roessland/syncwich/suunto"
)

// SuuntoClient interface abstracts the Suunto client for testing
type SuuntoClient interface {
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
	ListWorkouts(ctx context.Context, accessToken string, q suunto.WorkoutQuery) ([]suunto.Workout, error)
	ExportFit(ctx context.Context, accessToken, workoutKey string) (io.ReadCloser, error)
}

// Settings is the durable key/value store tokens are kept in
type Settings interface {
	GetSetting(key, def string) string
	SetSetting(key, value string)
	Save() error
}

// FileSystem interface abstracts file operations for testing
type FileSystem interface {
	WriteFile(path string, data []byte, perm int) error
	Exists(path string) bool
	MkdirAll(path string, perm int) error
}

// Logger interface abstracts logging for testing
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// DownloadResult represents the result of downloading a single activity
type DownloadResult struct {
	WorkoutKey string
	Success    bool
	FilePath   string
	Bytes      int64
	Error      error
	Existed    bool // true if file already existed

	NotAvailable bool // the service has no FIT export for this workout
}

// DownloadSummary represents the overall download results
type DownloadSummary struct {
	Processed int
	Errors    int
	Since     time.Time
	Until     time.Time
	Results   []DownloadResult
	Warnings  []error
}
