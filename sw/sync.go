package sw

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/roessland/syncwich/pkg/output"
	"github.com/roessland/syncwich/settings"
	"github.com/roessland/syncwich/suunto"
)

// Config holds all configuration needed to talk to Suunto
type Config struct {
	ClientID        string
	ClientSecret    string
	SubscriptionKey string
	TokenPath       string
	SaveDir         string
	UntilStr        string
	SinceStr        string
	JSONMode        bool

	// RequestsPerSecond paces FIT downloads; zero or less disables pacing
	RequestsPerSecond float64
}

// App is a configured connector together with its output
type App struct {
	Config       Config
	Client       *suunto.Client
	Connector    *Connector
	Logger       Logger
	Presentation *PresentationService
	Output       *output.OutputLogger
}

// NewApp validates the configuration and builds the connector, the Suunto
// client and the output
func NewApp(cfg Config) (*App, error) {
	ol, err := output.New(cfg.JSONMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create output system: %w", err)
	}
	presentation := NewPresentationService(ol)

	if err := validateCredentials(cfg); err != nil {
		presentation.ShowError(err, "Missing Suunto API credentials")
		return nil, err
	}

	tokenPath, err := homedir.Expand(cfg.TokenPath)
	if err != nil {
		presentation.ShowError(err, "Failed to expand token path")
		return nil, err
	}

	store, err := settings.Open(afero.NewOsFs(), tokenPath, ol.Component("settings").Slog())
	if err != nil {
		presentation.ShowError(err, "Failed to read token file %s", tokenPath)
		return nil, err
	}

	client := suunto.New(suunto.Config{
		ClientID:        cfg.ClientID,
		ClientSecret:    cfg.ClientSecret,
		SubscriptionKey: cfg.SubscriptionKey,
		Logger:          ol.Slog(),
	})

	logger := ol.Component("suunto-sync")

	return &App{
		Config:       cfg,
		Client:       client,
		Connector:    NewConnector(client, store, logger, time.Local),
		Logger:       logger,
		Presentation: presentation,
		Output:       ol,
	}, nil
}

// validateCredentials checks that the API credentials are provided
func validateCredentials(cfg Config) error {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.SubscriptionKey == "" {
		return fmt.Errorf("client_id, client_secret and subscription_key must be provided via config file or environment variables")
	}
	return nil
}

// open authenticates and reports the outcome
func (a *App) open(ctx context.Context) error {
	a.Presentation.ShowProgress("Refreshing Suunto access token...")
	if err := a.Connector.Open(ctx); err != nil {
		a.Presentation.ShowError(err, "Failed to authenticate with Suunto")
		return err
	}
	a.Presentation.ShowStatus("Successfully authenticated with Suunto")
	return nil
}

// Refresh exchanges the stored refresh token and persists the result
func (a *App) Refresh(ctx context.Context) error {
	if err := a.open(ctx); err != nil {
		return err
	}
	return a.Connector.Close()
}

// List prints the workouts in the configured date range
func (a *App) List(ctx context.Context, now time.Time) error {
	since, until, err := ValidateAndParseDates(a.Config.UntilStr, a.Config.SinceStr, now)
	if err != nil {
		return err
	}

	if err := a.open(ctx); err != nil {
		return err
	}
	defer a.Connector.Close()

	listing, err := a.Connector.Lister.List(ctx, since, until)
	if err != nil {
		a.Presentation.ShowError(err, "Failed to list Suunto workouts")
		return err
	}

	a.Presentation.ShowWarnings(listing.Warnings)
	return a.Presentation.ShowEntries(listing)
}

// Download performs the main download orchestration
func (a *App) Download(ctx context.Context, now time.Time) error {
	// 1. Validate and parse dates
	since, until, err := ValidateAndParseDates(a.Config.UntilStr, a.Config.SinceStr, now)
	if err != nil {
		return err
	}

	a.Logger.Info("starting download process", "since", since.Format("2006-01-02"), "until", until.Format("2006-01-02"))

	// 2. Authenticate
	if err := a.open(ctx); err != nil {
		return err
	}
	defer a.Connector.Close()

	// 3. Prepare download directory
	fs := NewOSFileSystem()
	saveDir, err := prepareDownloadDirectory(a.Config.SaveDir, fs, a.Presentation)
	if err != nil {
		return err
	}

	// 4. Download activities
	var limiter *rate.Limiter
	if a.Config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(a.Config.RequestsPerSecond), 1)
	}
	downloadService := NewDownloadService(a.Connector.Downloader, fs, a.Logger, limiter)

	summary, err := downloadActivities(ctx, a.Connector.Lister, downloadService, a.Presentation, since, until, saveDir, a.Logger)
	if err != nil {
		return err
	}

	// 5. Show final results
	summary.Since = since
	summary.Until = until
	a.Presentation.ShowFinalResults(summary)
	a.Presentation.ShowJSONResults(summary)

	a.Logger.Info("download completed",
		"processed", summary.Processed,
		"errors", summary.Errors)

	return nil
}

// prepareDownloadDirectory expands and creates the download directory
func prepareDownloadDirectory(saveDir string, fs FileSystem, presentation *PresentationService) (string, error) {
	expandedSaveDir, err := homedir.Expand(saveDir)
	if err != nil {
		presentation.ShowError(err, "Failed to expand save directory path")
		return "", err
	}

	if err := fs.MkdirAll(expandedSaveDir, 0755); err != nil {
		presentation.ShowError(err, "Failed to create save directory: %s", expandedSaveDir)
		return "", err
	}

	return expandedSaveDir, nil
}

// downloadActivities lists every workout in the date range and downloads
// them one at a time
func downloadActivities(ctx context.Context, lister *ActivityLister, downloadService *DownloadService, presentation *PresentationService, since, until time.Time, saveDir string, logger Logger) (*DownloadSummary, error) {
	listing, err := lister.List(ctx, since, until)
	if err != nil {
		presentation.ShowError(err, "Failed to list Suunto workouts")
		return nil, err
	}
	presentation.ShowWarnings(listing.Warnings)

	presentation.ShowStatus("Downloading %d workouts from %s to %s", len(listing.Entries), since.Format("2006-01-02"), until.Format("2006-01-02"))

	summary := &DownloadSummary{Warnings: listing.Warnings}
	var currentWeekStart time.Time

	for _, entry := range listing.Entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		// Show week header when we encounter a new week
		if ws := weekStart(entry.StartTime); !ws.Equal(currentWeekStart) {
			currentWeekStart = ws
			presentation.ShowWeekHeader(ws, ws.AddDate(0, 0, 6))
		}

		logger.Debug("processing workout", "workout_key", entry.ID, "name", entry.Name)

		var result DownloadResult
		if downloadService.fs.Exists(fitPath(saveDir, entry)) {
			result = downloadService.DownloadActivity(ctx, entry, saveDir, nil)
			presentation.ShowActivityResult(nil, entry, result)
		} else {
			area, onProgress := presentation.StartActivity(entry)
			result = downloadService.DownloadActivity(ctx, entry, saveDir, onProgress)
			presentation.ShowActivityResult(area, entry, result)
		}

		if result.Error != nil {
			logger.Warn("workout download failed", "workout_key", entry.ID, "error", result.Error)
		}

		summary.Results = append(summary.Results, result)
		summary.Processed++
		if !result.Success {
			summary.Errors++
		}
	}

	return summary, nil
}
