package output

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/pterm/pterm"
)

// LevelTrace is below debug and used for request/response dumps.
const LevelTrace = slog.LevelDebug - 4

// Logger wraps slog.Logger with context-aware methods
type Logger interface {
	// Component returns a logger for a specific component
	Component(name string) Logger
	// With returns a logger with additional attributes
	With(args ...any) Logger
	// Slog exposes the underlying slog.Logger for packages that take one directly
	Slog() *slog.Logger

	// Standard log levels
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// OutputLogger handles both user output and structured logging
type OutputLogger struct {
	Logger
	jsonMode bool
	stdout   io.Writer
}

// DownloadState represents the state of a file download
type DownloadState int

const (
	StateExists DownloadState = iota
	StateDownloading
	StateDownloaded
	StateError
	StateNotAvailable // the service has no export for this workout
)

func (s DownloadState) String() string {
	switch s {
	case StateExists:
		return "exists"
	case StateDownloading:
		return "downloading"
	case StateDownloaded:
		return "downloaded"
	case StateError:
		return "error"
	case StateNotAvailable:
		return "not_available"
	default:
		return "unknown"
	}
}

// FileInfo represents information about a downloaded file
type FileInfo struct {
	Type  string // "FIT"
	State DownloadState
	Bytes int64 // bytes received so far
}

// UseJSON reports whether JSON mode should be used. An explicit flag wins;
// otherwise JSON is chosen when stdout is not a terminal.
func UseJSON(flag bool) bool {
	if flag {
		return true
	}
	fd := os.Stdout.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// New creates a new OutputLogger
// If jsonMode is true, only structured logs go to stdout
// If jsonMode is false, structured logs go to file and user messages use pterm
func New(jsonMode bool) (*OutputLogger, error) {
	var slogLogger *slog.Logger

	if jsonMode {
		// JSON mode: structured logs only to stdout
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       getLogLevel(),
			ReplaceAttr: replaceLevel,
		})
		slogLogger = slog.New(handler)
	} else {
		// Interactive mode: structured logs to file
		logFile, err := getLogFilePath()
		if err != nil {
			return nil, fmt.Errorf("failed to get log file path: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		handler := slog.NewTextHandler(file, &slog.HandlerOptions{
			Level:       getLogLevel(),
			ReplaceAttr: replaceLevel,
		})
		slogLogger = slog.New(handler)
	}

	return &OutputLogger{
		Logger:   &loggerImpl{slog: slogLogger},
		jsonMode: jsonMode,
		stdout:   os.Stdout,
	}, nil
}

// NewWithHandler creates an OutputLogger around an existing handler.
// User-facing JSON goes to stdout.
func NewWithHandler(handler slog.Handler, jsonMode bool, stdout io.Writer) *OutputLogger {
	return &OutputLogger{
		Logger:   &loggerImpl{slog: slog.New(handler)},
		jsonMode: jsonMode,
		stdout:   stdout,
	}
}

// getLogLevel returns the log level from LOG_LEVEL env var, defaulting to debug
func getLogLevel() slog.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

// ParseLevel maps trace/debug/info/warn/error to a slog level. Unknown
// values map to debug.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// replaceLevel names the trace level instead of printing DEBUG-4
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

// getLogFilePath returns the path to the log file
func getLogFilePath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".syncwich", "syncwich.log"), nil
}

// JSONMode reports whether user output is structured JSON
func (ol *OutputLogger) JSONMode() bool {
	return ol.jsonMode
}

// WeekHeader shows a week range header
func (ol *OutputLogger) WeekHeader(startDate, endDate time.Time) {
	if ol.jsonMode {
		ol.Logger.Info("week_start", "start_date", startDate.Format("2006-01-02"), "end_date", endDate.Format("2006-01-02"))
	} else {
		pterm.Println()
		headerText := fmt.Sprintf("📅 Week from %s to %s", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
		pterm.Info.Println(headerText)
	}
}

// ActivityLine shows a single activity line that can be updated
func (ol *OutputLogger) ActivityLine(emoji, label string, fileInfo FileInfo) *pterm.AreaPrinter {
	if ol.jsonMode {
		ol.Logger.Info("activity_status",
			"activity", label,
			"file_type", fileInfo.Type,
			"state", fileInfo.State.String(),
			"bytes", fileInfo.Bytes)
		return nil
	}

	line := buildActivityLine(emoji, label, fileInfo)

	// Finished lines are printed once, only downloads get an updatable area
	if fileInfo.State != StateDownloading {
		pterm.Println(line)
		return nil
	}

	area, _ := pterm.DefaultArea.Start()
	area.Update(line)
	return area
}

// buildActivityLine creates a formatted activity line
func buildActivityLine(emoji, label string, fileInfo FileInfo) string {
	parts := []string{emoji, label, formatFileDisplay(fileInfo), formatStatusDisplay(fileInfo)}
	return strings.Join(parts, " ")
}

// formatFileDisplay formats a single file type with appropriate styling
func formatFileDisplay(fileInfo FileInfo) string {
	switch fileInfo.State {
	case StateExists:
		return pterm.NewStyle(pterm.BgGray, pterm.FgBlack).Sprint(fileInfo.Type)
	case StateDownloading:
		return pterm.NewStyle(pterm.BgBlue, pterm.FgWhite).Sprint(fileInfo.Type)
	case StateDownloaded:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite).Sprint(fileInfo.Type)
	case StateError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite).Sprint(fileInfo.Type)
	case StateNotAvailable:
		return pterm.NewStyle(pterm.FgGray).Sprintf("%s (not available)", fileInfo.Type)
	default:
		return fileInfo.Type
	}
}

// formatStatusDisplay formats the status part of the line
func formatStatusDisplay(fileInfo FileInfo) string {
	switch fileInfo.State {
	case StateExists:
		return pterm.NewStyle(pterm.FgGreen).Sprint("✅ Already downloaded")
	case StateDownloading:
		return fmt.Sprintf("Downloading... %s", formatBytes(fileInfo.Bytes))
	case StateDownloaded:
		return pterm.NewStyle(pterm.FgGreen).Sprintf("✅ Downloaded (%s)", formatBytes(fileInfo.Bytes))
	case StateError:
		return pterm.NewStyle(pterm.FgRed).Sprint("❌ Error")
	case StateNotAvailable:
		return pterm.NewStyle(pterm.FgRed).Sprint("❌ Not available")
	default:
		return ""
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f kB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// UpdateActivityLine updates an existing activity line
func (ol *OutputLogger) UpdateActivityLine(area *pterm.AreaPrinter, emoji, label string, fileInfo FileInfo) {
	if ol.jsonMode || area == nil {
		if ol.jsonMode {
			ol.Logger.Info("activity_update",
				"activity", label,
				"file_type", fileInfo.Type,
				"state", fileInfo.State.String(),
				"bytes", fileInfo.Bytes)
		}
		return
	}

	area.Update(buildActivityLine(emoji, label, fileInfo))

	// If download is complete or error, stop the area printer and add newline
	if fileInfo.State != StateDownloading {
		area.Stop()
		pterm.Println()
	}
}

// Progress shows ongoing operations
func (ol *OutputLogger) Progress(format string, args ...any) {
	if ol.jsonMode {
		ol.Logger.Info("progress", "message", fmt.Sprintf(format, args...))
	} else {
		pterm.Info.Printf(format+"\n", args...)
	}
}

// Status shows important state changes
func (ol *OutputLogger) Status(format string, args ...any) {
	if ol.jsonMode {
		ol.Logger.Info("status", "message", fmt.Sprintf(format, args...))
	} else {
		pterm.Success.Printf(format+"\n", args...)
	}
}

// Warning shows a non-fatal problem
func (ol *OutputLogger) Warning(format string, args ...any) {
	if ol.jsonMode {
		ol.Logger.Warn("user_warning", "message", fmt.Sprintf(format, args...))
	} else {
		pterm.Warning.Printf(format+"\n", args...)
	}
}

// Result shows final results/summaries
func (ol *OutputLogger) Result(format string, args ...any) {
	if ol.jsonMode {
		ol.Logger.Info("result", "message", fmt.Sprintf(format, args...))
	} else {
		pterm.Success.Printf("🎯 "+format+"\n", args...)
	}
}

// Error shows user-facing errors
func (ol *OutputLogger) Error(format string, args ...any) {
	if ol.jsonMode {
		ol.Logger.Error("user_error", "message", fmt.Sprintf(format, args...))
	} else {
		pterm.Error.Printf(format+"\n", args...)
	}
}

// Table prints rows with a header line in interactive mode
func (ol *OutputLogger) Table(header []string, rows [][]string) error {
	if ol.jsonMode {
		return nil
	}
	data := pterm.TableData{header}
	data = append(data, rows...)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// JSON outputs structured data (only in JSON mode)
func (ol *OutputLogger) JSON(data any) error {
	if !ol.jsonMode {
		return nil
	}
	return json.NewEncoder(ol.stdout).Encode(data)
}

// LogAndShowError logs an error with full context and shows a user-friendly message
func (ol *OutputLogger) LogAndShowError(err error, userMsg string, args ...any) {
	ol.Logger.Error("operation_failed", "error", err.Error(), "user_message", fmt.Sprintf(userMsg, args...))
	ol.Error(userMsg, args...)
}

// loggerImpl implements Logger interface
type loggerImpl struct {
	slog *slog.Logger
}

func (l *loggerImpl) Component(name string) Logger {
	return &loggerImpl{slog: l.slog.With("component", name)}
}

func (l *loggerImpl) With(args ...any) Logger {
	return &loggerImpl{slog: l.slog.With(args...)}
}

func (l *loggerImpl) Slog() *slog.Logger {
	return l.slog
}

func (l *loggerImpl) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

func (l *loggerImpl) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

func (l *loggerImpl) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

func (l *loggerImpl) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}
