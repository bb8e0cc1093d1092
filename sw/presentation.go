package sw

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"

	"github.com/roessland/syncwich/pkg/output"
)

// PresentationService handles all presentation logic
type PresentationService struct {
	ol       *output.OutputLogger
	detector *ActivityTypeDetector
}

// NewPresentationService creates a new presentation service
func NewPresentationService(ol *output.OutputLogger) *PresentationService {
	return &PresentationService{ol: ol, detector: NewActivityTypeDetector()}
}

// ShowProgress displays a progress message
func (ps *PresentationService) ShowProgress(msg string) {
	ps.ol.Progress("%s", msg)
}

// ShowStatus displays a status message
func (ps *PresentationService) ShowStatus(msg string, args ...any) {
	ps.ol.Status(msg, args...)
}

// ShowError logs and displays an error
func (ps *PresentationService) ShowError(err error, msg string, args ...any) {
	ps.ol.LogAndShowError(err, msg, args...)
}

// ShowWarnings displays non-fatal problems, one per line
func (ps *PresentationService) ShowWarnings(warnings []error) {
	for _, w := range warnings {
		ps.ol.Warning("%v", w)
	}
}

// ShowWeekHeader displays a week header
func (ps *PresentationService) ShowWeekHeader(weekStart, weekEnd time.Time) {
	ps.ol.WeekHeader(weekStart, weekEnd)
}

// entryLabel is the text shown for a workout
func (ps *PresentationService) entryLabel(entry DirectoryEntry) string {
	return fmt.Sprintf("%s %s %.2f km %s",
		entry.Name, ps.detector.Name(entry.Label), entry.DistanceKm, formatDuration(entry.Duration()))
}

// StartActivity shows a downloading line for entry and returns a progress
// callback updating it
func (ps *PresentationService) StartActivity(entry DirectoryEntry) (*pterm.AreaPrinter, ProgressFunc) {
	emoji := ps.detector.DetectActivityType(entry.Label)
	label := ps.entryLabel(entry)

	area := ps.ol.ActivityLine(emoji, label, output.FileInfo{Type: "FIT", State: output.StateDownloading})
	if area == nil {
		return nil, nil
	}

	return area, func(received int64) {
		ps.ol.UpdateActivityLine(area, emoji, label, output.FileInfo{
			Type:  "FIT",
			State: output.StateDownloading,
			Bytes: received,
		})
	}
}

// ShowActivityResult displays the result of downloading an activity. area is
// the line returned by StartActivity, or nil.
func (ps *PresentationService) ShowActivityResult(area *pterm.AreaPrinter, entry DirectoryEntry, result DownloadResult) {
	emoji := ps.detector.DetectActivityType(entry.Label)
	label := ps.entryLabel(entry)

	info := output.FileInfo{Type: "FIT", Bytes: result.Bytes}
	switch {
	case result.Existed:
		info.State = output.StateExists
	case result.NotAvailable:
		info.State = output.StateNotAvailable
	case !result.Success:
		info.State = output.StateError
	default:
		info.State = output.StateDownloaded
	}

	if area != nil {
		ps.ol.UpdateActivityLine(area, emoji, label, info)
		return
	}
	ps.ol.ActivityLine(emoji, label, info)
}

// ShowEntries displays a listing as a table, or as JSON in JSON mode
func (ps *PresentationService) ShowEntries(listing *Listing) error {
	if ps.ol.JSONMode() {
		type jsonEntry struct {
			ID              string  `json:"id"`
			Label           string  `json:"label"`
			Name            string  `json:"name"`
			Sport           string  `json:"sport"`
			DistanceKm      float64 `json:"distance_km"`
			DurationSeconds int64   `json:"duration_seconds"`
			StartTime       string  `json:"start_time"`
		}
		entries := make([]jsonEntry, 0, len(listing.Entries))
		for _, e := range listing.Entries {
			entries = append(entries, jsonEntry{
				ID:              e.ID,
				Label:           e.Label,
				Name:            e.Name,
				Sport:           ps.detector.Name(e.Label),
				DistanceKm:      e.DistanceKm,
				DurationSeconds: e.DurationSeconds,
				StartTime:       e.StartTime.Format(time.RFC3339),
			})
		}
		return ps.ol.JSON(map[string]any{"entries": entries})
	}

	rows := make([][]string, 0, len(listing.Entries))
	for _, e := range listing.Entries {
		rows = append(rows, []string{
			ps.detector.DetectActivityType(e.Label),
			e.Name,
			ps.detector.Name(e.Label),
			fmt.Sprintf("%.2f", e.DistanceKm),
			formatDuration(e.Duration()),
			e.ID,
		})
	}
	return ps.ol.Table([]string{"", "Name", "Sport", "km", "Time", "Workout key"}, rows)
}

// ShowFinalResults displays the final download summary
func (ps *PresentationService) ShowFinalResults(summary *DownloadSummary) {
	ps.ol.Result("Download complete: %d processed, %d errors", summary.Processed, summary.Errors)
}

// ShowJSONResults outputs structured JSON results
func (ps *PresentationService) ShowJSONResults(summary *DownloadSummary) {
	warnings := make([]string, 0, len(summary.Warnings))
	for _, w := range summary.Warnings {
		warnings = append(warnings, w.Error())
	}
	ps.ol.JSON(map[string]any{
		"summary": map[string]int{
			"processed": summary.Processed,
			"errors":    summary.Errors,
		},
		"date_range": map[string]string{
			"since": summary.Since.Format("2006-01-02"),
			"until": summary.Until.Format("2006-01-02"),
		},
		"warnings": warnings,
	})
}

// formatDuration renders d as h:mm:ss, or m:ss below an hour
func formatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
