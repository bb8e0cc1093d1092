package sw

import (
	"math"
	"time"

	"github.com/roessland/syncwich/suunto"
)

// EntryNameLayout is the file name layout of a listed workout, before the suffix
const EntryNameLayout = "2006_01_02_15_04_05"

// FitSuffix is appended to every entry name
const FitSuffix = ".fit"

// DirectoryEntry is a remote workout as seen by the sync: a flat file named
// after its start time.
type DirectoryEntry struct {
	ID              string // workout key, used to download
	Label           string // activity id, display only
	Name            string
	IsDir           bool
	DistanceKm      float64
	DurationSeconds int64
	StartTime       time.Time
}

// Duration returns the workout duration
func (e DirectoryEntry) Duration() time.Duration {
	return time.Duration(e.DurationSeconds) * time.Second
}

// newDirectoryEntry maps a listed workout to a directory entry. Start times
// are rendered in loc.
func newDirectoryEntry(w suunto.Workout, loc *time.Location) DirectoryEntry {
	start := time.UnixMilli(w.StartTime).In(loc)

	return DirectoryEntry{
		ID:              w.WorkoutKey,
		Label:           string(w.ActivityID),
		Name:            start.Format(EntryNameLayout) + FitSuffix,
		IsDir:           false,
		DistanceKm:      w.TotalDistance / 1000.0,
		DurationSeconds: int64(math.Trunc(w.TotalTime)),
		StartTime:       start,
	}
}
