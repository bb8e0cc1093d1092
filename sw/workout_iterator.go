package sw

import (
	"context"
	"time"

	"github.com/roessland/syncwich/suunto"
)

// WorkoutIterator is an iterator that yields directory entries page by page
type WorkoutIterator struct {
	client      SuuntoClient
	ctx         context.Context
	accessToken string
	since       time.Time
	until       time.Time
	loc         *time.Location
	offset      int
	done        bool
	err         error
	entries     []DirectoryEntry
	entryIndex  int
	logger      Logger
}

// newWorkoutIterator creates an iterator over the workouts started in [since, until]
func newWorkoutIterator(ctx context.Context, client SuuntoClient, accessToken string, since, until time.Time, loc *time.Location, logger Logger) *WorkoutIterator {
	return &WorkoutIterator{
		client:      client,
		ctx:         ctx,
		accessToken: accessToken,
		since:       since,
		until:       until,
		loc:         loc,
		logger:      logger,
	}
}

// fetchPage fetches the page at the current offset
func (it *WorkoutIterator) fetchPage() error {
	workouts, err := it.client.ListWorkouts(it.ctx, it.accessToken, suunto.WorkoutQuery{
		Since:  it.since,
		Until:  it.until,
		Limit:  suunto.PageSize,
		Offset: it.offset,
	})
	if err != nil {
		return err
	}

	it.entries = make([]DirectoryEntry, len(workouts))
	for i, w := range workouts {
		it.entries[i] = newDirectoryEntry(w, it.loc)
		it.logger.Debug("direntry", "id", it.entries[i].ID, "name", it.entries[i].Name)
	}
	it.entryIndex = 0

	// Move to the next page
	it.offset += len(workouts)

	return nil
}

// Next returns the next entry and whether there was one
func (it *WorkoutIterator) Next() (DirectoryEntry, bool) {
	if it.done {
		return DirectoryEntry{}, false
	}

	// If we've consumed the current page, fetch the next one
	if it.entryIndex >= len(it.entries) {
		if err := it.fetchPage(); err != nil {
			it.err = err
			it.done = true
			return DirectoryEntry{}, false
		}

		// An empty page ends the listing
		if len(it.entries) == 0 {
			it.done = true
			return DirectoryEntry{}, false
		}
	}

	entry := it.entries[it.entryIndex]
	it.entryIndex++
	return entry, true
}

// Err returns the error that stopped the iteration, if any
func (it *WorkoutIterator) Err() error {
	return it.err
}

// Offset returns the number of workouts fetched so far
func (it *WorkoutIterator) Offset() int {
	return it.offset
}
