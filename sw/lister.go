package sw

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roessland/syncwich/suunto"
)

// Listing is the result of listing workouts. Warnings are problems that cut
// the listing short without invalidating the entries found before them.
type Listing struct {
	Entries  []DirectoryEntry
	Warnings []error
}

// ActivityLister lists remote workouts as directory entries
type ActivityLister struct {
	client SuuntoClient
	tokens *TokenStore
	logger Logger
	loc    *time.Location
}

// NewActivityLister creates a lister. Entry names use loc, time.Local if nil.
func NewActivityLister(client SuuntoClient, tokens *TokenStore, logger Logger, loc *time.Location) *ActivityLister {
	if loc == nil {
		loc = time.Local
	}
	return &ActivityLister{
		client: client,
		tokens: tokens,
		logger: logger,
		loc:    loc,
	}
}

// Iterate returns an iterator over the workouts started between from and to.
// The window is widened by a day on each side so workouts near midnight are
// not lost to time zone differences.
func (l *ActivityLister) Iterate(ctx context.Context, from, to time.Time) (*WorkoutIterator, error) {
	accessToken := l.tokens.AccessToken()
	if accessToken == "" {
		return nil, fmt.Errorf("%w: you must authorise with Suunto first", suunto.ErrUnauthenticated)
	}

	since := from.AddDate(0, 0, -1)
	until := to.AddDate(0, 0, 1)

	return newWorkoutIterator(ctx, l.client, accessToken, since, until, l.loc, l.logger), nil
}

// List collects every workout between from and to. A network or parse
// failure on any page stops the listing; entries gathered before it are
// returned together with a warning. Only a missing token or a cancelled
// context is an error.
func (l *ActivityLister) List(ctx context.Context, from, to time.Time) (*Listing, error) {
	it, err := l.Iterate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	listing := &Listing{}
	for entry, ok := it.Next(); ok; entry, ok = it.Next() {
		listing.Entries = append(listing.Entries, entry)
	}

	if err := it.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return listing, fmt.Errorf("listing cancelled: %w", ctxErr)
		}

		warning := fmt.Errorf("listing stopped after %d workouts: %w", len(listing.Entries), err)
		switch {
		case errors.Is(err, suunto.ErrParse):
			l.logger.Warn("stopping pagination on unparseable page", "offset", it.Offset(), "error", err)
		default:
			l.logger.Warn("network problem reading Suunto data", "offset", it.Offset(), "error", err)
		}
		listing.Warnings = append(listing.Warnings, warning)
	}

	l.logger.Info("listed workouts",
		"count", len(listing.Entries),
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"))

	return listing, nil
}
