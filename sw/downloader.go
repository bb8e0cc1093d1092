package sw

import (
	"context"
	"fmt"
	"io"

	"github.com/roessland/syncwich/suunto"
)

// ActivityDownloader fetches FIT exports of workouts. Bytes are passed
// through untouched; validating the file is up to the caller.
type ActivityDownloader struct {
	client SuuntoClient
	tokens *TokenStore
	logger Logger
}

// NewActivityDownloader creates a new downloader
func NewActivityDownloader(client SuuntoClient, tokens *TokenStore, logger Logger) *ActivityDownloader {
	return &ActivityDownloader{
		client: client,
		tokens: tokens,
		logger: logger,
	}
}

// Start begins downloading entry into dst and returns immediately. The
// returned session owns dst until its Done channel is closed.
func (d *ActivityDownloader) Start(ctx context.Context, entry DirectoryEntry, dst io.Writer, onProgress ProgressFunc) (*Session, error) {
	accessToken := d.tokens.AccessToken()
	if accessToken == "" {
		return nil, fmt.Errorf("%w: you must authorise with Suunto first", suunto.ErrUnauthenticated)
	}

	session := newSession(entry)
	d.logger.Debug("starting download", "session", session.ID, "workout_key", entry.ID, "name", entry.Name)

	go func() {
		session.finish(d.run(ctx, accessToken, session, dst, onProgress))
	}()

	return session, nil
}

func (d *ActivityDownloader) run(ctx context.Context, accessToken string, session *Session, dst io.Writer, onProgress ProgressFunc) error {
	body, err := d.client.ExportFit(ctx, accessToken, session.Entry.ID)
	if err != nil {
		return err
	}
	defer body.Close()

	w := &chunkWriter{dst: dst, session: session, onProgress: onProgress}
	if _, err := io.Copy(w, body); err != nil {
		return fmt.Errorf("%w: reading export of %s: %v", suunto.ErrNetwork, session.Entry.ID, err)
	}

	d.logger.Debug("download completed", "session", session.ID, "bytes", session.Received())
	return nil
}

// ReadFile downloads the workout with the given key into dst and blocks
// until the transport has completed.
func (d *ActivityDownloader) ReadFile(ctx context.Context, remoteID string, dst io.Writer) (int64, error) {
	session, err := d.Start(ctx, DirectoryEntry{ID: remoteID}, dst, nil)
	if err != nil {
		return 0, err
	}
	return session.Wait()
}
