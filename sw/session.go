package sw

import (
	"io"
	"sync/atomic"

	"github.com/google/uuid"
)

// ProgressFunc is called after every chunk written to a session's destination
// with the total number of bytes received so far.
type ProgressFunc func(received int64)

// Session is one in-flight download. It owns its destination writer until
// Done is closed; the caller must not touch the writer before that.
type Session struct {
	ID    string
	Entry DirectoryEntry

	done     chan struct{}
	received atomic.Int64
	err      error
}

func newSession(entry DirectoryEntry) *Session {
	return &Session{
		ID:    uuid.NewString(),
		Entry: entry,
		done:  make(chan struct{}),
	}
}

// Done is closed once the transport has completed, successfully or not
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the download completes and returns the bytes received
func (s *Session) Wait() (int64, error) {
	<-s.done
	return s.received.Load(), s.err
}

// Err returns the download error once Done is closed, nil before that
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Received returns the number of bytes written to the destination so far
func (s *Session) Received() int64 {
	return s.received.Load()
}

func (s *Session) finish(err error) {
	s.err = err
	close(s.done)
}

// chunkWriter forwards chunks to the session destination and reports progress
type chunkWriter struct {
	dst        io.Writer
	session    *Session
	onProgress ProgressFunc
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	total := w.session.received.Add(int64(n))
	if w.onProgress != nil && n > 0 {
		w.onProgress(total)
	}
	return n, err
}
