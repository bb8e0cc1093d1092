package sw

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/roessland/syncwich/suunto"
)

// MockSuuntoClient implements SuuntoClient for testing
type MockSuuntoClient struct {
	mu sync.Mutex

	Token        *oauth2.Token
	RefreshError error
	Pages        [][]suunto.Workout
	PageErrors   map[int]error // keyed by page index
	FitData      []byte
	FitError     error
	FitErrors    map[string]error // keyed by workout key
	OnExport     func(workoutKey string)

	RefreshCalls []string
	ListCalls    []suunto.WorkoutQuery
	ListTokens   []string
	ExportCalls  []string
}

func (m *MockSuuntoClient) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshCalls = append(m.RefreshCalls, refreshToken)
	if m.RefreshError != nil {
		return nil, m.RefreshError
	}
	return m.Token, nil
}

func (m *MockSuuntoClient) ListWorkouts(ctx context.Context, accessToken string, q suunto.WorkoutQuery) ([]suunto.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page := len(m.ListCalls)
	m.ListCalls = append(m.ListCalls, q)
	m.ListTokens = append(m.ListTokens, accessToken)
	if err, ok := m.PageErrors[page]; ok {
		return nil, err
	}
	if page >= len(m.Pages) {
		return nil, nil
	}
	return m.Pages[page], nil
}

func (m *MockSuuntoClient) ExportFit(ctx context.Context, accessToken, workoutKey string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExportCalls = append(m.ExportCalls, workoutKey)
	if m.OnExport != nil {
		m.OnExport(workoutKey)
	}
	if err, ok := m.FitErrors[workoutKey]; ok {
		return nil, err
	}
	if m.FitError != nil {
		return nil, m.FitError
	}
	return io.NopCloser(bytes.NewReader(m.FitData)), nil
}

func (m *MockSuuntoClient) listCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ListCalls)
}

// MockSettings implements Settings for testing
type MockSettings struct {
	Values    map[string]string
	SaveError error
	Saved     map[string]string // snapshot of Values at the last successful Save
	SaveCalls int
}

func NewMockSettings(values map[string]string) *MockSettings {
	if values == nil {
		values = make(map[string]string)
	}
	return &MockSettings{Values: values}
}

func (m *MockSettings) GetSetting(key, def string) string {
	if v, ok := m.Values[key]; ok {
		return v
	}
	return def
}

func (m *MockSettings) SetSetting(key, value string) {
	m.Values[key] = value
}

func (m *MockSettings) Save() error {
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Saved = make(map[string]string, len(m.Values))
	for k, v := range m.Values {
		m.Saved[k] = v
	}
	return nil
}

// MockFileSystem implements FileSystem for testing
type MockFileSystem struct {
	Files      map[string][]byte
	WriteError error
	MkdirError error
	WriteCalls []WriteCall
	MkdirCalls []string
}

type WriteCall struct {
	Path string
	Data []byte
	Perm int
}

func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files: make(map[string][]byte),
	}
}

func (m *MockFileSystem) WriteFile(path string, data []byte, perm int) error {
	m.WriteCalls = append(m.WriteCalls, WriteCall{Path: path, Data: data, Perm: perm})
	if m.WriteError != nil {
		return m.WriteError
	}
	m.Files[path] = data
	return nil
}

func (m *MockFileSystem) Exists(path string) bool {
	_, exists := m.Files[path]
	return exists
}

func (m *MockFileSystem) MkdirAll(path string, perm int) error {
	m.MkdirCalls = append(m.MkdirCalls, path)
	return m.MkdirError
}

// MockLogger implements Logger for testing
type MockLogger struct {
	mu         sync.Mutex
	InfoCalls  []LogCall
	DebugCalls []LogCall
	WarnCalls  []LogCall
}

type LogCall struct {
	Message string
	Args    []any
}

func (m *MockLogger) Info(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoCalls = append(m.InfoCalls, LogCall{Message: msg, Args: args})
}

func (m *MockLogger) Debug(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DebugCalls = append(m.DebugCalls, LogCall{Message: msg, Args: args})
}

func (m *MockLogger) Warn(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarnCalls = append(m.WarnCalls, LogCall{Message: msg, Args: args})
}

// Helper function to create a not found error (404)
func createNotFoundError() error {
	return &suunto.APIError{StatusCode: http.StatusNotFound, Message: "workout not found"}
}

// Helper function to create a parse error as returned by the client
func createParseError() error {
	return errors.Join(suunto.ErrParse, errors.New("invalid character '<' looking for beginning of value"))
}

// workouts builds n sequential workouts starting at startMs, one hour apart
func workouts(prefix string, n int, startMs int64) []suunto.Workout {
	ws := make([]suunto.Workout, n)
	for i := range ws {
		ws[i] = suunto.Workout{
			ActivityID:    "1",
			WorkoutKey:    fmt.Sprintf("%s-%d", prefix, i),
			TotalDistance: 1000,
			TotalTime:     600.9,
			StartTime:     startMs + int64(i)*3_600_000,
		}
	}
	return ws
}
