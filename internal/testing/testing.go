// Package testing contains shared test doubles and file helpers.
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/k7t3/horzcv/internal/models"
)

// MockFinder is a test double for [services.Finder] returning a fixed response.
type MockFinder struct {
	// Accept overrides Accepts; nil accepts every query.
	Accept func(query string) bool

	name    string
	resp    models.StreamerInfoResponse
	err     error
	calls   atomic.Int32
	queries []string
	mu      sync.Mutex
}

func NewMockFinder(name string, resp models.StreamerInfoResponse, err error) *MockFinder {
	return &MockFinder{name: name, resp: resp, err: err}
}

func (m *MockFinder) Name() string { return m.name }

func (m *MockFinder) Accepts(query string) bool {
	if m.Accept == nil {
		return true
	}
	return m.Accept(query)
}

func (m *MockFinder) Find(ctx context.Context, query string) (models.StreamerInfoResponse, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	return m.resp, m.err
}

// Calls returns how many times Find ran.
func (m *MockFinder) Calls() int { return int(m.calls.Load()) }

// Queries returns the queries passed to Find in call order.
func (m *MockFinder) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// MockLookup is a test double for [services.Lookup] answering from a map.
type MockLookup struct {
	Responses map[string]models.StreamerInfoResponse
	mu        sync.Mutex
	queries   []string
}

func (m *MockLookup) Lookup(ctx context.Context, query string) models.StreamerInfoResponse {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if resp, ok := m.Responses[query]; ok {
		return resp
	}
	return models.EmptyStreamerInfoResponse()
}

// Queries returns the looked up queries in call order.
func (m *MockLookup) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
