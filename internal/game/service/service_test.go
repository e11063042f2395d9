package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/louisbranch/soloscribe/internal/errors"
	"github.com/louisbranch/soloscribe/internal/storage/sqlite"
)

// fakeAI is a scripted ai.Client that records prompts.
type fakeAI struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeAI) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// testClock returns a clock that advances one second per call so every
// mutation gets a distinct timestamp.
func testClock() func() time.Time {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
}

// testIDs returns sequential IDs so tests can predict slugs and order.
func testIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("fixedid%03d", n)
	}
}

func newTestService(t *testing.T, client *fakeAI) *Service {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	opts := []Option{
		WithClock(testClock()),
		WithIDGenerator(testIDs()),
		WithSeed(func() int64 { return 42 }),
	}
	if client == nil {
		return New(store, nil, opts...)
	}
	return New(store, client, opts...)
}

func wantCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("error = nil, want code %s", code)
	}
	if got := apperrors.GetCode(err); got != code {
		t.Fatalf("error code = %s (%v), want %s", got, err, code)
	}
}
