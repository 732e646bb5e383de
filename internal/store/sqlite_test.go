package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/isdelr/event-registry/internal/config"
	"github.com/isdelr/event-registry/internal/models"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteAddAndList(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	events, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List on empty store: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty store, got %d events", len(events))
	}

	titles := []string{"first", "second", "third"}
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		id, err := s.Add(ctx, models.NewEvent{Title: title, Location: "Orlando"}.ToEvent())
		if err != nil {
			t.Fatalf("Add(%s): %v", title, err)
		}
		if id == "" {
			t.Fatalf("Add(%s) returned empty id", title)
		}
		ids = append(ids, id)
	}

	events, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != len(titles) {
		t.Fatalf("expected %d events, got %d", len(titles), len(events))
	}
	for i, ev := range events {
		if ev.Title != titles[i] || ev.ID != ids[i] {
			t.Errorf("event %d: got (%s, %s), want (%s, %s)", i, ev.ID, ev.Title, ids[i], titles[i])
		}
		if ev.Likes != 0 {
			t.Errorf("event %d: expected 0 likes, got %d", i, ev.Likes)
		}
		if ev.Date != "" {
			t.Errorf("event %d: expected no date, got %q", i, ev.Date)
		}
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != int64(len(titles)) {
		t.Errorf("expected count %d, got %d", len(titles), n)
	}
}

func TestSQLiteAdjustLikes(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	id, err := s.Add(ctx, models.NewEvent{Title: "likes"}.ToEvent())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	steps := []struct {
		delta int64
		want  int64
	}{
		{delta: 1, want: 1},
		{delta: 1, want: 2},
		{delta: -1, want: 1},
		{delta: -1, want: 0},
		{delta: -1, want: 0}, // floor at zero
		{delta: 1, want: 1},
	}
	for i, step := range steps {
		got, err := s.AdjustLikes(ctx, id, step.delta)
		if err != nil {
			t.Fatalf("step %d: AdjustLikes: %v", i, err)
		}
		if got != step.want {
			t.Fatalf("step %d: expected %d likes, got %d", i, step.want, got)
		}
	}
}

func TestSQLiteAdjustLikesMissingField(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if _, err := s.db.ExecContext(ctx, "INSERT INTO events (id, title) VALUES ('legacy', 'no likes column')"); err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}
	got, err := s.AdjustLikes(ctx, "legacy", 1)
	if err != nil {
		t.Fatalf("AdjustLikes: %v", err)
	}
	if got != 1 {
		t.Errorf("expected missing likes to count as 0, got %d after like", got)
	}
}

func TestSQLiteAdjustLikesNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.AdjustLikes(context.Background(), "does-not-exist", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteConcurrentLikes(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	id, err := s.Add(ctx, models.NewEvent{Title: "popular"}.ToEvent())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	const likers = 50
	var wg sync.WaitGroup
	wg.Add(likers)
	errs := make(chan error, likers)
	for i := 0; i < likers; i++ {
		go func(n int) {
			defer wg.Done()
			if _, err := s.AdjustLikes(ctx, id, 1); err != nil {
				errs <- fmt.Errorf("liker %d: %w", n, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	events, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if events[0].Likes != likers {
		t.Errorf("expected %d likes with no lost updates, got %d", likers, events[0].Likes)
	}
}

func TestOpenSQLite(t *testing.T) {
	st, err := Open(context.Background(), config.Datastore{
		Driver:     config.DriverSQLite,
		Collection: "Events",
		SQLitePath: filepath.Join(t.TempDir(), "open.db"),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, ok := st.(*SQLiteStore); !ok {
		t.Errorf("expected *SQLiteStore, got %T", st)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.Datastore{Driver: "dynamo"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestClampLikes(t *testing.T) {
	tests := []struct {
		current, delta, want int64
	}{
		{0, 1, 1},
		{0, -1, 0},
		{5, -1, 4},
		{-3, 1, 0},
	}
	for _, tt := range tests {
		if got := clampLikes(tt.current, tt.delta); got != tt.want {
			t.Errorf("clampLikes(%d, %d) = %d, want %d", tt.current, tt.delta, got, tt.want)
		}
	}
}
