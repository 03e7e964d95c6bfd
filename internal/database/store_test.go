package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, nil)
}

func TestGetOrCreateProfile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.GetOrCreateProfile(ctx, "sender-1")
	if err != nil {
		t.Fatalf("first contact failed: %v", err)
	}
	if first.Sender != "sender-1" {
		t.Errorf("profile sender = %q, want %q", first.Sender, "sender-1")
	}

	prefs, err := first.PreferenceMap()
	if err != nil {
		t.Fatalf("decoding preferences: %v", err)
	}
	if len(prefs) != 0 {
		t.Errorf("new profile preferences = %v, want empty", prefs)
	}

	favorites, err := first.Favorites()
	if err != nil {
		t.Fatalf("decoding favorites: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("new profile favorites = %v, want empty", favorites)
	}

	second, err := store.GetOrCreateProfile(ctx, "sender-1")
	if err != nil {
		t.Fatalf("second contact failed: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("second contact returned a different profile: created_at %v != %v",
			second.CreatedAt, first.CreatedAt)
	}
}

func TestGetOrCreateProfileConcurrentFirstContact(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g, gCtx := errgroup.WithContext(ctx)
	for range 8 {
		g.Go(func() error {
			_, err := store.GetOrCreateProfile(gCtx, "racer")
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent first contact failed: %v", err)
	}

	profile, err := store.GetOrCreateProfile(ctx, "racer")
	if err != nil {
		t.Fatalf("loading profile after race: %v", err)
	}
	if profile.Sender != "racer" {
		t.Errorf("profile sender = %q, want %q", profile.Sender, "racer")
	}
}

func TestAppendAndRecentTurns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := range 30 {
		turn := &Turn{
			Sender:    "sender-1",
			Content:   fmt.Sprintf("message %d", i),
			Role:      RoleHuman,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.AppendTurn(ctx, turn); err != nil {
			t.Fatalf("appending turn %d: %v", i, err)
		}
		if turn.ID == 0 {
			t.Errorf("turn %d did not receive an ID", i)
		}
	}

	turns, err := store.RecentTurns(ctx, "sender-1", DefaultContextTurns)
	if err != nil {
		t.Fatalf("fetching recent turns: %v", err)
	}
	if len(turns) != DefaultContextTurns {
		t.Fatalf("recent turns count = %d, want %d", len(turns), DefaultContextTurns)
	}

	// Most recent 20 of 30, oldest-first: messages 10..29.
	if turns[0].Content != "message 10" {
		t.Errorf("first turn = %q, want %q", turns[0].Content, "message 10")
	}
	if turns[len(turns)-1].Content != "message 29" {
		t.Errorf("last turn = %q, want %q", turns[len(turns)-1].Content, "message 29")
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].Timestamp.Before(turns[i-1].Timestamp) {
			t.Errorf("turns out of order at index %d", i)
		}
	}
}

func TestRecentTurnsEmptyHistory(t *testing.T) {
	store := newTestStore(t)

	turns, err := store.RecentTurns(context.Background(), "nobody", DefaultContextTurns)
	if err != nil {
		t.Fatalf("recent turns for unknown sender: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("recent turns for unknown sender = %d entries, want 0", len(turns))
	}
}

func TestAppendTurnValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		turn *Turn
	}{
		{name: "nil turn", turn: nil},
		{name: "missing sender", turn: &Turn{Content: "hello", Role: RoleHuman}},
		{name: "invalid role", turn: &Turn{Sender: "s", Content: "hello", Role: Role("system")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.AppendTurn(ctx, tc.turn); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestPruneTurns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, sender := range []string{"a", "b"} {
		for i := range 10 {
			turn := &Turn{
				Sender:    sender,
				Content:   fmt.Sprintf("%s %d", sender, i),
				Role:      RoleBot,
				Timestamp: base.Add(time.Duration(i) * time.Second),
			}
			if err := store.AppendTurn(ctx, turn); err != nil {
				t.Fatalf("appending: %v", err)
			}
		}
	}

	pruned, err := store.PruneTurns(ctx, 4)
	if err != nil {
		t.Fatalf("pruning: %v", err)
	}
	if pruned != 12 {
		t.Errorf("pruned = %d rows, want 12", pruned)
	}

	for _, sender := range []string{"a", "b"} {
		turns, err := store.RecentTurns(ctx, sender, 100)
		if err != nil {
			t.Fatalf("recent turns after prune: %v", err)
		}
		if len(turns) != 4 {
			t.Errorf("sender %s has %d turns after prune, want 4", sender, len(turns))
		}
		if turns[len(turns)-1].Content != sender+" 9" {
			t.Errorf("newest turn for %s = %q, want %q", sender, turns[len(turns)-1].Content, sender+" 9")
		}
	}
}
