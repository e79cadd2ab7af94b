package behaviorsdk

import (
	"errors"
	"testing"
	"time"
)

// ══════════════════════════════════════════════
// ConversationContext + ContextTracker
// ══════════════════════════════════════════════

func TestConversationContext_Validate(t *testing.T) {
	if err := (ConversationContext{ConversationLength: 3, TimeOfDay: TimeDay}).validate(); err != nil {
		t.Fatalf("valid context rejected: %v", err)
	}
	var verr *ValidationError
	if err := (ConversationContext{ConversationLength: -1}).validate(); !errors.As(err, &verr) {
		t.Fatalf("negative length accepted: %v", err)
	}
	if err := (ConversationContext{TimeOfDay: "dusk"}).validate(); !errors.As(err, &verr) {
		t.Fatalf("unknown time of day accepted: %v", err)
	}
}

func TestContextTracker_TurnCounting(t *testing.T) {
	tracker := NewContextTracker(NewInMemoryStateStore())
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for want := 0; want < 3; want++ {
		ctx, err := tracker.Track("maya:u-1", "hello", now)
		if err != nil {
			t.Fatalf("track: %v", err)
		}
		if ctx.ConversationLength != want {
			t.Fatalf("turn %d: want length %d, got %d", want+1, want, ctx.ConversationLength)
		}
	}

	// A different conversation counts independently.
	ctx, err := tracker.Track("maya:u-2", "hello", now)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if ctx.ConversationLength != 0 {
		t.Fatalf("namespaces leaked: got length %d", ctx.ConversationLength)
	}
}

func TestContextTracker_Reset(t *testing.T) {
	tracker := NewContextTracker(NewInMemoryStateStore())
	now := time.Now()
	if _, err := tracker.Track("p:u", "hi", now); err != nil {
		t.Fatalf("track: %v", err)
	}
	if _, err := tracker.Track("p:u", "hi", now); err != nil {
		t.Fatalf("track: %v", err)
	}
	if err := tracker.Reset("p:u"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	ctx, err := tracker.Track("p:u", "hi", now)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if ctx.ConversationLength != 0 {
		t.Fatalf("reset did not clear the counter: %d", ctx.ConversationLength)
	}
}

func TestContextTracker_TimeOfDay(t *testing.T) {
	tracker := NewContextTracker(NewInMemoryStateStore())
	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	ctx, _ := tracker.Track("p:u", "hi", noon)
	if ctx.TimeOfDay != TimeDay {
		t.Fatalf("noon should be day, got %s", ctx.TimeOfDay)
	}
	ctx, _ = tracker.Track("p:u", "hi", late)
	if ctx.TimeOfDay != TimeNight {
		t.Fatalf("23:00 should be night, got %s", ctx.TimeOfDay)
	}
}

func TestContextTracker_ConfusionMarkers(t *testing.T) {
	tracker := NewContextTracker(NewInMemoryStateStore())
	now := time.Now()

	ctx, _ := tracker.Track("p:u", "I don't understand this fee", now)
	if !ctx.IsConfused {
		t.Fatal("confusion marker missed")
	}
	ctx, _ = tracker.Track("p:u", "thanks, all clear", now)
	if ctx.IsConfused {
		t.Fatal("false confusion positive")
	}
}
