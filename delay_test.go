package behaviorsdk

import (
	"strings"
	"testing"
)

// ══════════════════════════════════════════════
// Delay Estimator
// ══════════════════════════════════════════════

func TestComputeDelay_Bounds(t *testing.T) {
	e := NewDelayEstimator()

	quick := testPersona()
	quick.CognitiveProfile.Patience = 1
	if got := e.ComputeDelay(quick, "hi", "ok", ConversationContext{}); got != 400 {
		t.Fatalf("tiny turn should clamp to floor, got %d", got)
	}

	long := strings.Repeat("a", 20000)
	if got := e.ComputeDelay(testPersona(), "hi", long, ConversationContext{}); got != 12000 {
		t.Fatalf("huge reply should clamp to ceiling, got %d", got)
	}
}

func TestComputeDelay_MonotonicInReplyLength(t *testing.T) {
	e := NewDelayEstimator()
	p := testPersona()
	prev := 0
	for _, n := range []int{10, 50, 100, 200, 400} {
		got := e.ComputeDelay(p, "how does this work", strings.Repeat("a", n), ConversationContext{})
		if got < prev {
			t.Fatalf("delay decreased for longer reply: %d chars -> %d ms (prev %d)", n, got, prev)
		}
		prev = got
	}
}

func TestComputeDelay_ComprehensionSpeed(t *testing.T) {
	e := NewDelayEstimator()
	userText := strings.Repeat("the market moved today ", 10)

	slow := testPersona()
	slow.CognitiveProfile.ComprehensionSpeed = ComprehensionSlow
	fast := testPersona()
	fast.CognitiveProfile.ComprehensionSpeed = ComprehensionFast

	ds := e.ComputeDelay(slow, userText, "Let me check on that.", ConversationContext{})
	df := e.ComputeDelay(fast, userText, "Let me check on that.", ConversationContext{})
	if ds <= df {
		t.Fatalf("slow reader should take longer: slow=%d fast=%d", ds, df)
	}
}

func TestComputeDelay_ConfusionExtendsThinking(t *testing.T) {
	e := NewDelayEstimator()
	p := testPersona()
	base := e.ComputeDelay(p, "what is this fee", "It covers the transfer.", ConversationContext{})
	confused := e.ComputeDelay(p, "what is this fee", "It covers the transfer.", ConversationContext{IsConfused: true})
	if confused <= base {
		t.Fatalf("confusion should extend delay: base=%d confused=%d", base, confused)
	}
}

func TestComputeDelay_ClarifyingQuestionExtendsThinking(t *testing.T) {
	e := NewDelayEstimator()
	p := testPersona()
	clarifying := "Do you mean this one?"
	plain := strings.Repeat("a", len(clarifying))
	dc := e.ComputeDelay(p, "set it up", clarifying, ConversationContext{})
	dp := e.ComputeDelay(p, "set it up", plain, ConversationContext{})
	if dc <= dp {
		t.Fatalf("clarifying reply should take longer: clarifying=%d plain=%d", dc, dp)
	}
}

func TestComputeDelay_FatigueAndNight(t *testing.T) {
	e := NewDelayEstimator()
	p := testPersona()

	fresh := e.ComputeDelay(p, "ok then", "Sounds good to me.", ConversationContext{})
	tired := e.ComputeDelay(p, "ok then", "Sounds good to me.", ConversationContext{ConversationLength: 8})
	if tired <= fresh {
		t.Fatalf("long conversation should slow replies: fresh=%d tired=%d", fresh, tired)
	}

	day := e.ComputeDelay(p, "ok then", "Sounds good to me.", ConversationContext{TimeOfDay: TimeDay})
	night := e.ComputeDelay(p, "ok then", "Sounds good to me.", ConversationContext{TimeOfDay: TimeNight})
	if night <= day {
		t.Fatalf("night should slow replies: day=%d night=%d", day, night)
	}
}

func TestComputeDelay_Deterministic(t *testing.T) {
	e := NewDelayEstimator()
	p := testPersona()
	ctx := ConversationContext{ConversationLength: 3, TimeOfDay: TimeDay}
	a := e.ComputeDelay(p, "same input", "Same reply text here.", ctx)
	b := e.ComputeDelay(p, "same input", "Same reply text here.", ctx)
	if a != b {
		t.Fatalf("estimator not pure: %d vs %d", a, b)
	}
}

func TestComputeDelay_NilProfile(t *testing.T) {
	e := NewDelayEstimator()
	if got := e.ComputeDelay(nil, "x", "y", ConversationContext{}); got != 400 {
		t.Fatalf("nil profile should return the floor, got %d", got)
	}
}
