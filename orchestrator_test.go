package behaviorsdk

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
)

// ══════════════════════════════════════════════
// Response Orchestrator
// ══════════════════════════════════════════════

func seededOrchestratorConfig(seed int64) OrchestratorConfig {
	cfg := DefaultOrchestratorConfig()
	cfg.Humanizer.Rand = rand.New(rand.NewSource(seed))
	return cfg
}

func TestGenerateResponse_HappyPath(t *testing.T) {
	complete := func(ctx context.Context, messages []Message) (string, error) {
		return "Your APR is 12.5% right now.", nil
	}
	p := testPersona()
	p.VocabularyProfile.AvoidedWords = []string{"APR"}
	o := NewOrchestrator(complete, seededOrchestratorConfig(1))

	resp, err := o.GenerateResponse(context.Background(), p,
		"I'm confused about my statement", nil, ConversationContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(resp.Content, "APR") {
		t.Fatalf("avoided word survived orchestration: %q", resp.Content)
	}
	if resp.DelayMs < 400 || resp.DelayMs > 12000 {
		t.Fatalf("delay out of bounds: %d", resp.DelayMs)
	}
	if resp.Emotion != EmotionConfused {
		t.Fatalf("emotion should come from the user's text, got %s", resp.Emotion)
	}
	if len(resp.TypingEvents) == 0 {
		t.Fatal("no typing events")
	}
	last := resp.TypingEvents[len(resp.TypingEvents)-1]
	if last.EventType != EventTypingStop || last.DelayMs != resp.DelayMs {
		t.Fatalf("timeline must end at the response delay, got %+v for delay %d", last, resp.DelayMs)
	}
}

func TestGenerateResponse_ProviderFailure(t *testing.T) {
	boom := errors.New("upstream unavailable")
	complete := func(ctx context.Context, messages []Message) (string, error) {
		return "", boom
	}
	o := NewOrchestrator(complete)
	resp, err := o.GenerateResponse(context.Background(), testPersona(),
		"hello", nil, ConversationContext{})
	if resp != nil {
		t.Fatalf("no partial result on provider failure, got %+v", resp)
	}
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("provider cause not preserved: %v", err)
	}
}

func TestGenerateResponse_EmptyCompletion(t *testing.T) {
	complete := func(ctx context.Context, messages []Message) (string, error) {
		return "   ", nil
	}
	o := NewOrchestrator(complete)
	_, err := o.GenerateResponse(context.Background(), testPersona(),
		"hello", nil, ConversationContext{})
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("blank completion should be a ProviderError, got %v", err)
	}
}

func TestGenerateResponse_ValidationBeforeCompletion(t *testing.T) {
	called := false
	complete := func(ctx context.Context, messages []Message) (string, error) {
		called = true
		return "ok", nil
	}
	o := NewOrchestrator(complete)

	bad := testPersona()
	bad.VocabularyProfile.Complexity = 0
	_, err := o.GenerateResponse(context.Background(), bad, "hello", nil, ConversationContext{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	_, err = o.GenerateResponse(context.Background(), testPersona(), "   ", nil, ConversationContext{})
	if !errors.As(err, &verr) || verr.Field != "userText" {
		t.Fatalf("blank user text should fail validation, got %v", err)
	}

	_, err = o.GenerateResponse(context.Background(), testPersona(), "hello", nil,
		ConversationContext{ConversationLength: -1})
	if !errors.As(err, &verr) {
		t.Fatalf("negative conversation length should fail validation, got %v", err)
	}

	if called {
		t.Fatal("completion ran despite validation failure")
	}
}

func TestGenerateResponse_NoCompletionConfigured(t *testing.T) {
	o := NewOrchestrator(nil)
	_, err := o.GenerateResponse(context.Background(), testPersona(), "hello", nil, ConversationContext{})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "completion" {
		t.Fatalf("expected completion validation error, got %v", err)
	}
}

func TestGenerateResponse_CancelledBeforeCall(t *testing.T) {
	called := false
	complete := func(ctx context.Context, messages []Message) (string, error) {
		called = true
		return "ok", nil
	}
	o := NewOrchestrator(complete)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.GenerateResponse(ctx, testPersona(), "hello", nil, ConversationContext{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Fatal("completion ran on a cancelled turn")
	}
}

func TestGenerateResponse_CancellationBeatsProviderError(t *testing.T) {
	// A provider that notices cancellation late still surfaces ctx.Err(), not
	// a ProviderError.
	ctx, cancel := context.WithCancel(context.Background())
	complete := func(ctx context.Context, messages []Message) (string, error) {
		cancel()
		return "", errors.New("stream reset")
	}
	o := NewOrchestrator(complete)
	_, err := o.GenerateResponse(ctx, testPersona(), "hello", nil, ConversationContext{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateResponse_HistoryWindow(t *testing.T) {
	var got []Message
	complete := func(ctx context.Context, messages []Message) (string, error) {
		got = messages
		return "Fine by me.", nil
	}
	o := NewOrchestrator(complete) // default window 10

	history := make([]Message, 0, 15)
	for i := 0; i < 15; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, Message{Role: role, Content: "turn"})
	}
	_, err := o.GenerateResponse(context.Background(), testPersona(), "latest question", history, ConversationContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 12 { // system + 10 history + user
		t.Fatalf("want 12 messages, got %d", len(got))
	}
	if got[0].Role != "system" || !strings.Contains(got[0].Content, testPersona().Name) {
		t.Fatalf("first message must be the persona system instruction, got %+v", got[0])
	}
	last := got[len(got)-1]
	if last.Role != "user" || last.Content != "latest question" {
		t.Fatalf("last message must be the current user text, got %+v", last)
	}
}

func TestGenerateResponse_EmotionFromReply(t *testing.T) {
	complete := func(ctx context.Context, messages []Message) (string, error) {
		return "That sounds amazing, honestly!", nil
	}
	cfg := seededOrchestratorConfig(1)
	cfg.EmotionSource = EmotionFromReply
	o := NewOrchestrator(complete, cfg)
	resp, err := o.GenerateResponse(context.Background(), testPersona(),
		"the statement arrived", nil, ConversationContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Emotion != EmotionExcited {
		t.Fatalf("emotion should come from the reply, got %s", resp.Emotion)
	}
}

func TestGenerateResponse_WithTracer(t *testing.T) {
	complete := func(ctx context.Context, messages []Message) (string, error) {
		return "All set.", nil
	}
	cfg := seededOrchestratorConfig(1)
	cfg.Tracer = NewTurnTracer(NullSpanExporter{}, true)
	o := NewOrchestrator(complete, cfg)
	if _, err := o.GenerateResponse(context.Background(), testPersona(),
		"hello", nil, ConversationContext{}); err != nil {
		t.Fatalf("tracing turn failed: %v", err)
	}
}
