package behaviorsdk

import (
	"context"
	"log"
	"strings"
)

// ──────────────────────────────────────────────
// Response Orchestrator — one call, one composed result
// ──────────────────────────────────────────────
//
// The orchestrator is the SDK's single call surface. It wires the pure
// components around exactly one suspension point: the external completion
// call. It never persists anything and never invents a fallback reply —
// on provider failure the error propagates and no downstream step runs.

// Message is one entry of the conversation history.
type Message struct {
	Role    string `json:"role"` // "user", "assistant" or "system"
	Content string `json:"content"`
}

// CompletionFunc is the external completion capability: it turns a message
// list into a generated reply. Backed by whatever LLM the caller chooses;
// this SDK never imports a vendor client. The context bounds the call to
// the lifetime of the chat turn.
type CompletionFunc func(ctx context.Context, messages []Message) (string, error)

// EmotionSource selects which text the emotion classifier reacts to.
type EmotionSource string

const (
	EmotionFromUserText EmotionSource = "user"
	EmotionFromReply    EmotionSource = "reply"
)

// Response is the composed result of one behavior-engine turn.
type Response struct {
	Content      string        `json:"content"`
	DelayMs      int           `json:"delay_ms"`
	Emotion      Emotion       `json:"emotion"`
	TypingEvents []TypingEvent `json:"typing_events"`
	Warnings     []Warning     `json:"warnings,omitempty"`
}

// OrchestratorConfig assembles the component configs.
type OrchestratorConfig struct {
	Humanizer HumanizerConfig
	Delay     DelayConfig
	Typing    TypingConfig

	// EmotionSource selects the classifier input. Default: the user's text
	// (the persona reacts to what it just read).
	EmotionSource EmotionSource

	// HistoryWindow is the number of trailing history messages sent to the
	// completion capability. Default 10.
	HistoryWindow int

	// Tracer records per-stage spans. Nil disables tracing.
	Tracer *TurnTracer

	// Logger receives integration-point logs (provider failures, humanizer
	// warnings). Nil keeps the orchestrator silent.
	Logger *log.Logger
}

// DefaultOrchestratorConfig returns production-ready defaults.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		Humanizer:     DefaultHumanizerConfig(),
		Delay:         DefaultDelayConfig(),
		Typing:        DefaultTypingConfig(),
		EmotionSource: EmotionFromUserText,
		HistoryWindow: 10,
	}
}

// Orchestrator composes humanizer, delay estimator, emotion classifier and
// typing scheduler around a completion capability. Stateless apart from
// config; safe for concurrent use across conversation sessions. Within one
// session the caller serializes turns (see SessionRegistry).
type Orchestrator struct {
	complete  CompletionFunc
	humanizer *Humanizer
	delays    *DelayEstimator
	typing    *TypingScheduler
	config    OrchestratorConfig
}

// NewOrchestrator creates an orchestrator around a completion capability.
func NewOrchestrator(complete CompletionFunc, config ...OrchestratorConfig) *Orchestrator {
	cfg := DefaultOrchestratorConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 10
	}
	if cfg.EmotionSource == "" {
		cfg.EmotionSource = EmotionFromUserText
	}
	return &Orchestrator{
		complete:  complete,
		humanizer: NewHumanizer(cfg.Humanizer),
		delays:    NewDelayEstimator(cfg.Delay),
		typing:    NewTypingScheduler(cfg.Typing),
		config:    cfg,
	}
}

// GenerateResponse runs one full turn: validate → prompt → completion →
// humanize → delay → emotion → typing events.
//
// Error contract: *ValidationError for out-of-contract input (raised before
// any external call), *ProviderError when the completion capability fails,
// ctx.Err() when the turn is cancelled. On any error the remaining steps do
// not run and no partial result is returned.
func (o *Orchestrator) GenerateResponse(
	ctx context.Context,
	profile *PersonaProfile,
	userText string,
	history []Message,
	convCtx ConversationContext,
) (*Response, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userText) == "" {
		return nil, &ValidationError{Field: "userText", Reason: "must be non-empty"}
	}
	if err := convCtx.validate(); err != nil {
		return nil, err
	}
	if o.complete == nil {
		return nil, &ValidationError{Field: "completion", Reason: "no completion capability configured"}
	}

	tracer := o.config.Tracer
	if tracer != nil {
		tracer.NewTrace()
	}

	messages := o.buildMessages(profile, userText, history)

	// The one suspension point. Honor cancellation on both sides of the
	// call: a conscientious provider returns ctx.Err() itself, but nothing
	// forces it to.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span := tracer.StartStage("completion")
	rawText, err := o.complete(ctx, messages)
	tracer.EndStage(span, err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		o.logf("completion failed: %v", err)
		return nil, &ProviderError{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(rawText) == "" {
		return nil, &ProviderError{Err: errEmptyCompletion}
	}

	span = tracer.StartStage("humanize")
	content, warnings := o.humanizer.Humanize(profile, rawText, convCtx)
	tracer.EndStage(span, nil)
	for _, w := range warnings {
		o.logf("humanize warning: %s", w)
	}

	span = tracer.StartStage("delay")
	delayMs := o.delays.ComputeDelay(profile, userText, content, convCtx)
	tracer.EndStage(span, nil)

	emotionInput := userText
	if o.config.EmotionSource == EmotionFromReply {
		emotionInput = content
	}
	span = tracer.StartStage("emotion")
	emotion := DetectEmotion(emotionInput, profile)
	tracer.EndStage(span, nil)

	span = tracer.StartStage("typing")
	events := o.typing.GenerateTypingEvents(delayMs, profile)
	tracer.EndStage(span, nil)

	return &Response{
		Content:      content,
		DelayMs:      delayMs,
		Emotion:      emotion,
		TypingEvents: events,
		Warnings:     warnings,
	}, nil
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.config.Logger != nil {
		o.config.Logger.Printf(format, args...)
	}
}

// buildMessages assembles system instruction + rolling history window +
// the current user message.
func (o *Orchestrator) buildMessages(profile *PersonaProfile, userText string, history []Message) []Message {
	window := history
	if len(window) > o.config.HistoryWindow {
		window = window[len(window)-o.config.HistoryWindow:]
	}
	messages := make([]Message, 0, len(window)+2)
	messages = append(messages, Message{Role: "system", Content: BuildSystemInstruction(profile)})
	messages = append(messages, window...)
	messages = append(messages, Message{Role: "user", Content: userText})
	return messages
}

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const errEmptyCompletion = sentinelError("completion returned empty text")
