package behaviorsdk

// ──────────────────────────────────────────────
// Typing-Event Scheduler — simulated reading/typing timeline
// ──────────────────────────────────────────────
//
// The scheduler turns a total delay into an ordered, timestamped sequence
// of UI events that a presentation layer replays verbatim: first the
// persona "reads", maybe hesitates, then "types" with progress pings.
// Events are value objects generated fresh per response and never
// persisted.

// TypingEventType identifies a discrete typing-indicator event.
type TypingEventType string

const (
	EventReadingStart   TypingEventType = "reading_start"
	EventPause          TypingEventType = "pause"
	EventTypingStart    TypingEventType = "typing_start"
	EventTypingProgress TypingEventType = "typing_progress"
	EventTypingStop     TypingEventType = "typing_stop"
)

// TypingEvent is a single scheduled UI event, offset from turn start.
type TypingEvent struct {
	DelayMs         int             `json:"delay_ms"`
	EventType       TypingEventType `json:"event_type"`
	ProgressPercent int             `json:"progress_percent"`
}

// TypingConfig holds the phase fractions. Tunable, not load-bearing; the
// ordering guarantees are the contract.
type TypingConfig struct {
	ReadingFraction   float64 // default 0.25 of total
	PauseFractionBase float64 // default 0.10; grows toward PauseFractionMax as patience drops
	PauseFractionMax  float64 // default 0.20
	ProgressPings     int     // default 3, clamped to [2,4]
}

// DefaultTypingConfig returns production-ready defaults.
func DefaultTypingConfig() TypingConfig {
	return TypingConfig{
		ReadingFraction:   0.25,
		PauseFractionBase: 0.10,
		PauseFractionMax:  0.20,
		ProgressPings:     3,
	}
}

// TypingScheduler emits typing-indicator event sequences.
type TypingScheduler struct {
	config TypingConfig
}

// NewTypingScheduler creates a scheduler.
func NewTypingScheduler(config ...TypingConfig) *TypingScheduler {
	cfg := DefaultTypingConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.ProgressPings < 2 {
		cfg.ProgressPings = 2
	}
	if cfg.ProgressPings > 4 {
		cfg.ProgressPings = 4
	}
	return &TypingScheduler{config: cfg}
}

// GenerateTypingEvents splits totalDelayMs into reading, pause and typing
// phases and returns the event timeline. Guarantees, for any
// totalDelayMs >= 0:
//
//   - offsets are non-decreasing
//   - the first event is reading_start at 0
//   - the last event is typing_stop at exactly totalDelayMs, progress 100
//   - progress percentages are monotonically non-decreasing
//   - the sequence is never empty; tiny delays degenerate to
//     reading_start / typing_start / typing_stop
func (s *TypingScheduler) GenerateTypingEvents(totalDelayMs int, profile *PersonaProfile) []TypingEvent {
	if totalDelayMs < 0 {
		totalDelayMs = 0
	}
	cfg := s.config

	// Hesitation: low patience reads as a longer pause before typing.
	patience := 5
	if profile != nil {
		patience = profile.CognitiveProfile.Patience
	}
	pauseFrac := cfg.PauseFractionBase +
		(cfg.PauseFractionMax-cfg.PauseFractionBase)*float64(10-patience)/10.0

	reading := int(float64(totalDelayMs) * cfg.ReadingFraction)
	pause := int(float64(totalDelayMs) * pauseFrac)
	typingStart := reading + pause
	if typingStart >= totalDelayMs {
		// Degenerate: delay too small for distinct phases.
		typingStart = totalDelayMs / 2
		return []TypingEvent{
			{DelayMs: 0, EventType: EventReadingStart},
			{DelayMs: typingStart, EventType: EventTypingStart},
			{DelayMs: totalDelayMs, EventType: EventTypingStop, ProgressPercent: 100},
		}
	}

	events := []TypingEvent{{DelayMs: 0, EventType: EventReadingStart}}
	if pause > 0 {
		events = append(events, TypingEvent{DelayMs: reading, EventType: EventPause})
	}
	events = append(events, TypingEvent{DelayMs: typingStart, EventType: EventTypingStart})

	// Progress pings, evenly spaced through the typing phase.
	typingSpan := totalDelayMs - typingStart
	pings := cfg.ProgressPings
	for i := 1; i <= pings; i++ {
		frac := float64(i) / float64(pings+1)
		events = append(events, TypingEvent{
			DelayMs:         typingStart + int(float64(typingSpan)*frac),
			EventType:       EventTypingProgress,
			ProgressPercent: int(frac * 100),
		})
	}

	events = append(events, TypingEvent{DelayMs: totalDelayMs, EventType: EventTypingStop, ProgressPercent: 100})
	return events
}
