package behaviorsdk

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Tracing — per-turn pipeline spans
// ──────────────────────────────────────────────
//
// Each GenerateResponse call produces one trace with a span per pipeline
// stage (completion, humanize, delay, emotion, typing). A disabled tracer
// costs a nil check per stage.

// StageSpan records one pipeline stage of a turn.
type StageSpan struct {
	TraceID   string         `json:"trace_id"`
	Stage     string         `json:"stage"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Status    string         `json:"status"` // "ok" or "error"
	Error     string         `json:"error,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// DurationMs returns the span duration in milliseconds.
func (s *StageSpan) DurationMs() float64 {
	return float64(s.EndTime.Sub(s.StartTime).Microseconds()) / 1000.0
}

// SpanExporter receives finished spans.
type SpanExporter interface {
	Export(span *StageSpan)
}

// NullSpanExporter discards all spans.
type NullSpanExporter struct{}

func (NullSpanExporter) Export(*StageSpan) {}

// LogSpanExporter prints spans via the standard logger.
type LogSpanExporter struct{}

func (LogSpanExporter) Export(span *StageSpan) {
	id := span.TraceID
	if len(id) > 8 {
		id = id[:8]
	}
	log.Printf("[trace %s] %s | %s | %.1fms", id, span.Stage, span.Status, span.DurationMs())
}

// TurnTracer creates stage spans for one behavior-engine turn.
type TurnTracer struct {
	exporter SpanExporter
	enabled  bool

	mu      sync.Mutex
	traceID string
}

// NewTurnTracer creates a tracer. A nil exporter discards spans.
func NewTurnTracer(exporter SpanExporter, enabled bool) *TurnTracer {
	if exporter == nil {
		exporter = NullSpanExporter{}
	}
	return &TurnTracer{exporter: exporter, enabled: enabled}
}

// NewTrace starts a new trace and returns its ID.
func (t *TurnTracer) NewTrace() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.traceID = uuid.NewString()
	return t.traceID
}

// StartStage begins a stage span. Returns nil when tracing is disabled;
// EndStage tolerates a nil span.
func (t *TurnTracer) StartStage(stage string) *StageSpan {
	if t == nil || !t.enabled {
		return nil
	}
	t.mu.Lock()
	id := t.traceID
	t.mu.Unlock()
	return &StageSpan{TraceID: id, Stage: stage, StartTime: time.Now(), Status: "ok"}
}

// EndStage finishes and exports a span.
func (t *TurnTracer) EndStage(span *StageSpan, err error) {
	if t == nil || span == nil {
		return
	}
	span.EndTime = time.Now()
	if err != nil {
		span.Status = "error"
		span.Error = err.Error()
	}
	t.exporter.Export(span)
}
