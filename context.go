package behaviorsdk

import (
	"strings"
	"time"
)

// ──────────────────────────────────────────────
// ConversationContext — situational turn metadata
// ──────────────────────────────────────────────

// TimeOfDay is a coarse day/night flag. Empty means unknown.
type TimeOfDay string

const (
	TimeDay   TimeOfDay = "day"
	TimeNight TimeOfDay = "night"
)

// ConversationContext is the ephemeral situational input for one turn.
// Callers may build it by hand or derive it with a ContextTracker.
type ConversationContext struct {
	ConversationLength int       `json:"conversation_length"` // prior turns, >= 0
	TimeOfDay          TimeOfDay `json:"time_of_day,omitempty"`
	IsConfused         bool      `json:"is_confused"`
}

// validate rejects out-of-contract contexts.
func (c ConversationContext) validate() error {
	if c.ConversationLength < 0 {
		return &ValidationError{Field: "context.conversation_length", Reason: "must be non-negative"}
	}
	switch c.TimeOfDay {
	case "", TimeDay, TimeNight:
	default:
		return enumError("context.time_of_day", string(c.TimeOfDay))
	}
	return nil
}

// Markers that flag the user as confused. The delay estimator and the
// humanizer both slow down / loosen up for confused users.
var confusionMarkers = []string{
	"confused", "don't understand", "dont understand", "not sure",
	"unclear", "lost me", "what does", "what do you mean",
}

const (
	trackerTurnKey   = "sdk.turn_index"
	trackerLastAtKey = "sdk.last_msg_at"
)

// ContextTracker derives a ConversationContext for the current turn from a
// StateStore: a per-conversation turn counter, the wall clock, and
// confusion markers in the incoming text. Zero LLM cost.
type ContextTracker struct {
	store    StateStore
	timezone *time.Location
}

// NewContextTracker creates a tracker. Timezone defaults to UTC.
func NewContextTracker(store StateStore, timezone ...string) *ContextTracker {
	loc := time.UTC
	if len(timezone) > 0 && timezone[0] != "" {
		if l, err := time.LoadLocation(timezone[0]); err == nil {
			loc = l
		}
	}
	return &ContextTracker{store: store, timezone: loc}
}

// Track computes the context for an incoming message and advances the turn
// counter. namespace is typically "{persona_id}:{user_id}".
func (t *ContextTracker) Track(namespace, userText string, now time.Time) (ConversationContext, error) {
	turn, err := t.store.Incr(namespace, trackerTurnKey)
	if err != nil {
		return ConversationContext{}, err
	}
	if err := t.store.Set(namespace, trackerLastAtKey, now.Format(time.RFC3339)); err != nil {
		return ConversationContext{}, err
	}

	return ConversationContext{
		ConversationLength: turn - 1, // prior turns, not counting this one
		TimeOfDay:          classifyTimeOfDay(now.In(t.timezone).Hour()),
		IsConfused:         looksConfused(userText),
	}, nil
}

// Reset clears the turn counter for a conversation, e.g. when the calling
// service starts a fresh session under the same namespace.
func (t *ContextTracker) Reset(namespace string) error {
	if err := t.store.Delete(namespace, trackerTurnKey); err != nil {
		return err
	}
	return t.store.Delete(namespace, trackerLastAtKey)
}

func looksConfused(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range confusionMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func classifyTimeOfDay(hour int) TimeOfDay {
	if hour >= 7 && hour < 22 {
		return TimeDay
	}
	return TimeNight
}
