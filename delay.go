package behaviorsdk

import "strings"

// ──────────────────────────────────────────────
// Delay Estimator — read + think + type timing
// ──────────────────────────────────────────────
//
// ComputeDelay answers "how long would this persona take to read the user's
// message, think, and type the reply". It is a pure function of its inputs:
// no randomness, no clock, so it is directly unit-testable. Natural jitter
// in the final UX comes from the humanizer changing reply length, not from
// the estimator.

// DelayConfig holds the timing constants. They are empirically chosen and
// tunable, not load-bearing; the clamp and the monotonicity in reply length
// are the contract.
type DelayConfig struct {
	ReadMsPerCharSlow   float64 // default 55
	ReadMsPerCharMedium float64 // default 35
	ReadMsPerCharFast   float64 // default 18

	TypeMsPerChar float64 // default 30; inflated by formality + vocabulary complexity

	ThinkBaseMs      float64 // default 1200, scaled by patience
	ConfusionFactor  float64 // default 1.5, applied when the user is confused
	FatigueStepPer   float64 // default 0.05 per prior turn
	FatigueCap       float64 // default 1.5
	NightFactor      float64 // default 1.15
	MinDelayMs       int     // default 400
	MaxDelayMs       int     // default 12000
}

// DefaultDelayConfig returns production-ready defaults.
func DefaultDelayConfig() DelayConfig {
	return DelayConfig{
		ReadMsPerCharSlow:   55,
		ReadMsPerCharMedium: 35,
		ReadMsPerCharFast:   18,
		TypeMsPerChar:       30,
		ThinkBaseMs:         1200,
		ConfusionFactor:     1.5,
		FatigueStepPer:      0.05,
		FatigueCap:          1.5,
		NightFactor:         1.15,
		MinDelayMs:          400,
		MaxDelayMs:          12000,
	}
}

// DelayEstimator computes human-like response delays.
type DelayEstimator struct {
	config DelayConfig
}

// NewDelayEstimator creates an estimator.
func NewDelayEstimator(config ...DelayConfig) *DelayEstimator {
	cfg := DefaultDelayConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	return &DelayEstimator{config: cfg}
}

// ComputeDelay returns the total delay in milliseconds for one turn,
// saturated to [MinDelayMs, MaxDelayMs].
func (e *DelayEstimator) ComputeDelay(profile *PersonaProfile, userText, replyText string, convCtx ConversationContext) int {
	if profile == nil {
		return e.config.MinDelayMs
	}
	cfg := e.config

	// Reading: slower personas spend more ms per character of the incoming
	// message.
	readRate := cfg.ReadMsPerCharMedium
	switch profile.CognitiveProfile.ComprehensionSpeed {
	case ComprehensionSlow:
		readRate = cfg.ReadMsPerCharSlow
	case ComprehensionFast:
		readRate = cfg.ReadMsPerCharFast
	}
	reading := float64(len(userText)) * readRate

	// Typing: careful composers (formal, rich vocabulary) type a touch
	// slower per character.
	care := 1.0 + float64(profile.CommunicationStyle.Formality+profile.VocabularyProfile.Complexity)/40.0
	typing := float64(len(replyText)) * cfg.TypeMsPerChar * care

	// Thinking: impatient personas fire off replies with less deliberation.
	thinking := cfg.ThinkBaseMs * float64(profile.CognitiveProfile.Patience) / 10.0
	if convCtx.IsConfused || containsClarifyingQuestion(replyText) {
		thinking *= cfg.ConfusionFactor
	}

	total := reading + typing + thinking

	// Long conversations slow everyone down a little.
	fatigue := 1.0 + float64(convCtx.ConversationLength)*cfg.FatigueStepPer
	if fatigue > cfg.FatigueCap {
		fatigue = cfg.FatigueCap
	}
	total *= fatigue

	if convCtx.TimeOfDay == TimeNight {
		total *= cfg.NightFactor
	}

	ms := int(total)
	if ms < cfg.MinDelayMs {
		return cfg.MinDelayMs
	}
	if ms > cfg.MaxDelayMs {
		return cfg.MaxDelayMs
	}
	return ms
}

var clarifyingLeads = []string{
	"do you mean", "could you clarify", "just to check", "what do you mean",
	"can you explain", "which one",
}

// containsClarifyingQuestion reports whether the reply asks the user to
// clarify, which implies extra back-and-forth thought before sending.
func containsClarifyingQuestion(reply string) bool {
	if !strings.Contains(reply, "?") {
		return false
	}
	lower := strings.ToLower(reply)
	for _, lead := range clarifyingLeads {
		if strings.Contains(lower, lead) {
			return true
		}
	}
	return false
}
