package behaviorsdk

import "fmt"

// ──────────────────────────────────────────────
// PersonaProfile — validated persona value object
// ──────────────────────────────────────────────
//
// A PersonaProfile describes how a synthesized person speaks, thinks and
// reacts. It is immutable per conversation turn: the caller constructs it
// (typically from a persisted persona record), validates it once, and
// passes it by reference into every engine operation. No component mutates
// it, so a single profile may be shared across concurrent turns.

// SentenceLength is the persona's preferred sentence length.
type SentenceLength string

const (
	SentenceShort  SentenceLength = "short"
	SentenceMedium SentenceLength = "medium"
	SentenceLong   SentenceLength = "long"
)

// CorrectionFrequency controls how often the persona corrects itself mid-reply.
type CorrectionFrequency string

const (
	CorrectionsRare       CorrectionFrequency = "rare"
	CorrectionsOccasional CorrectionFrequency = "occasional"
	CorrectionsFrequent   CorrectionFrequency = "frequent"
)

// QuestionStyle describes how the persona asks questions.
type QuestionStyle string

const (
	QuestionDirect     QuestionStyle = "direct"
	QuestionClarifying QuestionStyle = "clarifying"
	QuestionOpenEnded  QuestionStyle = "open-ended"
)

// EmotionalBaseline is the persona's resting emotional state.
type EmotionalBaseline string

const (
	BaselineNegative EmotionalBaseline = "negative"
	BaselineNeutral  EmotionalBaseline = "neutral"
	BaselinePositive EmotionalBaseline = "positive"
)

// ComprehensionSpeed classifies how fast the persona reads and absorbs text.
type ComprehensionSpeed string

const (
	ComprehensionSlow   ComprehensionSpeed = "slow"
	ComprehensionMedium ComprehensionSpeed = "medium"
	ComprehensionFast   ComprehensionSpeed = "fast"
)

// SpeechPatterns holds the persona's verbal habits.
type SpeechPatterns struct {
	FillerWords     []string            `json:"filler_words"`
	CommonPhrases   []string            `json:"common_phrases"`
	SentenceLength  SentenceLength      `json:"sentence_length"`
	SelfCorrections CorrectionFrequency `json:"self_corrections"`
	QuestionStyle   QuestionStyle       `json:"question_style"`
}

// VocabularyProfile holds vocabulary constraints.
//
// AvoidedWords and CommonWords may overlap in source data; avoidance always
// wins when both match the same token. Avoidance is a hard constraint,
// common-word injection is a soft preference.
type VocabularyProfile struct {
	Complexity   int      `json:"complexity"` // 1-10
	AvoidedWords []string `json:"avoided_words"`
	CommonWords  []string `json:"common_words"`
}

// EmotionalProfile holds the persona's baseline and trigger terms.
type EmotionalProfile struct {
	Baseline            EmotionalBaseline `json:"baseline"`
	FrustrationTriggers []string          `json:"frustration_triggers"`
	ExcitementTriggers  []string          `json:"excitement_triggers"`
}

// CognitiveProfile holds reading/thinking characteristics.
type CognitiveProfile struct {
	ComprehensionSpeed ComprehensionSpeed `json:"comprehension_speed"`
	Patience           int                `json:"patience"` // 1-10
}

// CommunicationStyle holds delivery preferences.
type CommunicationStyle struct {
	Formality int `json:"formality"` // 1-10
}

// Background carries optional identity details used only for prompt
// building, never for engine logic branching.
type Background struct {
	Occupation string   `json:"occupation,omitempty"`
	Goals      []string `json:"goals,omitempty"`
	Needs      []string `json:"needs,omitempty"`
	Fears      []string `json:"fears,omitempty"`
}

// KnowledgeBounds limits what the persona claims to know.
type KnowledgeBounds struct {
	ComfortTopics []string `json:"comfort_topics,omitempty"`
	AvoidTopics   []string `json:"avoid_topics,omitempty"`
	Rule          string   `json:"rule,omitempty"` // e.g. "defer politely outside comfort topics"
}

// PersonaProfile is the synthesized persona passed into every operation.
type PersonaProfile struct {
	Name string `json:"name"`

	SpeechPatterns     SpeechPatterns     `json:"speech_patterns"`
	VocabularyProfile  VocabularyProfile  `json:"vocabulary_profile"`
	EmotionalProfile   EmotionalProfile   `json:"emotional_profile"`
	CognitiveProfile   CognitiveProfile   `json:"cognitive_profile"`
	CommunicationStyle CommunicationStyle `json:"communication_style"`

	Background      Background      `json:"background,omitempty"`
	KnowledgeBounds KnowledgeBounds `json:"knowledge_bounds,omitempty"`
}

// Validate checks all range and enum invariants. A nil profile or any
// violation yields a *ValidationError. Downstream components rely on a
// validated profile and skip defensive re-checks.
func (p *PersonaProfile) Validate() error {
	if p == nil {
		return &ValidationError{Field: "profile", Reason: "nil profile"}
	}
	if err := checkRange("vocabulary_profile.complexity", p.VocabularyProfile.Complexity); err != nil {
		return err
	}
	if err := checkRange("cognitive_profile.patience", p.CognitiveProfile.Patience); err != nil {
		return err
	}
	if err := checkRange("communication_style.formality", p.CommunicationStyle.Formality); err != nil {
		return err
	}

	switch p.SpeechPatterns.SentenceLength {
	case SentenceShort, SentenceMedium, SentenceLong:
	default:
		return enumError("speech_patterns.sentence_length", string(p.SpeechPatterns.SentenceLength))
	}
	switch p.SpeechPatterns.SelfCorrections {
	case CorrectionsRare, CorrectionsOccasional, CorrectionsFrequent:
	default:
		return enumError("speech_patterns.self_corrections", string(p.SpeechPatterns.SelfCorrections))
	}
	switch p.SpeechPatterns.QuestionStyle {
	case QuestionDirect, QuestionClarifying, QuestionOpenEnded:
	default:
		return enumError("speech_patterns.question_style", string(p.SpeechPatterns.QuestionStyle))
	}
	switch p.EmotionalProfile.Baseline {
	case BaselineNegative, BaselineNeutral, BaselinePositive:
	default:
		return enumError("emotional_profile.baseline", string(p.EmotionalProfile.Baseline))
	}
	switch p.CognitiveProfile.ComprehensionSpeed {
	case ComprehensionSlow, ComprehensionMedium, ComprehensionFast:
	default:
		return enumError("cognitive_profile.comprehension_speed", string(p.CognitiveProfile.ComprehensionSpeed))
	}
	return nil
}

func checkRange(field string, v int) error {
	if v < 1 || v > 10 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be in [1,10], got %d", v)}
	}
	return nil
}

func enumError(field, got string) error {
	if got == "" {
		return &ValidationError{Field: field, Reason: "missing required enum value"}
	}
	return &ValidationError{Field: field, Reason: fmt.Sprintf("unknown value %q", got)}
}
