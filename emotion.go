package behaviorsdk

import "strings"

// ──────────────────────────────────────────────
// Emotion Classifier — keyword families + persona triggers
// ──────────────────────────────────────────────

// Emotion is the coarse emotion tag for a conversational turn.
type Emotion string

const (
	EmotionExcited    Emotion = "excited"
	EmotionFrustrated Emotion = "frustrated"
	EmotionWorried    Emotion = "worried"
	EmotionConfused   Emotion = "confused"
	EmotionNeutral    Emotion = "neutral"
	EmotionAngry      Emotion = "angry"
)

// Keyword families, checked in priority order. Stronger negative signals
// win ties because they drive UX adaptation (e.g. slowing down).
var emotionFamilies = []struct {
	emotion  Emotion
	keywords []string
}{
	{EmotionAngry, []string{
		"angry", "furious", "mad at", "rage", "pissed", "fed up",
	}},
	{EmotionFrustrated, []string{
		"frustrated", "frustrating", "annoying", "hate", "terrible",
		"awful", "stupid", "useless", "so confusing", "too complicated",
	}},
	{EmotionConfused, []string{
		"confused", "don't understand", "dont understand", "unclear",
		"lost me", "what does", "what do you mean", "makes no sense",
	}},
	{EmotionWorried, []string{
		"worried", "concerned", "scared", "nervous", "anxious", "afraid",
		"risk", "security", "is it safe",
	}},
	{EmotionExcited, []string{
		"excited", "amazing", "love", "awesome", "fantastic", "great",
		"perfect", "wonderful", "can't wait",
	}},
}

// DetectEmotion maps a message to an emotion tag. The message can be either
// the user's text or the persona's own reply — caller's choice. Persona
// frustration/excitement triggers participate at the matching priority
// level. Pure, case-insensitive; returns EmotionNeutral when nothing
// matches.
func DetectEmotion(message string, profile *PersonaProfile) Emotion {
	lower := strings.ToLower(message)

	var frustrationTriggers, excitementTriggers []string
	if profile != nil {
		frustrationTriggers = profile.EmotionalProfile.FrustrationTriggers
		excitementTriggers = profile.EmotionalProfile.ExcitementTriggers
	}

	for _, family := range emotionFamilies {
		keywords := family.keywords
		switch family.emotion {
		case EmotionFrustrated:
			keywords = append(keywords, lowered(frustrationTriggers)...)
		case EmotionExcited:
			keywords = append(keywords, lowered(excitementTriggers)...)
			// Generic positive-affect markers: a lone exclamation mark only
			// counts when nothing negative matched earlier, which holds by
			// construction at this point in the loop.
			if strings.Contains(message, "!") {
				return EmotionExcited
			}
		}
		for _, kw := range keywords {
			if kw != "" && strings.Contains(lower, kw) {
				return family.emotion
			}
		}
	}
	return EmotionNeutral
}

func lowered(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, strings.ToLower(t))
	}
	return out
}
