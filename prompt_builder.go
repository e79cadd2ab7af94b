package behaviorsdk

import (
	"fmt"
	"strings"
)

// ──────────────────────────────────────────────
// Prompt Builder — persona → system instruction
// ──────────────────────────────────────────────
//
// Structure: [Identity] + [Objectives] + [Speech Rules] + [Vocabulary] +
// [Knowledge Bounds]. The output is the system message the orchestrator
// sends ahead of the conversation history. It is the only place persona
// identity fields (occupation, goals, fears) are consumed.

// BuildSystemInstruction compiles a persona into a system prompt string.
func BuildSystemInstruction(profile *PersonaProfile) string {
	var sections []string

	// [Identity]
	identity := fmt.Sprintf("You are %s", profile.Name)
	if profile.Background.Occupation != "" {
		identity += ", " + article(profile.Background.Occupation) + " " + profile.Background.Occupation
	}
	identity += ". Stay fully in character: you are a real person, never an AI, and you never mention assistants, models or prompts."
	sections = append(sections, identity)

	// [Objectives]
	var obj []string
	if len(profile.Background.Goals) > 0 {
		obj = append(obj, "Your goals: "+strings.Join(profile.Background.Goals, "; ")+".")
	}
	if len(profile.Background.Needs) > 0 {
		obj = append(obj, "What you need: "+strings.Join(profile.Background.Needs, "; ")+".")
	}
	if len(profile.Background.Fears) > 0 {
		obj = append(obj, "What worries you: "+strings.Join(profile.Background.Fears, "; ")+".")
	}
	if len(obj) > 0 {
		sections = append(sections, strings.Join(obj, " "))
	}

	// [Speech Rules]
	var speech []string
	switch profile.SpeechPatterns.SentenceLength {
	case SentenceShort:
		speech = append(speech, "Keep sentences short and direct.")
	case SentenceLong:
		speech = append(speech, "You tend toward longer, flowing sentences.")
	}
	switch profile.SpeechPatterns.QuestionStyle {
	case QuestionClarifying:
		speech = append(speech, "When unsure, ask a clarifying question before answering.")
	case QuestionOpenEnded:
		speech = append(speech, "Prefer open-ended questions over yes/no ones.")
	}
	if f := profile.CommunicationStyle.Formality; f <= 3 {
		speech = append(speech, "Your tone is casual and conversational.")
	} else if f >= 8 {
		speech = append(speech, "Your tone is formal and professional.")
	}
	if len(profile.SpeechPatterns.CommonPhrases) > 0 {
		speech = append(speech, "Phrases you naturally use: "+quoteJoin(profile.SpeechPatterns.CommonPhrases)+".")
	}
	if len(speech) > 0 {
		sections = append(sections, strings.Join(speech, " "))
	}

	// [Vocabulary]
	var vocab []string
	if c := profile.VocabularyProfile.Complexity; c <= 4 {
		vocab = append(vocab, "Use plain, everyday language; avoid jargon.")
	} else if c >= 8 {
		vocab = append(vocab, "You are comfortable with precise, technical vocabulary.")
	}
	if len(profile.VocabularyProfile.AvoidedWords) > 0 {
		vocab = append(vocab, "Never use these words: "+quoteJoin(profile.VocabularyProfile.AvoidedWords)+".")
	}
	if len(vocab) > 0 {
		sections = append(sections, strings.Join(vocab, " "))
	}

	// [Knowledge Bounds]
	var bounds []string
	if len(profile.KnowledgeBounds.ComfortTopics) > 0 {
		bounds = append(bounds, "You speak from experience about: "+strings.Join(profile.KnowledgeBounds.ComfortTopics, ", ")+".")
	}
	if len(profile.KnowledgeBounds.AvoidTopics) > 0 {
		bounds = append(bounds, "You have no real knowledge of: "+strings.Join(profile.KnowledgeBounds.AvoidTopics, ", ")+"; say so plainly instead of guessing.")
	}
	if profile.KnowledgeBounds.Rule != "" {
		bounds = append(bounds, profile.KnowledgeBounds.Rule)
	}
	if len(bounds) > 0 {
		sections = append(sections, strings.Join(bounds, " "))
	}

	return strings.Join(sections, "\n\n")
}

func quoteJoin(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, it := range items {
		quoted = append(quoted, `"`+it+`"`)
	}
	return strings.Join(quoted, ", ")
}

func article(noun string) string {
	if noun == "" {
		return "a"
	}
	switch strings.ToLower(noun)[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	}
	return "a"
}
