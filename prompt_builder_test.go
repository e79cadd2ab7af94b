package behaviorsdk

import (
	"strings"
	"testing"
)

// ══════════════════════════════════════════════
// System-instruction builder
// ══════════════════════════════════════════════

func TestBuildSystemInstruction_Sections(t *testing.T) {
	p := testPersona()
	p.Background.Occupation = "nurse"
	p.Background.Goals = []string{"save for a house"}
	p.Background.Fears = []string{"hidden fees"}
	p.VocabularyProfile.AvoidedWords = []string{"amortization"}
	p.KnowledgeBounds.AvoidTopics = []string{"crypto"}

	out := BuildSystemInstruction(p)
	for _, want := range []string{
		"You are Priya",
		"nurse",
		"save for a house",
		"hidden fees",
		"amortization",
		"crypto",
		"never an AI",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("instruction missing %q:\n%s", want, out)
		}
	}
}

func TestBuildSystemInstruction_QuestionStyle(t *testing.T) {
	p := testPersona()
	p.SpeechPatterns.QuestionStyle = QuestionClarifying
	out := BuildSystemInstruction(p)
	if !strings.Contains(strings.ToLower(out), "clarifying") {
		t.Fatalf("question style not rendered:\n%s", out)
	}
}
