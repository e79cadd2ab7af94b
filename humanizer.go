package behaviorsdk

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"
)

// ──────────────────────────────────────────────
// Humanizer — persona-specific rewrite of raw completions
// ──────────────────────────────────────────────
//
// The humanizer never generates text; it rewrites a candidate reply that an
// external completion capability already produced so that it matches the
// persona's linguistic fingerprint: vocabulary constraints, sentence length,
// filler words, self-corrections. Quoted spans and numeric values are left
// untouched. If no rule fires the input is returned unchanged.

// HumanizerConfig holds the tunable rewrite parameters.
type HumanizerConfig struct {
	FillerProbability     float64 // flat chance of a filler prefix, default 0.12
	OccasionalCorrection  float64 // self-correction chance for "occasional", default 0.15
	FrequentCorrection    float64 // self-correction chance for "frequent", default 0.3
	PhraseProbability     float64 // common-phrase injection chance, default 0.2
	MaxSentenceWords      int     // split threshold for short-sentence personas, default 12
	ScrubGenericAIPhrases bool    // strip "As an AI..." boilerplate, default true

	// Rand is the random source for probabilistic rules. Inject a seeded
	// source in tests for deterministic output. Defaults to a time-seeded
	// source. Never falls back to the global math/rand functions.
	Rand *rand.Rand

	// CustomRules run after the builtin rules, in order.
	CustomRules []RewriteRule
}

// DefaultHumanizerConfig returns production-ready defaults.
func DefaultHumanizerConfig() HumanizerConfig {
	return HumanizerConfig{
		FillerProbability:     0.12,
		OccasionalCorrection:  0.15,
		FrequentCorrection:    0.3,
		PhraseProbability:     0.2,
		MaxSentenceWords:      12,
		ScrubGenericAIPhrases: true,
	}
}

// Boilerplate an LLM emits when it forgets it is playing a person.
var genericAIPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)how may I assist you today\??`),
	regexp.MustCompile(`(?i)how can I help you\??`),
	regexp.MustCompile(`(?i)is there anything else I can help with\??`),
	regexp.MustCompile(`(?i)i'?m here to help\.?`),
	regexp.MustCompile(`(?i)as an AI( language model)?,?`),
	regexp.MustCompile(`(?i)i'?m an AI assistant,?`),
	regexp.MustCompile(`(?i)my purpose is to\s`),
}

// Domain replacements for jargon a low-vocabulary persona avoids.
var avoidedAlternatives = map[string]string{
	"utilize":              "use",
	"facilitate":           "help",
	"implement":            "do",
	"leverage":             "use",
	"optimize":             "improve",
	"synthesize":           "combine",
	"paradigm":             "way",
	"methodology":          "method",
	"comprehensive":        "complete",
	"sophisticated":        "complex",
	"amortization":         "payment schedule",
	"apr":                  "interest rate",
	"debt-to-income ratio": "how much you owe vs earn",
}

var neutralParaphrases = []string{"that", "it", "this thing"}

var selfCorrectionPhrases = []string{
	"Actually, I mean,", "I mean,", "Wait,", "Let me think,", "Hmm,",
}

// Markers that make the humanizer treat the turn as a frustration context.
var frustrationMarkers = []string{"frustrating", "annoying", "hate", "terrible", "awful"}

// lockedRand serializes access to a rand.Rand so one Humanizer can be
// shared across request workers.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// Humanizer rewrites candidate replies to match a persona.
// Safe for concurrent use.
type Humanizer struct {
	config HumanizerConfig
	rng    *lockedRand
}

// NewHumanizer creates a humanizer.
func NewHumanizer(config ...HumanizerConfig) *Humanizer {
	cfg := DefaultHumanizerConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	src := cfg.Rand
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Humanizer{config: cfg, rng: &lockedRand{r: src}}
}

// Humanize rewrites text for the persona. Returns the rewritten text and
// any non-fatal warnings. For valid input it never fails; an empty text or
// nil profile is out of contract and returns the input untouched with a
// warning rather than panicking.
func (h *Humanizer) Humanize(profile *PersonaProfile, text string, convCtx ConversationContext) (string, []Warning) {
	if profile == nil || strings.TrimSpace(text) == "" {
		return text, []Warning{{Rule: "humanize.skip", Detail: "nil profile or empty text"}}
	}

	var warnings []Warning
	result := text

	// 0. Strip generic AI boilerplate.
	if h.config.ScrubGenericAIPhrases {
		scrubbed := result
		for _, re := range genericAIPatterns {
			scrubbed = re.ReplaceAllString(scrubbed, "")
		}
		if scrubbed != result {
			result = normalizeWhitespace(scrubbed)
			warnings = append(warnings, Warning{Rule: "scrub.generic_ai", Detail: "removed assistant boilerplate"})
		}
	}

	// 1. Avoided-word replacement. Hard constraint: the avoided token never
	// survives. Replacement preference: domain alternative, then the closest
	// common word, then a neutral paraphrase (with a warning).
	sentences := splitSentences(result)
	changed := false
	sentences, vocabWarnings, vocabChanged := h.applyVocabulary(profile, sentences)
	warnings = append(warnings, vocabWarnings...)
	changed = changed || vocabChanged

	// 2. Short-sentence personas get long sentences split at a conjunction
	// or comma.
	if profile.SpeechPatterns.SentenceLength == SentenceShort {
		before := len(sentences)
		sentences = splitLongSentences(sentences, h.config.MaxSentenceWords)
		changed = changed || len(sentences) != before
	}

	// 3. Filler words. Higher odds when the turn reads frustrated, scaled by
	// impatience. Never on the opening sentence.
	sentences, fillerChanged := h.applyFillers(profile, sentences, result)
	changed = changed || fillerChanged

	// 4. Self-corrections.
	sentences, corrChanged := h.applySelfCorrections(profile, sentences)
	changed = changed || corrChanged

	// Rejoin only when a sentence-level rule fired, so untouched text keeps
	// its exact spacing.
	if changed {
		result = strings.Join(sentences, " ")
	}

	// 5. Common-phrase injection at opinion anchors.
	result = h.applyCommonPhrase(profile, result)

	// 6. Custom rewrite rules (e.g. Lua scripts).
	for _, rule := range h.config.CustomRules {
		rewritten, err := rule.Apply(result)
		if err != nil {
			warnings = append(warnings, Warning{Rule: "script.error", Detail: err.Error()})
			continue
		}
		if rewritten != "" {
			result = rewritten
		}
	}

	if strings.TrimSpace(result) == "" {
		// Every rule conspired to empty the reply; fall back to the input.
		return text, append(warnings, Warning{Rule: "humanize.empty", Detail: "rewrite emptied reply, kept original"})
	}
	return result, warnings
}

func (h *Humanizer) applyVocabulary(profile *PersonaProfile, sentences []string) ([]string, []Warning, bool) {
	avoided := profile.VocabularyProfile.AvoidedWords
	if len(avoided) == 0 {
		return sentences, nil, false
	}
	var warnings []Warning
	anyChanged := false
	out := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		simplify := false
		for _, term := range avoided {
			if term == "" {
				continue
			}
			repl, fallback := h.replacementFor(term, profile.VocabularyProfile.CommonWords)
			replaced, changed := replaceWholeWord(sentence, term, repl)
			if !changed {
				continue
			}
			sentence = replaced
			anyChanged = true
			if fallback {
				warnings = append(warnings, Warning{Rule: "vocabulary.fallback", Detail: "no safe replacement for " + term})
				if profile.VocabularyProfile.Complexity <= 4 {
					simplify = true
				}
			}
		}
		if simplify {
			out = append(out, splitLongSentences([]string{sentence}, h.config.MaxSentenceWords)...)
		} else {
			out = append(out, sentence)
		}
	}
	return out, warnings, anyChanged
}

// replacementFor picks the substitute for an avoided term. fallback reports
// that only a neutral paraphrase was available.
func (h *Humanizer) replacementFor(term string, commonWords []string) (string, bool) {
	if alt, ok := avoidedAlternatives[strings.ToLower(term)]; ok {
		return alt, false
	}
	if best := closestWord(term, commonWords); best != "" {
		return best, false
	}
	return neutralParaphrases[h.rng.Intn(len(neutralParaphrases))], true
}

func (h *Humanizer) applyFillers(profile *PersonaProfile, sentences []string, fullText string) ([]string, bool) {
	fillers := profile.SpeechPatterns.FillerWords
	if len(fillers) == 0 || len(sentences) < 2 {
		return sentences, false
	}
	p := h.config.FillerProbability
	if isFrustrationContext(profile, fullText) {
		p = float64(10-profile.CognitiveProfile.Patience) / 10
	}
	if h.rng.Float64() >= p {
		return sentences, false
	}
	// Pick any sentence but the first; an awkward filler opening reads
	// robotic, which defeats the point.
	idx := 1 + h.rng.Intn(len(sentences)-1)
	filler := fillers[h.rng.Intn(len(fillers))]
	sentences[idx] = capitalize(filler) + ", " + decapitalize(sentences[idx])
	return sentences, true
}

func (h *Humanizer) applySelfCorrections(profile *PersonaProfile, sentences []string) ([]string, bool) {
	var p float64
	switch profile.SpeechPatterns.SelfCorrections {
	case CorrectionsOccasional:
		p = h.config.OccasionalCorrection
	case CorrectionsFrequent:
		p = h.config.FrequentCorrection
	default:
		return sentences, false
	}
	if len(sentences) < 2 || h.rng.Float64() >= p {
		return sentences, false
	}
	idx := 1 + h.rng.Intn(len(sentences)-1)
	phrase := selfCorrectionPhrases[h.rng.Intn(len(selfCorrectionPhrases))]
	sentences[idx] = phrase + " " + decapitalize(sentences[idx])
	return sentences, true
}

var phraseAnchors = []string{"I think", "I feel", "I need", "I want"}

func (h *Humanizer) applyCommonPhrase(profile *PersonaProfile, text string) string {
	phrases := profile.SpeechPatterns.CommonPhrases
	if len(phrases) == 0 || h.rng.Float64() >= h.config.PhraseProbability {
		return text
	}
	for _, anchor := range phraseAnchors {
		idx := strings.Index(text, anchor)
		if idx < 0 || insideQuotes(text, idx) {
			continue
		}
		phrase := phrases[h.rng.Intn(len(phrases))]
		return text[:idx] + phrase + ", " + decapitalize(text[idx:])
	}
	return text
}

func isFrustrationContext(profile *PersonaProfile, text string) bool {
	lower := strings.ToLower(text)
	for _, m := range frustrationMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	for _, trigger := range profile.EmotionalProfile.FrustrationTriggers {
		if trigger != "" && strings.Contains(lower, strings.ToLower(trigger)) {
			return true
		}
	}
	return false
}

// ─── text helpers ───

// splitSentences cuts text into sentences, keeping terminators. Terminators
// inside double-quoted spans or decimal numbers do not end a sentence.
func splitSentences(text string) []string {
	var out []string
	var cur strings.Builder
	runes := []rune(text)
	inQuote := false
	for i, r := range runes {
		cur.WriteRune(r)
		if r == '"' {
			inQuote = !inQuote
		}
		if inQuote || (r != '.' && r != '!' && r != '?') {
			continue
		}
		atEnd := i+1 == len(runes)
		var next rune
		if !atEnd {
			next = runes[i+1]
		}
		if r == '.' && i > 0 && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(next) {
			continue // decimal point
		}
		if atEnd || next == ' ' || next == '\n' {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}

var conjunctions = []string{" and ", " but ", " because ", " so ", " which ", " while "}

// splitLongSentences breaks sentences over maxWords at the conjunction or
// comma nearest the middle. Sentences containing quotes are left alone.
func splitLongSentences(sentences []string, maxWords int) []string {
	out := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		out = append(out, splitOne(sentence, maxWords)...)
	}
	return out
}

func splitOne(sentence string, maxWords int) []string {
	if len(strings.Fields(sentence)) <= maxWords || strings.Contains(sentence, `"`) {
		return []string{sentence}
	}
	mid := len(sentence) / 2
	cut, cutLen := -1, 0
	candidates := append([]string{", "}, conjunctions...)
	for _, sep := range candidates {
		idx := nearestIndex(sentence, sep, mid)
		if idx < 0 {
			continue
		}
		if cut == -1 || abs(idx-mid) < abs(cut-mid) {
			cut, cutLen = idx, len(sep)
		}
	}
	if cut <= 0 {
		return []string{sentence}
	}
	first := strings.TrimRight(strings.TrimSpace(sentence[:cut]), ",")
	rest := strings.TrimSpace(sentence[cut+cutLen:])
	if first == "" || rest == "" {
		return []string{sentence}
	}
	if !strings.ContainsAny(first[len(first)-1:], ".!?") {
		first += "."
	}
	// The tail keeps its own terminator; recurse in case it is still long.
	return append([]string{first}, splitOne(capitalize(rest), maxWords)...)
}

// nearestIndex finds the occurrence of sep closest to pos. Numeric commas
// ("12,000" has no space after the comma) never match because sep includes
// the trailing space.
func nearestIndex(s, sep string, pos int) int {
	best := -1
	from := 0
	for {
		idx := strings.Index(s[from:], sep)
		if idx < 0 {
			break
		}
		idx += from
		if best == -1 || abs(idx-pos) < abs(best-pos) {
			best = idx
		}
		from = idx + 1
	}
	return best
}

// replaceWholeWord replaces case-insensitive whole-word occurrences of term
// outside quoted spans, preserving leading capitalization.
func replaceWholeWord(sentence, term, repl string) (string, bool) {
	lower := strings.ToLower(sentence)
	lterm := strings.ToLower(term)
	var b strings.Builder
	changed := false
	i := 0
	for i < len(sentence) {
		if strings.HasPrefix(lower[i:], lterm) &&
			boundaryAt(lower, i-1) && boundaryAt(lower, i+len(lterm)) &&
			!insideQuotes(sentence, i) {
			r := repl
			if isUpperStart(sentence[i:]) {
				r = capitalize(repl)
			}
			b.WriteString(r)
			i += len(lterm)
			changed = true
			continue
		}
		b.WriteByte(sentence[i])
		i++
	}
	return b.String(), changed
}

func boundaryAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}

func insideQuotes(s string, pos int) bool {
	count := strings.Count(s[:pos], `"`)
	return count%2 == 1
}

// closestWord picks the candidate with the smallest edit distance to term,
// if any candidate is reasonably close (distance no greater than the longer
// length minus one — anything further is a different word entirely).
func closestWord(term string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		if c == "" || strings.EqualFold(c, term) {
			continue
		}
		d := editDistance(strings.ToLower(term), strings.ToLower(c))
		limit := len(term)
		if len(c) > limit {
			limit = len(c)
		}
		if d >= limit {
			continue
		}
		if bestDist == -1 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func decapitalize(s string) string {
	if s == "" {
		return s
	}
	// Leave acronyms and the pronoun "I" alone.
	r := []rune(s)
	if len(r) > 1 && unicode.IsUpper(r[1]) {
		return s
	}
	if r[0] == 'I' && (len(r) == 1 || r[1] == ' ' || r[1] == '\'') {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func isUpperStart(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func normalizeWhitespace(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
