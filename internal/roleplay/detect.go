package roleplay

import "strings"

// Mistake is one flagged problem in a trainee message. Each mistake counts
// once toward the session's mistake total.
type Mistake struct {
	Code     string
	Feedback string
}

// SessionContext is what a detector may inspect besides the message itself.
type SessionContext struct {
	FirstUserMessage bool
	MistakeCount     int
}

// Detector flags mistakes in a trainee message. The heuristic implementation
// below is the default; stricter detectors can be substituted without
// touching the state machine.
type Detector interface {
	Detect(message string, sctx SessionContext) []Mistake
}

// HeuristicDetector flags mistakes with simple phrase matching.
type HeuristicDetector struct {
	// CompanyName counts as a company-identity token when present in the
	// opening message.
	CompanyName string
}

var introductionTokens = []string{
	"my name is",
	"i'm ",
	"i am ",
	"this is ",
	"calling from",
	"on behalf of",
}

var coerciveTokens = []string{
	"you have to",
	"you must",
	"sign here",
}

// Detect runs the heuristics. Independent checks may both fire on one
// message; each counts separately.
func (d *HeuristicDetector) Detect(message string, sctx SessionContext) []Mistake {
	lower := strings.ToLower(message)

	var mistakes []Mistake
	if sctx.FirstUserMessage && !d.hasIntroduction(lower) {
		mistakes = append(mistakes, Mistake{
			Code:     "missing_introduction",
			Feedback: "Open by introducing yourself and your company.",
		})
	}
	if containsAny(lower, coerciveTokens) {
		mistakes = append(mistakes, Mistake{
			Code:     "too_pushy",
			Feedback: "Avoid pressuring the prospect; invite instead of demand.",
		})
	}
	return mistakes
}

func (d *HeuristicDetector) hasIntroduction(lower string) bool {
	if d.CompanyName != "" && strings.Contains(lower, strings.ToLower(d.CompanyName)) {
		return true
	}
	return containsAny(lower, introductionTokens)
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

var scoreRequestTokens = []string{
	"score me",
	"how did i do",
	"end session",
	"final score",
}

// isScoreRequest reports whether the trainee is asking to end and be scored.
func isScoreRequest(message string) bool {
	return containsAny(strings.ToLower(message), scoreRequestTokens)
}
