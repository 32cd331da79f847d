package translate

import (
	"regexp"
	"strings"
)

// Language models asked to refine a translation sometimes narrate their own
// uncertainty instead of translating. CleanArtifacts strips those hedges so
// the final text reads like a translation rather than a commentary.

// hedgePhrases are removed wherever they appear, longest first so that a
// longer phrase is never half-eaten by a shorter one.
var hedgePhrases = []string{
	"without additional context",
	"it appears to be",
	"there is no content",
	"possibly indicating",
	"which is simply",
	"it appears",
	"it seems",
}

var (
	parentheticalPattern = regexp.MustCompile(`\s*\([^)]*\)`)
	hedgePatterns        = compileHedgePatterns()
	spaceRunPattern      = regexp.MustCompile(`[ \t]+`)
	lineEdgePattern      = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	danglingPunctPattern = regexp.MustCompile(`[ \t]+([.,!?;:।॥…])`)
)

func compileHedgePatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(hedgePhrases))
	for _, phrase := range hedgePhrases {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(phrase)))
	}
	return patterns
}

// CleanArtifacts removes model commentary from a refined translation:
// parenthetical asides, hedging phrases, and the whitespace damage left
// behind by the removals. Applying it twice changes nothing.
func CleanArtifacts(text string) string {
	cleaned := parentheticalPattern.ReplaceAllString(text, "")

	for _, pattern := range hedgePatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	// Line breaks carry formatting and survive; only horizontal whitespace
	// damage from the removals is repaired.
	cleaned = spaceRunPattern.ReplaceAllString(cleaned, " ")
	cleaned = lineEdgePattern.ReplaceAllString(cleaned, "\n")
	cleaned = danglingPunctPattern.ReplaceAllString(cleaned, "$1")

	return strings.TrimSpace(cleaned)
}
