// Package segment composes raw OCR fragments into semantically coherent text
// segments and regroups those segments into size-bounded translation chunks.
//
// Both operations are pure functions of their input: re-running them over the
// same fragment sequence always yields the same boundaries.
package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"samvad/internal/ocr"
)

// Segment is a composed, semantically bounded unit of text such as a
// paragraph or verse.
type Segment struct {
	// Text is the concatenation of one or more fragment texts.
	Text string `json:"text"`

	// Page is carried from the fragment that started the segment.
	Page int `json:"page,omitempty"`

	// Top is the vertical coordinate of the starting fragment's first
	// bounding-box point. Consumed by the chunker's separator heuristic,
	// never serialized.
	Top int `json:"-"`
}

// DefaultBoundaryMarkers are the terminal symbols that signal a verse or
// sentence end: Devanagari danda and double danda, ASCII sentence finals,
// and the ellipsis.
var DefaultBoundaryMarkers = []rune{'।', '॥', '.', '!', '?', '…'}

// verseMarkerPattern matches trailing numeric verse markers such as "॥१२॥"
// or "|| 12 ||", common in scripture scans.
var verseMarkerPattern = regexp.MustCompile(`(?:॥|\|\|)\s*[0-9०-९]+\s*(?:॥|\|\|)$`)

// Composer merges ordered fragments into segments using terminal-punctuation
// heuristics.
type Composer struct {
	markers map[rune]bool
}

// NewComposer creates a composer with the given strong-boundary marker set.
// With no markers the default set is used.
func NewComposer(markers ...rune) *Composer {
	if len(markers) == 0 {
		markers = DefaultBoundaryMarkers
	}
	set := make(map[rune]bool, len(markers))
	for _, marker := range markers {
		set[marker] = true
	}
	return &Composer{markers: set}
}

// Compose performs a greedy single-pass merge over fragments in recognition
// order. A fragment ending in a strong boundary marker always becomes its own
// segment; otherwise it is appended to the previous segment unless that
// segment already ends in a boundary marker, in which case a fresh segment is
// started. Boundaries are decided purely by the terminal punctuation of the
// immediately preceding unit.
func (c *Composer) Compose(fragments []ocr.Fragment) []Segment {
	var segments []Segment

	for _, fragment := range fragments {
		text := strings.TrimSpace(fragment.Text)
		if text == "" {
			continue
		}

		switch {
		case c.EndsWithStrongBoundary(text):
			segments = append(segments, Segment{Text: text, Page: fragment.Page, Top: fragment.Top()})
		case len(segments) > 0 && !c.EndsWithStrongBoundary(segments[len(segments)-1].Text):
			segments[len(segments)-1].Text += " " + text
		default:
			segments = append(segments, Segment{Text: text, Page: fragment.Page, Top: fragment.Top()})
		}
	}

	return segments
}

// EndsWithStrongBoundary reports whether trimmed text terminates a verse or
// sentence: it ends in a marker rune or in a numeric verse marker.
func (c *Composer) EndsWithStrongBoundary(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	last, _ := utf8.DecodeLastRuneInString(text)
	if c.markers[last] {
		return true
	}

	return verseMarkerPattern.MatchString(text)
}
