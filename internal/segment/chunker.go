package segment

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxChunkChars is the default chunk character budget, chosen to
	// respect translation-service request limits.
	DefaultMaxChunkChars = 1500

	// DefaultLineGapThresholdPx is the vertical gap, in source pixels, above
	// which two segments are treated as separate visual lines.
	DefaultLineGapThresholdPx = 10
)

// Chunk is a size-bounded span of concatenated segment text submitted to the
// translation stage as one unit.
type Chunk struct {
	Text string `json:"text"`
}

// ChunkSegments folds ordered segments into chunks of at most maxChars
// characters. Segments are never split: a single segment longer than the
// budget becomes its own oversized chunk. The separator between consecutive
// segments is a newline when the vertical gap between their first
// bounding-box points exceeds gapThresholdPx, else a single space.
//
// Non-positive limits fall back to the package defaults.
func ChunkSegments(segments []Segment, maxChars, gapThresholdPx int) []Chunk {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}
	if gapThresholdPx <= 0 {
		gapThresholdPx = DefaultLineGapThresholdPx
	}

	var chunks []Chunk
	var current string
	var currentLen int
	var prev *Segment

	for i := range segments {
		text := strings.TrimSpace(segments[i].Text)
		if text == "" {
			continue
		}
		textLen := utf8.RuneCountInString(text)

		if current == "" {
			current = text
			currentLen = textLen
			prev = &segments[i]
			continue
		}

		sep := separator(*prev, segments[i], gapThresholdPx)
		if currentLen+len(sep)+textLen <= maxChars {
			current += sep + text
			currentLen += len(sep) + textLen
		} else {
			chunks = append(chunks, Chunk{Text: current})
			current = text
			currentLen = textLen
		}
		prev = &segments[i]
	}

	if current != "" {
		chunks = append(chunks, Chunk{Text: current})
	}

	return chunks
}

// separator approximates "new visual line" vs "continuation" by comparing
// the vertical position of the two segments' first bounding-box points.
func separator(prev, next Segment, gapThresholdPx int) string {
	gap := next.Top - prev.Top
	if gap < 0 {
		gap = -gap
	}
	if gap > gapThresholdPx {
		return "\n"
	}
	return " "
}
