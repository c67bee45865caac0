// Package extract splits model replies into typed segments. Replies are
// markdown with optional fenced blocks tagged excel, vba, or csv; everything
// else is plain text. Classification is advisory: the raw block content is
// what copy and export act on.
package extract

import "strings"

type Kind int

const (
	// Text is markdown prose
	Text Kind = iota
	// Formula is an Excel formula block (```excel fence)
	Formula
	// Macro is a VBA code block (```vba fence)
	Macro
	// Tabular is a CSV data block (```csv fence)
	Tabular
	// Pending marks an empty reply still being streamed
	Pending
)

type Segment struct {
	Kind    Kind
	Content string
}

type fenceTag struct {
	marker string
	kind   Kind
}

// fence tags, in match order. Tags are case-sensitive and match by prefix:
// a fence whose tag merely starts with one of these still opens that block.
var fenceTags = []fenceTag{
	{"```excel", Formula},
	{"```vba", Macro},
	{"```csv", Tabular},
}

const fenceClose = "```"

// Parse splits content into segments. An empty input yields a single Pending
// segment. A fence with no closing marker does not form a block; it stays in
// the surrounding text. Text segments keep their whitespace; block content is
// trimmed.
func Parse(content string) []Segment {
	if content == "" {
		return []Segment{{Kind: Pending}}
	}

	var segments []Segment
	text := strings.Builder{}

	flushText := func() {
		if text.Len() > 0 {
			segments = append(segments, Segment{Kind: Text, Content: text.String()})
			text.Reset()
		}
	}

	rest := content
	for rest != "" {
		start, tag := nextFence(rest)
		if start < 0 {
			text.WriteString(rest)
			break
		}

		bodyStart := start + len(tag.marker)
		closeIdx := strings.Index(rest[bodyStart:], fenceClose)
		if closeIdx < 0 {
			// Unclosed fence: the whole remainder is plain text
			text.WriteString(rest)
			break
		}

		text.WriteString(rest[:start])
		flushText()

		body := rest[bodyStart : bodyStart+closeIdx]
		segments = append(segments, Segment{
			Kind:    tag.kind,
			Content: strings.TrimSpace(body),
		})

		rest = rest[bodyStart+closeIdx+len(fenceClose):]
	}

	flushText()
	return segments
}

// nextFence finds the earliest tagged fence opening in s
func nextFence(s string) (int, *fenceTag) {
	best := -1
	var bestTag *fenceTag

	for i := range fenceTags {
		idx := strings.Index(s, fenceTags[i].marker)
		if idx >= 0 && (best < 0 || idx < best) {
			best = idx
			bestTag = &fenceTags[i]
		}
	}

	return best, bestTag
}

// Blocks returns only the non-text segments of a reply
func Blocks(content string) []Segment {
	var blocks []Segment
	for _, seg := range Parse(content) {
		if seg.Kind == Formula || seg.Kind == Macro || seg.Kind == Tabular {
			blocks = append(blocks, seg)
		}
	}
	return blocks
}

// LastBlock returns the most recent segment of the given kind in content,
// or nil
func LastBlock(content string, kind Kind) *Segment {
	var found *Segment
	for _, seg := range Parse(content) {
		if seg.Kind == kind {
			s := seg
			found = &s
		}
	}
	return found
}
