package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Pair is one translated line recovered from a response blob.
type Pair struct {
	Number int
	Text   string
}

var markerRegex = regexp.MustCompile(`\[(\d+)\]`)

// ParseTranslations extracts (number, text) pairs from a response blob.
//
// The first marker may appear anywhere; whatever precedes it is dropped.
// Each segment's text runs until a following marker that begins a line
// (leading spaces or tabs allowed) or the end of the response, so text may
// span several lines and may contain inline "[n]" sequences. Text is
// trimmed. Pairs are returned in response order, duplicates included.
func ParseTranslations(response string) []Pair {
	locs := markerRegex.FindAllStringSubmatchIndex(response, -1)

	type marker struct {
		start, end int
		number     int
	}

	var markers []marker
	for _, loc := range locs {
		number, err := strconv.Atoi(response[loc[2]:loc[3]])
		if err != nil {
			// digit run too long for int
			continue
		}
		if len(markers) > 0 && !startsLine(response, loc[0]) {
			continue
		}
		markers = append(markers, marker{start: loc[0], end: loc[1], number: number})
	}

	pairs := make([]Pair, 0, len(markers))
	for i, m := range markers {
		end := len(response)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		pairs = append(pairs, Pair{
			Number: m.number,
			Text:   strings.TrimSpace(response[m.end:end]),
		})
	}
	return pairs
}

// reports whether only spaces or tabs separate pos from the previous newline
func startsLine(s string, pos int) bool {
	for i := pos - 1; i >= 0; i-- {
		switch s[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return false
}
