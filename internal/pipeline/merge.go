package pipeline

import (
	"sort"
)

// MergeReport records what ApplyTranslations could not line up.
type MergeReport struct {
	// pair numbers with no matching entry in the batch; those pairs were dropped
	Unmatched []int
	// batch entries the response did not cover; they keep their original text
	Untranslated []int
}

func (r MergeReport) Clean() bool {
	return len(r.Unmatched) == 0 && len(r.Untranslated) == 0
}

// ApplyTranslations returns a copy of batch with each entry's text replaced
// by the pair carrying its number. Timestamps are carried over untouched.
// Pairs whose number is not in the batch are discarded, entries without a
// non-empty pair keep their text, and for repeated numbers the last pair
// wins. The input batch is not modified.
//
// An empty pair text is not applied: a blank cue is never written over a
// line the model failed to translate.
func ApplyTranslations(batch Batch, pairs []Pair) (Batch, MergeReport) {
	position := make(map[int]int, len(batch))
	for i, e := range batch {
		position[e.Number] = i
	}

	out := make(Batch, len(batch))
	copy(out, batch)

	var report MergeReport
	covered := make(map[int]bool, len(batch))
	unmatched := make(map[int]bool)

	for _, p := range pairs {
		i, ok := position[p.Number]
		if !ok {
			if !unmatched[p.Number] {
				unmatched[p.Number] = true
				report.Unmatched = append(report.Unmatched, p.Number)
			}
			continue
		}
		if p.Text == "" {
			continue
		}
		out[i].Text = p.Text
		covered[p.Number] = true
	}

	for _, e := range batch {
		if !covered[e.Number] {
			report.Untranslated = append(report.Untranslated, e.Number)
		}
	}
	sort.Ints(report.Unmatched)

	return out, report
}
