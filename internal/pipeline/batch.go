package pipeline

import (
	"fmt"
	"strings"

	"github.com/mgpai22/anuvad/internal/subtitle"
)

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 3
)

// Batch is a contiguous run of entries, ascending by number, sent to the
// backend as one request.
type Batch []subtitle.Entry

// numbers of the entries in the batch, in batch order
func (b Batch) Numbers() []int {
	numbers := make([]int, len(b))
	for i, e := range b {
		numbers[i] = e.Number
	}
	return numbers
}

// SplitIntoBatches partitions the store into consecutive batches of at most
// batchSize entries. Every entry lands in exactly one batch; only the last
// batch may be short. A batchSize below 1 is treated as 1.
func SplitIntoBatches(store *subtitle.Store, batchSize int) []Batch {
	if batchSize < 1 {
		batchSize = 1
	}

	entries := store.Entries()
	if len(entries) == 0 {
		return []Batch{}
	}
	if batchSize > len(entries) {
		batchSize = len(entries)
	}

	batches := make([]Batch, 0, (len(entries)+batchSize-1)/batchSize)
	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		batches = append(batches, Batch(entries[i:end:end]))
	}
	return batches
}

// CombineBatchTexts renders the batch as the request blob the backend is
// prompted with: one "[<number>] <text>" line per entry. ParseTranslations
// reverses it.
func CombineBatchTexts(batch Batch) string {
	lines := make([]string, len(batch))
	for i, e := range batch {
		lines[i] = fmt.Sprintf("[%d] %s", e.Number, e.Text)
	}
	return strings.Join(lines, "\n")
}
