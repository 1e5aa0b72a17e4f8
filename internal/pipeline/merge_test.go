package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeEntryBatch() Batch {
	return Batch{
		{Number: 1, StartTime: time.Second, EndTime: 2 * time.Second, Text: "one"},
		{Number: 2, StartTime: 3 * time.Second, EndTime: 4 * time.Second, Text: "two"},
		{Number: 3, StartTime: 5 * time.Second, EndTime: 6 * time.Second, Text: "three"},
	}
}

func TestApplyTranslationsReplacesTextOnly(t *testing.T) {
	batch := threeEntryBatch()

	merged, report := ApplyTranslations(batch, []Pair{
		{Number: 1, Text: "un"},
		{Number: 2, Text: "deux"},
		{Number: 3, Text: "trois"},
	})

	assert.True(t, report.Clean())
	require.Len(t, merged, 3)
	for i := range batch {
		assert.Equal(t, batch[i].Number, merged[i].Number)
		assert.Equal(t, batch[i].StartTime, merged[i].StartTime)
		assert.Equal(t, batch[i].EndTime, merged[i].EndTime)
	}
	assert.Equal(t, "deux", merged[1].Text)
}

func TestApplyTranslationsMissingNumber(t *testing.T) {
	merged, report := ApplyTranslations(threeEntryBatch(), []Pair{
		{Number: 1, Text: "un"},
		{Number: 3, Text: "trois"},
	})

	require.Len(t, merged, 3)
	assert.Equal(t, "un", merged[0].Text)
	assert.Equal(t, "two", merged[1].Text)
	assert.Equal(t, "trois", merged[2].Text)
	assert.Equal(t, []int{2}, report.Untranslated)
	assert.Empty(t, report.Unmatched)
}

func TestApplyTranslationsDiscardsUnknownNumbers(t *testing.T) {
	merged, report := ApplyTranslations(threeEntryBatch(), []Pair{
		{Number: 42, Text: "hallucinated"},
		{Number: 2, Text: "deux"},
		{Number: 42, Text: "again"},
		{Number: 0, Text: "zero"},
	})

	require.Len(t, merged, 3)
	assert.Equal(t, []int{0, 42}, report.Unmatched)
	assert.Equal(t, []int{1, 3}, report.Untranslated)
	for _, e := range merged {
		assert.NotEqual(t, 42, e.Number)
	}
}

func TestApplyTranslationsLastDuplicateWins(t *testing.T) {
	merged, _ := ApplyTranslations(threeEntryBatch(), []Pair{
		{Number: 1, Text: "first"},
		{Number: 1, Text: "second"},
	})

	assert.Equal(t, "second", merged[0].Text)
}

func TestApplyTranslationsEmptyTextKeepsOriginal(t *testing.T) {
	merged, report := ApplyTranslations(threeEntryBatch(), []Pair{
		{Number: 1, Text: ""},
	})

	assert.Equal(t, "one", merged[0].Text)
	assert.Contains(t, report.Untranslated, 1)
}

func TestApplyTranslationsDoesNotMutateInput(t *testing.T) {
	batch := threeEntryBatch()

	_, _ = ApplyTranslations(batch, []Pair{{Number: 1, Text: "changed"}})

	assert.Equal(t, "one", batch[0].Text)
}

func TestRoundTripIdentity(t *testing.T) {
	batch := Batch{
		{Number: 10, StartTime: time.Second, EndTime: 2 * time.Second, Text: "Hello there"},
		{Number: 11, StartTime: 3 * time.Second, EndTime: 4 * time.Second, Text: "Two\nlines [with brackets]"},
		{Number: 12, StartTime: 5 * time.Second, EndTime: 6 * time.Second, Text: "Numbers like [3] inline"},
	}

	echoed := CombineBatchTexts(batch)
	merged, report := ApplyTranslations(batch, ParseTranslations(echoed))

	assert.True(t, report.Clean())
	assert.Equal(t, batch, merged)
}

func TestTimingInvariance(t *testing.T) {
	batch := Batch(makeStore(t, sequence(20)...).Entries())
	responses := []string{
		"",
		"garbage",
		"[1] x\n[5] y\n[500] z",
		CombineBatchTexts(batch),
		"[3] \n[3] three\n[20] last",
	}

	for _, response := range responses {
		merged, _ := ApplyTranslations(batch, ParseTranslations(response))
		require.Len(t, merged, len(batch))
		for i := range batch {
			assert.Equal(t, batch[i].Number, merged[i].Number)
			assert.Equal(t, batch[i].StartTime, merged[i].StartTime)
			assert.Equal(t, batch[i].EndTime, merged[i].EndTime)
		}
	}
}

