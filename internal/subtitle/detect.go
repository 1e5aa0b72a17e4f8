package subtitle

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// only the first part of a long file is sampled
const detectSampleBytes = 4096

// Language guessed from a store's text
type Language struct {
	Name     string // English name, e.g. "Spanish"
	Code     string // ISO 639-1 where known
	Reliable bool
}

// DetectLanguage guesses the source language of the subtitle text. ok is
// false when there is no text to look at.
func DetectLanguage(store *Store) (Language, bool) {
	text := strings.TrimSpace(store.Text())
	if text == "" {
		return Language{}, false
	}
	if len(text) > detectSampleBytes {
		text = strings.ToValidUTF8(text[:detectSampleBytes], "")
	}

	info := whatlanggo.Detect(text)
	return Language{
		Name:     info.Lang.String(),
		Code:     info.Lang.Iso6391(),
		Reliable: info.IsReliable(),
	}, true
}
