package subtitle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreRejectsDuplicates(t *testing.T) {
	_, err := NewStore(Entry{Number: 1}, Entry{Number: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateNumber))
}

func TestNewStoreRejectsNonPositiveNumbers(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := NewStore(Entry{Number: n})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidNumber))
	}
}

func TestStoreIteratesAscending(t *testing.T) {
	store, err := NewStore(
		Entry{Number: 10, Text: "ten"},
		Entry{Number: 2, Text: "two"},
		Entry{Number: 7, Text: "seven"},
	)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 7, 10}, store.Numbers())

	var texts []string
	for _, e := range store.Entries() {
		texts = append(texts, e.Text)
	}
	assert.Equal(t, []string{"two", "seven", "ten"}, texts)
	assert.Equal(t, "two\nseven\nten\n", store.Text())
}

func TestStoreWithDoesNotMutate(t *testing.T) {
	original, err := NewStore(
		Entry{Number: 1, StartTime: time.Second, Text: "Hello"},
		Entry{Number: 2, StartTime: 2 * time.Second, Text: "World"},
	)
	require.NoError(t, err)

	updated, err := original.With(
		Entry{Number: 1, StartTime: time.Second, Text: "Bonjour"},
		Entry{Number: 3, Text: "new"},
	)
	require.NoError(t, err)

	e, ok := original.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Hello", e.Text)
	assert.Equal(t, 2, original.Len())

	e, ok = updated.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Bonjour", e.Text)
	assert.Equal(t, 3, updated.Len())
}

func TestStoreEntriesIsACopy(t *testing.T) {
	store, err := NewStore(Entry{Number: 1, Text: "a"})
	require.NoError(t, err)

	entries := store.Entries()
	entries[0].Text = "changed"

	e, _ := store.Get(1)
	assert.Equal(t, "a", e.Text)
}

func TestNilStore(t *testing.T) {
	var store *Store
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Numbers())
	assert.Empty(t, store.Entries())
	_, ok := store.Get(1)
	assert.False(t, ok)
}

func TestDetectLanguage(t *testing.T) {
	store, err := NewStore(
		Entry{Number: 1, Text: "Bonjour, comment allez-vous aujourd'hui ?"},
		Entry{Number: 2, Text: "Je vais très bien, merci beaucoup mon ami."},
		Entry{Number: 3, Text: "Nous allons au marché ce matin avec les enfants."},
	)
	require.NoError(t, err)

	lang, ok := DetectLanguage(store)
	require.True(t, ok)
	assert.Equal(t, "fr", lang.Code)

	empty, err := NewStore()
	require.NoError(t, err)
	_, ok = DetectLanguage(empty)
	assert.False(t, ok)
}
