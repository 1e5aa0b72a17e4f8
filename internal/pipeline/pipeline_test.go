package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/anuvad/internal/logging"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{BatchSize: 50, Concurrency: 3}, false},
		{"zero batch size", Config{BatchSize: 0, Concurrency: 3}, true},
		{"negative concurrency", Config{BatchSize: 10, Concurrency: -1}, true},
		{"opaque values pass through", Config{BatchSize: 1, Concurrency: 1, TargetLanguage: "", Credential: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(Config{BatchSize: 1, Concurrency: 1}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{}, upperTranslate, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunTranslatesEverything(t *testing.T) {
	store := makeStore(t, 5, 1, 4, 2, 3, 7, 6)

	p, err := New(
		Config{BatchSize: 2, Concurrency: 2, TargetLanguage: "German"},
		upperTranslate,
		logging.NewNop(),
	)
	require.NoError(t, err)

	var last Progress
	p.OnProgress = func(pr Progress) { last = pr }

	out, err := p.Run(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, out.Numbers())
	for _, e := range out.Entries() {
		orig, ok := store.Get(e.Number)
		require.True(t, ok)
		assert.Equal(t, orig.StartTime, e.StartTime)
		assert.Equal(t, orig.EndTime, e.EndTime)
	}
	assert.Equal(t, Progress{Completed: 4, Total: 4}, last)

	// input store untouched
	e, _ := store.Get(1)
	assert.Equal(t, "line 1", e.Text)
}

func TestRunKeepsUntranslatedEntries(t *testing.T) {
	store := makeStore(t, 1, 2, 3)

	p, err := New(
		Config{BatchSize: 3, Concurrency: 1},
		func(_ context.Context, _, _, _ string) (string, error) {
			return "[1] uno\n[3] tres\n[9] nueve", nil
		},
		nil,
	)
	require.NoError(t, err)

	out, err := p.Run(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())

	e, _ := out.Get(2)
	assert.Equal(t, "line 2", e.Text)
	_, ok := out.Get(9)
	assert.False(t, ok)
}

func TestRunReportsSingleFailure(t *testing.T) {
	boom := errors.New("unauthorized")
	store := makeStore(t, sequence(4)...)

	p, err := New(
		Config{BatchSize: 1, Concurrency: 2},
		func(ctx context.Context, text, lang, key string) (string, error) {
			if ParseTranslations(text)[0].Number == 4 {
				return "", boom
			}
			return upperTranslate(ctx, text, lang, key)
		},
		nil,
	)
	require.NoError(t, err)

	out, err := p.Run(context.Background(), store)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrTranslationFailed)
	assert.ErrorIs(t, err, boom)
}
