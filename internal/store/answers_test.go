package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot/internal/domain/model"
)

func TestSanitizeQuestion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases and trims", in: "  How Many Years? ", want: "how many years?"},
		{name: "strips quotes and backslashes", in: `Do you "agree"\?`, want: "do you agree?"},
		{name: "flattens newlines", in: "line one\nline two\r", want: "line one line two"},
		{name: "strips control characters", in: "tab\there", want: "tabhere"},
		{name: "trims trailing commas", in: "city of residence,,", want: "city of residence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeQuestion(tt.in))
		})
	}
}

func TestSaveAndFindAnswerRoundTrip(t *testing.T) {
	s := newTestStore(t)

	entry := model.AnswerCacheEntry{
		Question: "How many years of Go experience do you have?",
		Answer:   "5",
		Kind:     model.QuestionKindNumeric,
	}
	require.NoError(t, s.SaveAnswer(entry, "Acme"))

	got, ok := s.FindAnswer("How many years of Go experience do you have?", model.QuestionKindNumeric)
	require.True(t, ok)
	assert.Equal(t, "5", got.Answer)

	// Same key, different kind misses.
	_, ok = s.FindAnswer("How many years of Go experience do you have?", model.QuestionKindRadio)
	assert.False(t, ok)
}

func TestSaveAnswerIdempotent(t *testing.T) {
	s := newTestStore(t)

	entry := model.AnswerCacheEntry{Question: "Willing to relocate?", Answer: "Yes", Kind: model.QuestionKindRadio}
	require.NoError(t, s.SaveAnswer(entry, ""))

	// A second save with the same key must not add or overwrite.
	entry.Answer = "No"
	require.NoError(t, s.SaveAnswer(entry, ""))

	require.Len(t, s.Answers(), 1)
	got, ok := s.FindAnswer("Willing to relocate?", model.QuestionKindRadio)
	require.True(t, ok)
	assert.Equal(t, "Yes", got.Answer)
}

func TestSaveAnswerRejectsCompanyMention(t *testing.T) {
	s := newTestStore(t)

	entry := model.AnswerCacheEntry{
		Question: "Why do you want this job?",
		Answer:   "I have always admired Acme's engineering culture.",
		Kind:     model.QuestionKindFreeText,
	}
	require.NoError(t, s.SaveAnswer(entry, "Acme"))
	assert.Empty(t, s.Answers())

	// Without the company mention the entry is cached.
	entry.Answer = "I enjoy building reliable systems."
	require.NoError(t, s.SaveAnswer(entry, "Acme"))
	assert.Len(t, s.Answers(), 1)
}

func TestAnswersPersistAcrossStores(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveAnswer(model.AnswerCacheEntry{
		Question: "Notice period?",
		Answer:   "Two weeks",
		Kind:     model.QuestionKindFreeText,
	}, ""))

	reopened, err := New(Options{Config: testStorageConfig(s.Dir())})
	require.NoError(t, err)
	got, ok := reopened.FindAnswer("Notice period?", model.QuestionKindFreeText)
	require.True(t, ok)
	assert.Equal(t, "Two weeks", got.Answer)
}

func TestPruneAnswers(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveAnswer(model.AnswerCacheEntry{Question: "Years of Go?", Answer: "5", Kind: model.QuestionKindNumeric}, ""))
	require.NoError(t, s.SaveAnswer(model.AnswerCacheEntry{Question: "Years of Java?", Answer: "2", Kind: model.QuestionKindNumeric}, ""))
	require.NoError(t, s.SaveAnswer(model.AnswerCacheEntry{Question: "Notice period?", Answer: "Two weeks", Kind: model.QuestionKindFreeText}, ""))

	removed, err := s.PruneAnswers("years")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Len(t, s.Answers(), 1)

	removed, err = s.PruneAnswers("nothing-matches")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
