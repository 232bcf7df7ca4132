package applier_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot/internal/applier"
	"github.com/applypilot/applypilot/internal/core"
	"github.com/applypilot/applypilot/internal/domain/model"
	apperrors "github.com/applypilot/applypilot/internal/errors"
	"github.com/applypilot/applypilot/internal/store"
	"github.com/applypilot/applypilot/internal/testutil"
)

type fixture struct {
	listing *testutil.FakeListing
	form    *testutil.FakeForm
	oracle  *testutil.FakeOracle
	docs    *testutil.FakeDocs
	store   *store.Store
	sleeps  []time.Duration
}

func newFixture(t *testing.T, pages ...testutil.PageScript) (*applier.Applier, *fixture) {
	t.Helper()
	f := &fixture{
		listing: testutil.NewFakeListing(),
		form:    testutil.NewFakeForm(pages...),
		oracle:  testutil.NewFakeOracle(),
		docs:    testutil.NewFakeDocs(),
		store:   testutil.NewStore(t),
	}
	a := applier.New(applier.Options{
		Page:      f.listing,
		Form:      f.form,
		Oracle:    f.oracle,
		Documents: f.docs,
		Store:     f.store,
		Logger:    testutil.NewLogger(),
		Sleep: func(_ context.Context, d time.Duration) error {
			f.sleeps = append(f.sleeps, d)
			return nil
		},
	})
	return a, f
}

func TestApplySubmitsSinglePageForm(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{
		Sections: []testutil.SectionScript{
			{Radio: &core.SelectQuestion{Question: "Do you require sponsorship?", Options: []string{"Yes", "No"}}},
			{Text: &core.TextQuestion{Question: "Years of experience with Go?", Numeric: true}},
		},
	})
	f.oracle.OptionAnswers["Do you require sponsorship?"] = "No"
	f.oracle.NumericAnswers["Years of experience with Go?"] = 5

	job := testutil.NewJobPosting().Build()
	result, err := a.Apply(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, applier.OutcomeSubmitted, result.Outcome)
	assert.True(t, f.form.Submitted)
	assert.True(t, f.form.FollowUnchecked)
	assert.Equal(t, "No", f.form.RadioSelections["Do you require sponsorship?"])
	assert.Equal(t, "5", f.form.TextboxFills["Years of experience with Go?"])

	require.Len(t, result.Record.Answers, 2)
	assert.Equal(t, model.QuestionKindRadio, result.Record.Answers[0].Kind)
	assert.Equal(t, model.QuestionKindNumeric, result.Record.Answers[1].Kind)

	// Submission persists the record.
	entries, readErr := os.ReadDir(filepath.Join(f.store.Dir(), "applications"))
	require.NoError(t, readErr)
	assert.Len(t, entries, 1)
}

func TestApplyTraversesMultiplePages(t *testing.T) {
	a, f := newFixture(t,
		testutil.PageScript{Sections: []testutil.SectionScript{
			{TermsOfService: true},
		}},
		testutil.PageScript{Sections: []testutil.SectionScript{
			{Dropdown: &core.SelectQuestion{Question: "Notice period?", Options: []string{"1 month", "2 weeks"}}},
		}},
	)
	f.oracle.OptionAnswers["Notice period?"] = "2 weeks"

	result, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)

	assert.Equal(t, applier.OutcomeSubmitted, result.Outcome)
	assert.Equal(t, 1, f.form.TermsAccepted)
	assert.Equal(t, "2 weeks", f.form.DropdownSelections["Notice period?"])
}

func TestApplyRejectsUnsuitablePosting(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{})
	f.oracle.Suitable = false

	result, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)

	assert.Equal(t, applier.OutcomeRejected, result.Outcome)
	assert.Empty(t, f.listing.OpenedLinks, "form must not be opened for rejected postings")
	assert.False(t, f.form.Submitted)
}

func TestApplyDiscardsFormWithoutSubmit(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{})
	f.form.Submittable = false

	result, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)

	assert.Equal(t, applier.OutcomeDiscarded, result.Outcome)
	assert.True(t, f.form.Discarded)
	assert.False(t, f.form.Submitted)
}

func TestApplyNavigationFailureSavesDraft(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{})
	f.listing.GoToErr = errors.New("page load timed out")

	_, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.Error(t, err)

	assert.True(t, apperrors.IsNavigation(err))
	assert.True(t, f.form.Saved, "draft must be saved before a failure propagates")
	assert.Contains(t, err.Error(), "discovered")
}

func TestApplyReadingPauseBounds(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{})

	_, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)

	// A short description clamps to the two second floor, jittered by
	// twenty percent either way.
	require.NotEmpty(t, f.sleeps)
	pause := f.sleeps[0]
	assert.GreaterOrEqual(t, pause, 1600*time.Millisecond)
	assert.LessOrEqual(t, pause, 2400*time.Millisecond)
}

func TestApplyCachesAnswersButNotCoverLetters(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{
		Sections: []testutil.SectionScript{
			{Text: &core.TextQuestion{Question: "Why do you want this role?"}},
			{Text: &core.TextQuestion{Question: "Paste your cover letter here"}},
		},
	})
	f.oracle.TextAnswers["Why do you want this role?"] = "I enjoy distributed systems."
	f.oracle.TextAnswers["Paste your cover letter here"] = "Dear hiring team at Initech."

	_, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)

	_, cached := f.store.FindAnswer("Why do you want this role?", model.QuestionKindFreeText)
	assert.True(t, cached)
	_, cached = f.store.FindAnswer("Paste your cover letter here", model.QuestionKindFreeText)
	assert.False(t, cached, "cover letter text must never be cached")
}

func TestApplyUsesCachedAnswerWithoutAskingOracle(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{
		Sections: []testutil.SectionScript{
			{Radio: &core.SelectQuestion{Question: "Do you require sponsorship?", Options: []string{"Yes", "No"}}},
		},
	})
	require.NoError(t, f.store.SaveAnswer(model.AnswerCacheEntry{
		Question: "Do you require sponsorship?",
		Answer:   "No",
		Kind:     model.QuestionKindRadio,
	}, ""))

	_, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)

	assert.Equal(t, "No", f.form.RadioSelections["Do you require sponsorship?"])
	assert.Empty(t, f.oracle.Asked, "cached answers must not consult the oracle")
}

func TestApplyReusesProfileResumeByLanguage(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{
		Uploads: []testutil.UploadScript{{Heading: "Upload your resume"}},
	})
	f.form.ProfileResumes = []core.UploadedDocument{
		{Handle: &testutil.Handle{Name: "profile-resume"}, Filename: "cv_eng.pdf"},
	}

	result, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)

	assert.Equal(t, applier.OutcomeSubmitted, result.Outcome)
	assert.Equal(t, []string{"cv_eng.pdf"}, f.form.SelectedResumes)
	assert.Empty(t, f.form.UploadedFiles)
	assert.Equal(t, 0, f.docs.ResumeCalls)
}

func TestApplyGeneratesResumeWhenNoneAvailable(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{
		Uploads: []testutil.UploadScript{{Heading: "Upload your resume"}},
	})

	result, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)

	assert.Equal(t, applier.OutcomeSubmitted, result.Outcome)
	assert.Equal(t, 1, f.docs.ResumeCalls)
	require.Len(t, f.form.UploadedFiles, 1)
	assert.FileExists(t, f.form.UploadedFiles[0])
	assert.Equal(t, f.form.UploadedFiles[0], result.Record.ResumePath)
}

func TestApplyFailsClosedOnUnknownLanguage(t *testing.T) {
	a, _ := newFixture(t, testutil.PageScript{
		Uploads: []testutil.UploadScript{{Heading: "Upload your resume"}},
	})

	job := testutil.NewJobPosting().
		WithDescription("xyzzy plugh 12345 qwerty asdf zxcv").
		Build()
	_, err := a.Apply(context.Background(), job)
	require.Error(t, err)
	assert.True(t, apperrors.IsLanguageDetection(err))
}

func TestApplyRetriesRateLimitedGeneration(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{
		Uploads: []testutil.UploadScript{{Heading: "Upload your resume"}},
	})
	f.docs.ResumeErrs = []error{
		apperrors.RateLimited("throttled", 0),
		apperrors.RateLimited("throttled", 3*time.Second),
	}

	result, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)

	assert.Equal(t, applier.OutcomeSubmitted, result.Outcome)
	assert.Equal(t, 3, f.docs.ResumeCalls)
	// First backoff uses the default, second the provided hint. The
	// reading pause occupies the first sleep slot.
	require.GreaterOrEqual(t, len(f.sleeps), 3)
	assert.Equal(t, 20*time.Second, f.sleeps[1])
	assert.Equal(t, 3*time.Second, f.sleeps[2])
}

func TestApplyRateLimitAttemptsAreCapped(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{
		Uploads: []testutil.UploadScript{{Heading: "Upload your resume"}},
	})
	f.docs.ResumeErrs = []error{
		apperrors.RateLimited("throttled", 0),
		apperrors.RateLimited("throttled", 0),
		apperrors.RateLimited("throttled", 0),
	}

	_, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.Error(t, err)
	assert.True(t, apperrors.IsRateLimited(err))
	assert.Equal(t, 3, f.docs.ResumeCalls)
}

func TestApplyRejectsOversizedDocument(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{
		Uploads: []testutil.UploadScript{{Heading: "Upload your resume"}},
	})
	f.docs.ResumeBytes = make([]byte, (2<<20)+1)

	_, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.Error(t, err)
	assert.True(t, apperrors.IsUpload(err))
	assert.Empty(t, f.form.UploadedFiles)
}

func TestApplyUploadsCoverLetter(t *testing.T) {
	a, f := newFixture(t, testutil.PageScript{
		Uploads: []testutil.UploadScript{{Heading: "Attach a cover letter"}},
	})
	f.oracle.UploadIntents["Attach a cover letter"] = core.UploadIntentCoverLetter

	result, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)

	assert.Equal(t, 1, f.docs.CoverCalls)
	require.Len(t, f.form.UploadedFiles, 1)
	assert.Equal(t, f.form.UploadedFiles[0], result.Record.CoverLetterPath)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want applier.Language
		err  bool
	}{
		{
			name: "english",
			text: "We are looking for an experienced developer with strong skills",
			want: applier.LanguageEnglish,
		},
		{
			name: "spanish",
			text: "Buscamos un desarrollador con experiencia y conocimientos",
			want: applier.LanguageSpanish,
		},
		{
			name: "too few markers",
			text: "We ship code",
			err:  true,
		},
		{
			name: "empty",
			text: "",
			err:  true,
		},
		{
			name: "punctuation does not break matching",
			text: "You will have experience, skills, and the requirements.",
			want: applier.LanguageEnglish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, err := applier.DetectLanguage(tt.text)
			if tt.err {
				require.Error(t, err)
				assert.True(t, apperrors.IsLanguageDetection(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, lang)
		})
	}
}

func TestManualModeCompletesOnPortalConfirmation(t *testing.T) {
	listing := testutil.NewFakeListing()
	listing.ConfirmAfter = 1
	form := testutil.NewFakeForm(testutil.PageScript{})
	st := testutil.NewStore(t)

	a := applier.New(applier.Options{
		Page:      listing,
		Form:      form,
		Oracle:    testutil.NewFakeOracle(),
		Documents: testutil.NewFakeDocs(),
		Store:     st,
		Manual:    true,
		Logger:    testutil.NewLogger(),
		Sleep: func(context.Context, time.Duration) error {
			return nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	result, err := a.Apply(ctx, testutil.NewJobPosting().Build())
	require.NoError(t, err)

	assert.Equal(t, applier.OutcomeManualCompleted, result.Outcome)
	assert.NotEmpty(t, result.Record.ResumePath, "manual completion generates a tailored resume")
	assert.False(t, form.Submitted, "the engine never submits in manual mode")
}

func TestManualModeAbandonedOnInterrupt(t *testing.T) {
	listing := testutil.NewFakeListing() // never confirms
	a := applier.New(applier.Options{
		Page:      listing,
		Form:      testutil.NewFakeForm(testutil.PageScript{}),
		Oracle:    testutil.NewFakeOracle(),
		Documents: testutil.NewFakeDocs(),
		Store:     testutil.NewStore(t),
		Manual:    true,
		Logger:    testutil.NewLogger(),
		Sleep: func(context.Context, time.Duration) error {
			return nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	result, err := a.Apply(ctx, testutil.NewJobPosting().Build())
	require.NoError(t, err)
	assert.Equal(t, applier.OutcomeManualAbandoned, result.Outcome)
}

func TestManualModeConfirmedByOperator(t *testing.T) {
	confirm := make(chan struct{}, 1)
	confirm <- struct{}{}

	a := applier.New(applier.Options{
		Page:      testutil.NewFakeListing(),
		Form:      testutil.NewFakeForm(testutil.PageScript{}),
		Oracle:    testutil.NewFakeOracle(),
		Documents: testutil.NewFakeDocs(),
		Store:     testutil.NewStore(t),
		Manual:    true,
		Confirm:   confirm,
		Logger:    testutil.NewLogger(),
		Sleep: func(context.Context, time.Duration) error {
			return nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	result, err := a.Apply(ctx, testutil.NewJobPosting().Build())
	require.NoError(t, err)
	assert.Equal(t, applier.OutcomeManualCompleted, result.Outcome)
}
