package applier_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/applypilot/applypilot/internal/applier"
	"github.com/applypilot/applypilot/internal/core"
	"github.com/applypilot/applypilot/internal/domain/model"
	"github.com/applypilot/applypilot/internal/mocks"
	"github.com/applypilot/applypilot/internal/store"
	"github.com/applypilot/applypilot/internal/testutil"
)

func newMockApplier(t *testing.T, form *testutil.FakeForm, oracle core.Oracle, docs core.DocumentGenerator) (*applier.Applier, *store.Store) {
	t.Helper()
	st := testutil.NewStore(t)
	a := applier.New(applier.Options{
		Page:      testutil.NewFakeListing(),
		Form:      form,
		Oracle:    oracle,
		Documents: docs,
		Store:     st,
		Logger:    testutil.NewLogger(),
		Sleep: func(context.Context, time.Duration) error {
			return nil
		},
	})
	return a, st
}

func TestCachedAnswerOutsideOptionsConsultsOracle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	question := "What is your notice period?"
	form := testutil.NewFakeForm(testutil.PageScript{
		Sections: []testutil.SectionScript{
			{Dropdown: &core.SelectQuestion{Question: question, Options: []string{"2 weeks", "1 month"}}},
		},
	})

	oracle := mocks.NewMockOracle(ctrl)
	oracle.EXPECT().IsJobSuitable(gomock.Any(), gomock.Any()).Return(true, nil)
	oracle.EXPECT().
		AnswerFromOptions(gomock.Any(), question, []string{"2 weeks", "1 month"}).
		Return("2 weeks", nil)

	a, st := newMockApplier(t, form, oracle, testutil.NewFakeDocs())

	// The cached answer no longer matches any offered option, so the
	// oracle must be consulted again.
	job := testutil.NewJobPosting().Build()
	require.NoError(t, st.SaveAnswer(model.AnswerCacheEntry{
		Question: question,
		Answer:   "Immediately",
		Kind:     model.QuestionKindDropdown,
	}, ""))

	result, err := a.Apply(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, applier.OutcomeSubmitted, result.Outcome)
	assert.Equal(t, "2 weeks", form.DropdownSelections[question])
}

func TestNumericAnswersAreRenderedAsDigits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	question := "How many years of Go experience do you have?"
	form := testutil.NewFakeForm(testutil.PageScript{
		Sections: []testutil.SectionScript{
			{Text: &core.TextQuestion{Question: question, Numeric: true}},
		},
	})

	oracle := mocks.NewMockOracle(ctrl)
	oracle.EXPECT().IsJobSuitable(gomock.Any(), gomock.Any()).Return(true, nil)
	oracle.EXPECT().AnswerNumeric(gomock.Any(), question).Return(7, nil)

	a, _ := newMockApplier(t, form, oracle, testutil.NewFakeDocs())
	_, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)
	assert.Equal(t, "7", form.TextboxFills[question])
}

func TestGeneratedDocumentsComeFromTheGenerator(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	form := testutil.NewFakeForm(testutil.PageScript{
		Uploads: []testutil.UploadScript{{Heading: "Attach a cover letter"}},
	})

	oracle := mocks.NewMockOracle(ctrl)
	oracle.EXPECT().IsJobSuitable(gomock.Any(), gomock.Any()).Return(true, nil)
	oracle.EXPECT().
		ClassifyUploadIntent(gomock.Any(), "Attach a cover letter").
		Return(core.UploadIntentCoverLetter, nil)

	docs := mocks.NewMockDocumentGenerator(ctrl)
	docs.EXPECT().
		GenerateCoverLetter(gomock.Any(), gomock.Any()).
		Return([]byte("%PDF-1.4 cover"), nil)

	a, _ := newMockApplier(t, form, oracle, docs)
	result, err := a.Apply(context.Background(), testutil.NewJobPosting().Build())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Record.CoverLetterPath)
}
