package dryrun_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot/internal/core"
	"github.com/applypilot/applypilot/internal/dryrun"
	"github.com/applypilot/applypilot/internal/testutil"
)

var (
	_ core.ListingProvider   = (*dryrun.Portal)(nil)
	_ core.ApplicationForm   = (*dryrun.Form)(nil)
	_ core.Oracle            = (*dryrun.Oracle)(nil)
	_ core.DocumentGenerator = (*dryrun.Docs)(nil)
)

func TestPortalPagesAreDeterministic(t *testing.T) {
	ctx := context.Background()
	p := dryrun.NewPortal(testutil.NewLogger())

	require.NoError(t, p.NextPage(ctx, "backend engineer", "remote", 0))
	first, err := p.Postings(ctx, true)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	job1, err := p.Posting(ctx, first[0])
	require.NoError(t, err)

	require.NoError(t, p.NextPage(ctx, "backend engineer", "remote", 0))
	again, err := p.Postings(ctx, true)
	require.NoError(t, err)
	job2, err := p.Posting(ctx, again[0])
	require.NoError(t, err)

	assert.Equal(t, job1.Link, job2.Link, "reruns must regenerate identical postings")
	assert.Equal(t, job1.Company, job2.Company)
}

func TestPortalPaginationEnds(t *testing.T) {
	ctx := context.Background()
	p := dryrun.NewPortal(testutil.NewLogger())

	require.NoError(t, p.NextPage(ctx, "backend engineer", "remote", 99))
	handles, err := p.Postings(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, handles)
}

func TestPortalInsightsExposeApplicantCounts(t *testing.T) {
	ctx := context.Background()
	p := dryrun.NewPortal(testutil.NewLogger())

	require.NoError(t, p.NextPage(ctx, "backend engineer", "remote", 0))
	handles, err := p.Postings(ctx, true)
	require.NoError(t, err)

	for _, h := range handles {
		insights, err := p.Insights(ctx, h)
		require.NoError(t, err)
		require.Len(t, insights, 1)
		assert.Contains(t, insights[0], "applicant")
	}
}

func TestOracleRejectsConfiguredCompanies(t *testing.T) {
	o := dryrun.NewOracle()
	ctx := context.Background()

	rejected, err := o.IsJobSuitable(ctx, testutil.NewJobPosting().WithCompany("Hooli").Build())
	require.NoError(t, err)
	assert.False(t, rejected)

	accepted, err := o.IsJobSuitable(ctx, testutil.NewJobPosting().WithCompany("Globex").Build())
	require.NoError(t, err)
	assert.True(t, accepted)
}

func TestOraclePrefersNegativeOption(t *testing.T) {
	o := dryrun.NewOracle()
	answer, err := o.AnswerFromOptions(context.Background(), "Require sponsorship?", []string{"Yes", "No"})
	require.NoError(t, err)
	assert.Equal(t, "No", answer)
}
