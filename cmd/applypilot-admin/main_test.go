package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot/config"
	"github.com/applypilot/applypilot/internal/domain/model"
	"github.com/applypilot/applypilot/internal/store"
)

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() {
		os.Stdout = oldStdout
	}()

	os.Stdout = w
	runErr := fn()
	require.NoError(t, w.Close())
	os.Stdout = oldStdout
	require.NoError(t, runErr)

	output, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	return string(output)
}

func testCommandContext(t *testing.T) *commandContext {
	t.Helper()
	cfg := config.AppConfig{
		Pacing: config.PacingConfig{
			SessionFile: filepath.Join(t.TempDir(), "session.json"),
		},
		Storage: config.StorageConfig{
			OutputDir:        t.TempDir(),
			AnswersFile:      "answers.json",
			LockAttempts:     1,
			LockPollInterval: time.Millisecond,
		},
	}
	return &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: cfg,
	}
}

func TestCommandsAreRegistered(t *testing.T) {
	cmds := commands()
	for _, name := range []string{"stats", "answers", "session"} {
		_, ok := cmds[name]
		require.True(t, ok, "command %s must be registered", name)
	}
}

func TestRunStatsSummarizesCategories(t *testing.T) {
	cmdCtx := testCommandContext(t)

	st, err := store.New(store.Options{Config: cmdCtx.Config.Storage, Logger: cmdCtx.Logger})
	require.NoError(t, err)
	job := &model.JobPosting{
		ID: "a", Title: "Backend Engineer", Company: "Globex",
		Location: "Remote", Link: "https://jobs.example.com/a",
	}
	require.NoError(t, st.StoreOutcome(job, model.OutcomeSuccess, "applied"))

	output := captureStdout(t, func() error {
		return runStats(cmdCtx, nil)
	})
	require.Contains(t, output, "success")
	require.Contains(t, output, "total")
}

func TestRunAnswersListsAndPrunes(t *testing.T) {
	cmdCtx := testCommandContext(t)

	st, err := store.New(store.Options{Config: cmdCtx.Config.Storage, Logger: cmdCtx.Logger})
	require.NoError(t, err)
	require.NoError(t, st.SaveAnswer(model.AnswerCacheEntry{
		Question: "Do you require sponsorship?",
		Answer:   "No",
		Kind:     model.QuestionKindRadio,
	}, ""))

	listed := captureStdout(t, func() error {
		return runAnswers(cmdCtx, nil)
	})
	require.Contains(t, listed, "do you require sponsorship?")

	pruned := captureStdout(t, func() error {
		return runAnswers(cmdCtx, []string{"-prune", "sponsorship"})
	})
	require.Contains(t, pruned, "removed 1")
}

func TestRunSessionWithoutStateFile(t *testing.T) {
	cmdCtx := testCommandContext(t)
	output := captureStdout(t, func() error {
		return runSession(cmdCtx, nil)
	})
	require.Contains(t, output, "no session state")
}
