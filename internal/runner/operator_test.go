package runner_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/applypilot/applypilot/internal/runner"
	"github.com/applypilot/applypilot/internal/testutil"
)

func TestOperatorSendAndPoll(t *testing.T) {
	op := runner.NewOperator(testutil.NewLogger())

	assert.Equal(t, runner.Command(""), op.Poll(0), "empty queue polls empty")

	op.Send(runner.CommandPause)
	op.Send(runner.CommandResume)
	assert.Equal(t, runner.CommandPause, op.Poll(0))
	assert.Equal(t, runner.CommandResume, op.Poll(0))
	assert.Equal(t, runner.Command(""), op.Poll(10*time.Millisecond))
}

func TestOperatorConfirmIsDeliveredSeparately(t *testing.T) {
	op := runner.NewOperator(testutil.NewLogger())
	op.Send(runner.CommandConfirm)

	assert.Equal(t, runner.Command(""), op.Poll(0), "confirm does not enter the command queue")
	select {
	case <-op.Confirm():
	default:
		t.Fatal("expected a confirmation signal")
	}
}

func TestOperatorReadFromParsesLines(t *testing.T) {
	op := runner.NewOperator(testutil.NewLogger())
	op.ReadFrom(strings.NewReader("  PAUSE  \n\nnonsense\nstop\n"))

	assert.Equal(t, runner.CommandPause, op.Poll(0))
	assert.Equal(t, runner.CommandStop, op.Poll(0))
	assert.Equal(t, runner.Command(""), op.Poll(0), "unknown lines are dropped")
}

func TestCommandValid(t *testing.T) {
	assert.True(t, runner.CommandPause.Valid())
	assert.True(t, runner.CommandSkip.Valid())
	assert.False(t, runner.Command("quit").Valid())
}
