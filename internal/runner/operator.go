package runner

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Command is an operator instruction read from the console while a run is in
// progress.
type Command string

const (
	CommandPause  Command = "pause"
	CommandResume Command = "resume"
	CommandStop   Command = "stop"
	// CommandSkip cuts the current inter-application delay short.
	CommandSkip Command = "skip"
	// CommandConfirm acknowledges a manually completed application.
	CommandConfirm Command = "confirm"
)

// Valid returns true if the command is recognized.
func (c Command) Valid() bool {
	switch c {
	case CommandPause, CommandResume, CommandStop, CommandSkip, CommandConfirm:
		return true
	default:
		return false
	}
}

// Operator delivers console commands to the control loop over a channel. The
// loop polls it between units of work so a command never interrupts an
// in-flight form page.
type Operator struct {
	commands chan Command
	confirm  chan struct{}
	logger   *slog.Logger
}

// NewOperator creates an Operator with a small command buffer so a keypress
// is never lost while the loop is mid-application.
func NewOperator(logger *slog.Logger) *Operator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Operator{
		commands: make(chan Command, 8),
		confirm:  make(chan struct{}, 1),
		logger:   logger,
	}
}

// Send queues a command, dropping it when the buffer is full.
func (o *Operator) Send(cmd Command) {
	if cmd == CommandConfirm {
		select {
		case o.confirm <- struct{}{}:
		default:
		}
		return
	}
	select {
	case o.commands <- cmd:
	default:
		o.logger.Warn("operator command buffer full, dropping", "command", string(cmd))
	}
}

// Poll returns the next queued command, or empty when none arrives within
// the timeout.
func (o *Operator) Poll(timeout time.Duration) Command {
	if timeout <= 0 {
		select {
		case cmd := <-o.commands:
			return cmd
		default:
			return ""
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case cmd := <-o.commands:
		return cmd
	case <-t.C:
		return ""
	}
}

// Confirm exposes the manual-completion confirmation channel.
func (o *Operator) Confirm() <-chan struct{} {
	return o.confirm
}

// ReadFrom consumes line-oriented commands from r until EOF. Unknown lines
// are logged and dropped. Intended to run in its own goroutine over stdin.
func (o *Operator) ReadFrom(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		cmd := Command(line)
		if !cmd.Valid() {
			o.logger.Warn("unknown operator command", "input", line)
			continue
		}
		o.logger.Info("operator command received", "command", line)
		o.Send(cmd)
	}
}
