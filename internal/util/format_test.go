package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatExecutionTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{name: "zero", in: 0, want: "0.00 seconds"},
		{name: "seconds only", in: 42*time.Second + 500*time.Millisecond, want: "42.50 seconds"},
		{name: "exact minute", in: time.Minute, want: "1 minute"},
		{name: "minutes and seconds", in: 2*time.Minute + 5*time.Second, want: "2 minutes 5.00 seconds"},
		{name: "hours", in: time.Hour + 3*time.Minute + 12*time.Second, want: "1 hour 3 minutes 12.00 seconds"},
		{name: "negative clamps", in: -time.Second, want: "0.00 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatExecutionTime(tt.in))
		})
	}
}
