package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsShutdownErr(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "context canceled", err: context.Canceled, expected: true},
		{name: "wrapped context canceled", err: fmt.Errorf("fetching message: %w", context.Canceled), expected: true},
		{name: "eof", err: io.EOF, expected: true},
		{name: "wrapped eof", err: fmt.Errorf("read: %w", io.EOF), expected: true},
		{name: "broker error", err: errors.New("connection refused"), expected: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isShutdownErr(tt.err))
		})
	}
}
