package startup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/logging"
)

func TestStartup_StartsInDependencyOrder(t *testing.T) {
	var started []string
	s := New(logging.NewNop(), 1)

	s.AddDependency(Func{
		Name:  "server",
		Needs: []string{"tracing"},
		StartFn: func(context.Context) error {
			started = append(started, "server")
			return nil
		},
	})
	s.AddDependency(Func{
		Name: "tracing",
		StartFn: func(context.Context) error {
			started = append(started, "tracing")
			return nil
		},
	})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"tracing", "server"}, started)
}

func TestStartup_StopsInReverseOrder(t *testing.T) {
	var stopped []string
	s := New(logging.NewNop(), 1)

	for _, name := range []string{"a", "b", "c"} {
		name := name
		s.AddDependency(Func{
			Name: name,
			StopFn: func(context.Context) error {
				stopped = append(stopped, name)
				return nil
			},
		})
	}

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"c", "b", "a"}, stopped)
}

func TestStartup_RetriesFailedDependency(t *testing.T) {
	attempts := 0
	s := New(logging.NewNop(), 3)

	s.AddDependency(Func{
		Name: "flaky",
		StartFn: func(context.Context) error {
			attempts++
			if attempts < 2 {
				return errors.New("not yet")
			}
			return nil
		},
	})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 2, attempts)
}

func TestStartup_GivesUpAfterMaxAttempts(t *testing.T) {
	s := New(logging.NewNop(), 1)
	s.AddDependency(Func{
		Name:    "broken",
		StartFn: func(context.Context) error { return errors.New("no") },
	})

	err := s.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "startup failed after 1 attempts")
}

func TestStartup_UnregisteredDependency(t *testing.T) {
	s := New(logging.NewNop(), 1)
	s.AddDependency(Func{Name: "a", Needs: []string{"missing"}})

	assert.Error(t, s.Start(context.Background()))
}

func TestStartup_DoesNotRestartStartedDependencies(t *testing.T) {
	healthyStarts := 0
	fails := 0
	s := New(logging.NewNop(), 2)

	s.AddDependency(Func{
		Name: "healthy",
		StartFn: func(context.Context) error {
			healthyStarts++
			return nil
		},
	})
	s.AddDependency(Func{
		Name: "flaky",
		StartFn: func(context.Context) error {
			fails++
			if fails < 2 {
				return errors.New("not yet")
			}
			return nil
		},
	})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 1, healthyStarts)
}
