package activate

import (
	"context"
	"testing"
	"time"

	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandActivator_Describe(t *testing.T) {
	tests := []struct {
		name string
		a    CommandActivator
		want string
	}{
		{"default container", CommandActivator{}, "docker restart prometheus"},
		{"named container", CommandActivator{Container: "prom"}, "docker restart prom"},
		{"shell command wins", CommandActivator{Container: "prom", Command: "systemctl restart prometheus"}, "systemctl restart prometheus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Describe())
		})
	}
}

func TestCommandActivator_Success(t *testing.T) {
	t.Setenv("SHELL", "/bin/sh")
	a := CommandActivator{Command: "echo restarted"}

	out, err := a.Activate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "restarted", out)
}

func TestCommandActivator_NonZeroExit(t *testing.T) {
	t.Setenv("SHELL", "/bin/sh")
	a := CommandActivator{Command: "echo 'no such container' >&2; exit 3"}

	_, err := a.Activate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrActivate))
	assert.Contains(t, err.Error(), "exit status 3")
	assert.Contains(t, err.Error(), "no such container")
}

func TestCommandActivator_Timeout(t *testing.T) {
	t.Setenv("SHELL", "/bin/sh")
	a := CommandActivator{Command: "exec sleep 5", Timeout: 50 * time.Millisecond}

	start := time.Now()
	_, err := a.Activate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrActivate))
	assert.Contains(t, err.Error(), "didn't finish")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCommandActivator_MissingShell(t *testing.T) {
	t.Setenv("SHELL", "/nonexistent/shell")
	a := CommandActivator{Command: "true"}

	_, err := a.Activate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrActivate))
	assert.Contains(t, err.Error(), "Couldn't run")
}

func TestNoop(t *testing.T) {
	var a Activator = Noop{}
	out, err := a.Activate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "no restart", a.Describe())
}
