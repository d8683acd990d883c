package pid_test

import (
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func name(t *testing.T) string {
	t.Helper()
	n := fmt.Sprintf("thrustctl-test-%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = os.Remove(pid.Path(n)) })
	return n
}

func TestWriteRemove(t *testing.T) {
	n := name(t)

	require.NoError(t, pid.Write(n))
	data, err := os.ReadFile(pid.Path(n))
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	// rewriting our own PID is allowed
	require.NoError(t, pid.Write(n))

	require.NoError(t, pid.Remove(n))
	_, err = os.Stat(pid.Path(n))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, pid.Remove(n), "removing a missing PID file is not an error")
}

func TestWriteLiveProcess(t *testing.T) {
	n := name(t)
	require.NoError(t, os.WriteFile(pid.Path(n), []byte(strconv.Itoa(os.Getppid())), 0o600))

	err := pid.Write(n)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteStaleFile(t *testing.T) {
	n := name(t)
	require.NoError(t, os.WriteFile(pid.Path(n), []byte("garbage"), 0o600))

	require.NoError(t, pid.Write(n))
}
