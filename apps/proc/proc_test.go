package proc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func script(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestRunSuccess(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	path := script(t, `echo "$@" > "$3"`)

	elapsed, err := New(path, "-l", "8", out).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, elapsed > 0)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "-l 8 "+out+"\n", string(got))
}

func TestRunNonZeroExit(t *testing.T) {
	path := script(t, "echo 'bad kernel file' >&2\nexit 3")

	_, err := New(path, "x").Run(context.Background())
	require.Error(t, err)

	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 3, ee.ExitCode())
	assert.Contains(t, ee.Error(), "bad kernel file")
	assert.Contains(t, ee.Error(), path+" x")
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestRunMissingBinary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := New(missing).Run(context.Background())

	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, -1, ee.ExitCode())
}

func TestRunTimeout(t *testing.T) {
	path := script(t, "exec sleep 10")

	c := New(path)
	c.Timeout = 100 * time.Millisecond
	start := time.Now()
	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunCanceled(t *testing.T) {
	path := script(t, "exec sleep 10")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(path).Run(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTimeout))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestString(t *testing.T) {
	assert.Equal(t, "gkmsvm_train k.out pos.fa neg.fa svmtrain",
		New("gkmsvm_train", "k.out", "pos.fa", "neg.fa", "svmtrain").String())
}
